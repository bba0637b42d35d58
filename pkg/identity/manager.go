/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

const (
	keyDeviceID = "device_id"
	keyScreenID = "screen_id"
)

// Manager hands out the device identifier and the persisted screen assignment.
type Manager struct {
	store Store

	mu       sync.Mutex
	deviceID string
}

// NewManager creates a Manager over store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// DeviceID returns the device identifier, generating and persisting a UUID on first use.
func (m *Manager) DeviceID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deviceID != "" {
		return m.deviceID, nil
	}

	id, err := m.store.Get(ctx, keyDeviceID)
	switch {
	case err == nil && id != "":
		m.deviceID = id
		return id, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return "", fmt.Errorf("load device id: %w", err)
	}

	id = uuid.NewString()
	if err := m.store.Put(ctx, keyDeviceID, id); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}

	m.deviceID = id

	return id, nil
}

// ScreenID returns the persisted screen assignment. ok is false when unpaired.
func (m *Manager) ScreenID(ctx context.Context) (id string, ok bool, err error) {
	id, err = m.store.Get(ctx, keyScreenID)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("load screen id: %w", err)
	}

	return id, id != "", nil
}

// SaveScreenID persists the screen assignment.
func (m *Manager) SaveScreenID(ctx context.Context, screenID string) error {
	if err := m.store.Put(ctx, keyScreenID, screenID); err != nil {
		return fmt.Errorf("persist screen id: %w", err)
	}

	return nil
}

// ClearScreenID removes the screen assignment. The device id is kept.
func (m *Manager) ClearScreenID(ctx context.Context) error {
	if err := m.store.Delete(ctx, keyScreenID); err != nil {
		return fmt.Errorf("clear screen id: %w", err)
	}

	return nil
}
