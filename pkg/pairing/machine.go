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

// Package pairing implements the device pairing lifecycle that gates all
// networked behaviour.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/carverauto/adscreen/pkg/identity"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

//go:generate mockgen -destination=mock_pairing.go -package=pairing github.com/carverauto/adscreen/pkg/pairing Lookup

var (
	// ErrInvalidCode is returned for codes outside the allowed charset or length.
	ErrInvalidCode = errors.New("invalid pairing code")
	// ErrCodeNotFound is returned when the backend does not recognise the code.
	ErrCodeNotFound = errors.New("pairing code not found")
	// ErrLookupFailed wraps transport errors from the pairing lookup.
	ErrLookupFailed = errors.New("pairing lookup failed")
	// ErrPairingInProgress is returned when another pairing attempt is running.
	ErrPairingInProgress = errors.New("pairing already in progress")
	// ErrAlreadyPaired is returned when pairing is attempted while paired.
	ErrAlreadyPaired = errors.New("device already paired")
	// ErrNoLaunchCode is returned when launch parameters carry no pair code.
	ErrNoLaunchCode = errors.New("no pairing code in launch parameters")
)

// LaunchParam is the deep-link parameter carrying a pairing code.
const LaunchParam = "pair"

// Lookup resolves a pairing code with the backend. An unknown code is
// reported as a nil result with a nil error.
type Lookup interface {
	LookupPairingCode(ctx context.Context, code, deviceID string) (*models.PairingResult, error)
}

// Listener observes session transitions.
type Listener func(prev, next models.DeviceSession)

// Option configures a Machine.
type Option func(*Machine)

// WithCodeGenerator replaces the connection code generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(m *Machine) { m.newCode = gen }
}

// Machine is the pairing state machine: unpaired -> connecting -> paired,
// and paired -> unpaired on Disconnect.
type Machine struct {
	ids     *identity.Manager
	lookup  Lookup
	logger  logger.Logger
	newCode func() (string, error)

	mu      sync.Mutex
	session models.DeviceSession

	listenersMu  sync.Mutex
	listeners    map[uint64]Listener
	nextListener uint64
}

// NewMachine creates an unpaired machine with a fresh connection code.
func NewMachine(ctx context.Context, ids *identity.Manager, lookup Lookup, log logger.Logger, opts ...Option) (*Machine, error) {
	m := &Machine{
		ids:       ids,
		lookup:    lookup,
		logger:    log,
		newCode:   GenerateConnectionCode,
		listeners: make(map[uint64]Listener),
	}

	for _, opt := range opts {
		opt(m)
	}

	deviceID, err := ids.DeviceID(ctx)
	if err != nil {
		return nil, err
	}

	code, err := m.newCode()
	if err != nil {
		return nil, err
	}

	m.session = models.DeviceSession{
		DeviceID:       deviceID,
		ConnectionCode: code,
		State:          models.PairingStateUnpaired,
	}

	return m, nil
}

// Session returns a copy of the current session.
func (m *Machine) Session() models.DeviceSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.session
}

// Subscribe registers fn for every transition. The returned function removes
// the registration and is safe to call more than once.
func (m *Machine) Subscribe(fn Listener) (unsubscribe func()) {
	m.listenersMu.Lock()
	m.nextListener++
	id := m.nextListener
	m.listeners[id] = fn
	m.listenersMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			delete(m.listeners, id)
			m.listenersMu.Unlock()
		})
	}
}

// Restore moves an unpaired machine to paired when a screen id was persisted
// by an earlier run. It reports whether a session was restored.
func (m *Machine) Restore(ctx context.Context) (bool, error) {
	screenID, ok, err := m.ids.ScreenID(ctx)
	if err != nil || !ok {
		return false, err
	}

	restored := m.update(func(s *models.DeviceSession) bool {
		if s.State != models.PairingStateUnpaired {
			return false
		}

		s.ScreenID = screenID
		s.ConnectionCode = ""
		s.State = models.PairingStatePaired

		return true
	})

	if restored {
		m.logger.Info().Str("screen_id", screenID).Msg("Restored pairing from device state")
	}

	return restored, nil
}

// Pair validates code, looks it up and on success persists the screen
// assignment and moves to paired. Malformed codes never reach the network.
func (m *Machine) Pair(ctx context.Context, raw string) (*models.PairingResult, error) {
	code, err := NormalizeCode(raw)
	if err != nil {
		return nil, err
	}

	var stateErr error

	m.update(func(s *models.DeviceSession) bool {
		switch s.State {
		case models.PairingStateConnecting:
			stateErr = ErrPairingInProgress
			return false
		case models.PairingStatePaired:
			stateErr = ErrAlreadyPaired
			return false
		case models.PairingStateUnpaired:
		}

		s.State = models.PairingStateConnecting

		return true
	})

	if stateErr != nil {
		return nil, stateErr
	}

	deviceID := m.Session().DeviceID

	result, err := m.lookup.LookupPairingCode(ctx, code, deviceID)
	if err != nil {
		m.fail(code, err)
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	if result == nil || result.ScreenID == "" {
		m.fail(code, ErrCodeNotFound)
		return nil, ErrCodeNotFound
	}

	if err := m.ids.SaveScreenID(ctx, result.ScreenID); err != nil {
		m.fail(code, err)
		return nil, err
	}

	m.update(func(s *models.DeviceSession) bool {
		s.ScreenID = result.ScreenID
		s.ScreenName = result.Name
		s.ConnectionCode = ""
		s.State = models.PairingStatePaired

		return true
	})

	m.logger.Info().
		Str("device_id", deviceID).
		Str("screen_id", result.ScreenID).
		Str("screen_name", result.Name).
		Msg("Device paired")

	return result, nil
}

// PairFromLaunch pairs with the code carried by the deep-link launch
// parameters, with the same validation and error paths as Pair.
func (m *Machine) PairFromLaunch(ctx context.Context, params url.Values) (*models.PairingResult, error) {
	raw := params.Get(LaunchParam)
	if raw == "" {
		return nil, ErrNoLaunchCode
	}

	result, err := m.Pair(ctx, raw)
	if errors.Is(err, ErrAlreadyPaired) || errors.Is(err, ErrPairingInProgress) {
		m.logger.Info().Err(err).Msg("Ignoring launch pairing code")
	}

	return result, err
}

// Disconnect clears the persisted screen assignment, returns to unpaired and
// shows a new connection code.
func (m *Machine) Disconnect(ctx context.Context) error {
	if err := m.ids.ClearScreenID(ctx); err != nil {
		return err
	}

	code := m.freshCode()

	var screenID string

	disconnected := m.update(func(s *models.DeviceSession) bool {
		if s.State != models.PairingStatePaired {
			return false
		}

		screenID = s.ScreenID
		*s = models.DeviceSession{
			DeviceID:       s.DeviceID,
			ConnectionCode: code,
			State:          models.PairingStateUnpaired,
		}

		return true
	})

	if disconnected {
		m.logger.Info().Str("screen_id", screenID).Msg("Device disconnected")
	}

	return nil
}

func (m *Machine) fail(code string, err error) {
	next := m.freshCode()

	m.update(func(s *models.DeviceSession) bool {
		s.State = models.PairingStateUnpaired
		s.ConnectionCode = next

		return true
	})

	m.logger.Warn().Err(err).Str("code", code).Msg("Pairing attempt failed")
}

// freshCode returns a new connection code, keeping the current one if the
// generator fails.
func (m *Machine) freshCode() string {
	code, err := m.newCode()
	if err == nil {
		return code
	}

	m.logger.Error().Err(err).Msg("Keeping previous connection code")

	return m.Session().ConnectionCode
}

// update applies fn to the session inside one critical section and notifies
// listeners when fn reports a change.
func (m *Machine) update(fn func(*models.DeviceSession) bool) bool {
	m.mu.Lock()
	prev := m.session
	changed := fn(&m.session)
	next := m.session
	m.mu.Unlock()

	if changed {
		m.notify(prev, next)
	}

	return changed
}

func (m *Machine) notify(prev, next models.DeviceSession) {
	m.listenersMu.Lock()

	ids := make([]uint64, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}

	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(prev, next)
	}
}
