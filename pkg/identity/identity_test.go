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
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/adscreen/pkg/logger"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(ctx, path, logger.NewTestLogger())
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "screen_id", "scr_1"))
	require.NoError(t, s.Put(ctx, "screen_id", "scr_2"))

	v, err := s.Get(ctx, "screen_id")
	require.NoError(t, err)
	assert.Equal(t, "scr_2", v)

	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path, logger.NewTestLogger())
	require.NoError(t, err)

	defer func() { _ = reopened.Close() }()

	v, err = reopened.Get(ctx, "screen_id")
	require.NoError(t, err)
	assert.Equal(t, "scr_2", v)

	require.NoError(t, reopened.Delete(ctx, "screen_id"))

	_, err = reopened.Get(ctx, "screen_id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestManagerDeviceIDIsStable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := NewManager(store).DeviceID(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(first)
	require.NoError(t, err)

	second, err := NewManager(store).DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestManagerScreenID(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	_, ok, err := m.ScreenID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SaveScreenID(ctx, "scr_42"))

	id, ok, err := m.ScreenID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "scr_42", id)

	deviceID, err := m.DeviceID(ctx)
	require.NoError(t, err)

	require.NoError(t, m.ClearScreenID(ctx))

	_, ok, err = m.ScreenID(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := m.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, deviceID, again)
}
