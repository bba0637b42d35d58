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

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDebugOverridesLevel(t *testing.T) {
	l, err := New(&Config{Level: "warn", Debug: true, Output: "stdout"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, l.Zerolog().GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")

	l, err := New(&Config{Level: "info", Output: path})
	require.NoError(t, err)

	l.Info().Str("screen_id", "scr_1").Msg("hello")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"screen_id":"scr_1"`)
}

func TestSetDebug(t *testing.T) {
	l := Wrap(zerolog.New(&bytes.Buffer{}))

	l.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, l.Zerolog().GetLevel())

	l.SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	l := Wrap(zerolog.New(&buf))
	cl := l.WithComponent("heartbeat")
	cl.Info().Msg("tick")

	assert.Contains(t, buf.String(), `"component":"heartbeat"`)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_CONSOLE", "yes")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stdout", config.Output)
	assert.True(t, config.Console)
}
