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

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

func TestEnvLoaderNestedFields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("SCREEN_AGENT_STATE_PATH", "/var/lib/screen/state.db")
	t.Setenv("SCREEN_AGENT_BACKEND_BASE_URL", "https://api.example.com")
	t.Setenv("SCREEN_AGENT_BACKEND_RETRY_MAX", "5")
	t.Setenv("SCREEN_AGENT_BACKEND_TIMEOUT", "7s")
	t.Setenv("SCREEN_AGENT_NOTIFY_TRANSPORT", "nats")
	t.Setenv("SCREEN_AGENT_NOTIFY_URL", "nats://127.0.0.1:4222")
	t.Setenv("SCREEN_AGENT_CACHE_BUDGET_BYTES", "1048576")
	t.Setenv("SCREEN_AGENT_LOGGING_LEVEL", "debug")
	t.Setenv("SCREEN_AGENT_LOGGING_DEBUG", "true")

	var cfg AgentConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "/var/lib/screen/state.db", cfg.StatePath)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Backend.RetryMax)
	assert.Equal(t, 7*time.Second, cfg.Backend.Timeout.Std())
	assert.Equal(t, TransportNATS, cfg.Notify.Transport)
	assert.Equal(t, int64(1<<20), cfg.Cache.BudgetBytes)
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Debug)
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("SCREEN_AGENT_CONFIG_JSON", `{"backend":{"base_url":"https://json.example.com"},"intervals":{"heartbeat":"10s"}}`)
	t.Setenv("SCREEN_AGENT_BACKEND_BASE_URL", "https://ignored.example.com")

	var cfg AgentConfig
	require.NoError(t, NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix).Load(context.Background(), "", &cfg))

	assert.Equal(t, "https://json.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, models.Duration(10*time.Second), cfg.Intervals.Heartbeat)
}

func TestEnvLoaderLeavesUnsetPointersNil(t *testing.T) {
	t.Setenv("APP_BACKEND_BASE_URL", "https://api.example.com")

	var cfg AgentConfig
	require.NoError(t, NewEnvConfigLoader(logger.NewTestLogger(), "APP_").Load(context.Background(), "", &cfg))

	assert.Nil(t, cfg.Logging)
}

func TestEnvLoaderRejectsMalformedValues(t *testing.T) {
	t.Setenv("APP_BACKEND_RETRY_MAX", "many")

	var cfg AgentConfig
	err := NewEnvConfigLoader(logger.NewTestLogger(), "APP_").Load(context.Background(), "", &cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_BACKEND_RETRY_MAX")
}

func TestEnvLoaderDestinationChecks(t *testing.T) {
	l := NewEnvConfigLoader(logger.NewTestLogger(), "APP_")

	var notStruct int

	require.ErrorIs(t, l.Load(context.Background(), "", nil), ErrDstMustBeNonNilPointer)
	require.ErrorIs(t, l.Load(context.Background(), "", &notStruct), ErrDstMustBePointerToStruct)
}

func TestEnvLoaderSlices(t *testing.T) {
	type target struct {
		Codecs []string `json:"codecs"`
		Ports  []int    `json:"ports"`
	}

	t.Setenv("APP_CODECS", "h264, vp9 ,av1")
	t.Setenv("APP_PORTS", "[80,443]")

	var cfg target
	require.NoError(t, NewEnvConfigLoader(logger.NewTestLogger(), "APP_").Load(context.Background(), "", &cfg))

	assert.Equal(t, []string{"h264", "vp9", "av1"}, cfg.Codecs)
	assert.Equal(t, []int{80, 443}, cfg.Ports)
}
