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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/adscreen/pkg/identity"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version", "--json")

	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "dev", v["version"])
}

func TestProbeCommandUsesHostReport(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("LOG_OUTPUT", "stderr")

	dir := t.TempDir()
	report := writeFile(t, dir, "host.json", `{
		"platform": "tizen",
		"remote_control": true,
		"max_width": 1920,
		"max_height": 1080,
		"codecs": ["H264", "vp9", "webp"],
		"total_memory_bytes": 3221225472
	}`)
	cfgPath := writeFile(t, dir, "agent.json", fmt.Sprintf(`{"capability":{"host_report_path":%q}}`, report))

	out := execute(t, "probe", "--config", cfgPath)

	var got probeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, models.ProbeSourceRuntime, got.Capability.ProbeSource)
	assert.Equal(t, "tizen", got.Capability.Platform)
	assert.True(t, got.Capability.HasRemoteInput)
	assert.Equal(t, models.MemoryTierStandard, got.Capability.MemoryTier)
	assert.Positive(t, got.Cache.BudgetBytes)
}

func TestUnpairCommand(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("LOG_OUTPUT", "stderr")

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.db")
	cfgPath := writeFile(t, dir, "agent.json", fmt.Sprintf(`{"state_path":%q}`, statePath))

	assert.Contains(t, execute(t, "unpair", "--config", cfgPath), "not paired")

	ctx := context.Background()
	store, err := identity.OpenSQLite(ctx, statePath, logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, identity.NewManager(store).SaveScreenID(ctx, "scr_42"))
	require.NoError(t, store.Close())

	assert.Contains(t, execute(t, "unpair", "--config", cfgPath), "scr_42")
	assert.Contains(t, execute(t, "unpair", "--config", cfgPath), "not paired")
}

func TestUnpairCommandDisconnectsRunningAgent(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("LOG_OUTPUT", "stderr")

	var calls atomic.Int32

	agentAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/disconnect" || r.Header.Get("X-API-Key") != "k" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}

		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":false}`))
	}))
	t.Cleanup(agentAPI.Close)

	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.db")
	cfgPath := writeFile(t, dir, "agent.json", fmt.Sprintf(
		`{"state_path":%q,"status":{"listen_addr":%q,"api_key":"k"}}`,
		statePath, agentAPI.Listener.Addr().String()))

	assert.Contains(t, execute(t, "unpair", "--config", cfgPath), "Running agent disconnected")
	assert.Equal(t, int32(1), calls.Load())

	agentAPI.Close()

	// nobody listening: fall back to the stored pairing
	assert.Contains(t, execute(t, "unpair", "--config", cfgPath), "not paired")
}
