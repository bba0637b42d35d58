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
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/cobra"

	"github.com/carverauto/adscreen/pkg/config"
	httpx "github.com/carverauto/adscreen/pkg/http"
	"github.com/carverauto/adscreen/pkg/identity"
	"github.com/carverauto/adscreen/pkg/lifecycle"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
)

const agentRequestTimeout = 5 * time.Second

type probeOutput struct {
	Capability models.CapabilityDescriptor `json:"capability"`
	Cache      cacheProfile                `json:"cache"`
}

type cacheProfile struct {
	BudgetBytes   int64             `json:"budget_bytes"`
	Quality       int               `json:"quality"`
	MaxDimensions models.Resolution `json:"max_dimensions"`
	ImageFormats  []string          `json:"image_formats"`
	VideoCodecs   []string          `json:"video_codecs"`
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	defer func() { _ = lifecycle.ShutdownLogger(log) }()

	desc := probeDescriptor(ctx, cfg, log)
	profile := mediacache.ProfileFor(desc, cfg.Cache.BudgetBytes)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(probeOutput{
		Capability: desc,
		Cache: cacheProfile{
			BudgetBytes:   profile.Budget,
			Quality:       profile.Compression.Quality(),
			MaxDimensions: profile.MaxDimensions,
			ImageFormats:  profile.ImageFormats,
			VideoCodecs:   profile.VideoCodecs,
		},
	})
}

func runUnpair(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, false)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	defer func() { _ = lifecycle.ShutdownLogger(log) }()

	handled, err := disconnectRunning(ctx, cfg.Status, log)
	if err != nil {
		return err
	}

	if handled {
		fmt.Fprintln(cmd.OutOrStdout(), "Running agent disconnected")
		return nil
	}

	store, err := identity.OpenSQLite(ctx, cfg.StatePath, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ids := identity.NewManager(store)

	screenID, paired, err := ids.ScreenID(ctx)
	if err != nil {
		return err
	}

	if !paired {
		fmt.Fprintln(cmd.OutOrStdout(), "Device is not paired")
		return nil
	}

	if err := ids.ClearScreenID(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed pairing with screen %s\n", screenID)

	return nil
}

// disconnectRunning asks a running agent to unpair itself so it also tears
// down its loops, cache and playback. handled is false when no agent answers
// on the status address.
func disconnectRunning(ctx context.Context, cfg config.StatusConfig, log logger.Logger) (handled bool, err error) {
	if cfg.ListenAddr == "" {
		return false, nil
	}

	host, port, err := net.SplitHostPort(cfg.ListenAddr)
	if err != nil {
		return false, fmt.Errorf("invalid status listen address %q: %w", cfg.ListenAddr, err)
	}

	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}

	ctx, cancel := context.WithTimeout(ctx, agentRequestTimeout)
	defer cancel()

	endpoint := "http://" + net.JoinHostPort(host, port) + "/v1/disconnect"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return false, err
	}

	if cfg.APIKey != "" {
		req.Header.Set(httpx.APIKeyHeader, cfg.APIKey)
	}

	resp, err := cleanhttp.DefaultClient().Do(req)
	if err != nil {
		log.Debug().Err(err).Str("endpoint", endpoint).Msg("No running agent, clearing stored pairing")
		return false, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return true, fmt.Errorf("running agent refused disconnect: %s", resp.Status)
	}

	return true, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
