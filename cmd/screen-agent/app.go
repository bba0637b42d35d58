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
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/carverauto/adscreen/pkg/agent"
	"github.com/carverauto/adscreen/pkg/backend"
	"github.com/carverauto/adscreen/pkg/capability"
	"github.com/carverauto/adscreen/pkg/config"
	"github.com/carverauto/adscreen/pkg/identity"
	"github.com/carverauto/adscreen/pkg/lifecycle"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/notify"
	"github.com/carverauto/adscreen/pkg/pairing"
	"github.com/carverauto/adscreen/pkg/playback"
	"github.com/carverauto/adscreen/pkg/resolver"
	"github.com/carverauto/adscreen/pkg/screen"
	"github.com/carverauto/adscreen/pkg/statusapi"
)

const (
	componentName   = "screen-agent"
	tuiLogOutput    = "screen-agent.log"
	shutdownTimeout = 10 * time.Second
)

// app owns every long-lived component of a running agent.
type app struct {
	cfg        *config.AgentConfig
	log        logger.Logger
	store      *identity.SQLiteStore
	machine    *pairing.Machine
	playback   *playback.Controller
	descriptor models.CapabilityDescriptor
	runtime    *agent.Runtime
	faults     *agent.FaultReporter
	status     *statusapi.Server
	natsConn   *nats.Conn
}

var _ lifecycle.Service = (*app)(nil)

func loadConfig(ctx context.Context, strict bool) (*config.AgentConfig, error) {
	var cfg config.AgentConfig

	if err := config.NewConfig(nil).LoadAndValidate(ctx, configPath, &cfg); err != nil {
		if strict {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}

		cfg.ApplyDefaults()
	}

	return &cfg, nil
}

func newLogger(cfg *config.AgentConfig, tui bool) (logger.Logger, error) {
	logCfg := *cfg.Logging

	// stdout belongs to the terminal screen
	if tui && (logCfg.Output == "" || logCfg.Output == "stdout") {
		logCfg.Output = tuiLogOutput
	}

	return lifecycle.CreateComponentLogger(componentName, &logCfg)
}

func probeDescriptor(ctx context.Context, cfg *config.AgentConfig, log logger.Logger) models.CapabilityDescriptor {
	var host capability.HostCapabilities
	if cfg.Capability.HostReportPath != "" {
		host = &capability.FileHost{Path: cfg.Capability.HostReportPath}
	}

	return capability.NewProber(host, cfg.Capability.Identification, log).Descriptor(ctx)
}

func newApp(ctx context.Context, cfg *config.AgentConfig, log logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	store, err := identity.OpenSQLite(ctx, cfg.StatePath, log)
	if err != nil {
		return nil, err
	}

	a.store = store

	client, err := backend.New(cfg.Backend, log)
	if err != nil {
		return nil, err
	}

	a.machine, err = pairing.NewMachine(ctx, identity.NewManager(store), client, log)
	if err != nil {
		return nil, err
	}

	a.descriptor = probeDescriptor(ctx, cfg, log)

	var cacheOpts []mediacache.Option
	if d := cfg.Cache.FetchTimeout.Std(); d > 0 {
		cacheOpts = append(cacheOpts, mediacache.WithFetchTimeout(d))
	}

	cache := mediacache.New(
		mediacache.ProfileFor(a.descriptor, cfg.Cache.BudgetBytes),
		mediacache.NewHTTPFetcher(client.HTTPClient()),
		log,
		cacheOpts...,
	)

	a.playback = playback.New(playback.NewLogPlayer(log), cache, log)

	notifier, err := a.newNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	a.faults = agent.NewFaultReporter(client, a.machine.Session, log)

	a.runtime, err = agent.NewRuntime(cfg.RuntimeConfig(), agent.RuntimeDeps{
		Pairing:    a.machine,
		Backend:    client,
		Resolver:   resolver.New(client, cfg.Media.Bucket, cfg.Media.SignedURLTTL.Std(), log),
		Playback:   a.playback,
		Cache:      cache,
		Notifier:   notifier,
		Faults:     a.faults,
		Capability: a.descriptor,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.Status.ListenAddr != "" {
		api := statusapi.New(a.runtime, a.machine, cfg.Status.APIKey, log)
		a.status = statusapi.NewServer(cfg.Status.ListenAddr, api, log,
			statusapi.WithServeErrorHandler(func(err error) { a.faults.ReportError("status_server", err) }))
	}

	ok = true

	return a, nil
}

func (a *app) newNotifier(cfg *config.AgentConfig, log logger.Logger) (notify.Subscriber, error) {
	switch cfg.Notify.Transport {
	case config.TransportWebSocket:
		return notify.NewWebSocketSubscriber(notify.WebSocketConfig{
			URL:            cfg.Notify.URL,
			APIKey:         cfg.Backend.APIKey,
			InitialBackoff: cfg.Notify.InitialBackoff.Std(),
			MaxBackoff:     cfg.Notify.MaxBackoff.Std(),
		}, log)
	case config.TransportNATS:
		nc, err := notify.ConnectNATS(cfg.Notify.URL, componentName, log)
		if err != nil {
			return nil, err
		}

		a.natsConn = nc

		return notify.NewNATSSubscriber(nc, log), nil
	default:
		return nil, nil
	}
}

// Start implements lifecycle.Service.
func (a *app) Start(ctx context.Context) error {
	if err := a.runtime.Start(ctx); err != nil {
		return err
	}

	if a.status != nil {
		if err := a.status.Start(ctx); err != nil {
			return err
		}
	}

	if launchCode != "" {
		a.faults.Go("launch_pairing", func() {
			params := url.Values{pairing.LaunchParam: {launchCode}}
			if _, err := a.machine.PairFromLaunch(ctx, params); err != nil {
				a.log.Warn().Err(err).Msg("Launch pairing code not accepted")
			}
		})
	}

	return nil
}

// Stop implements lifecycle.Service.
func (a *app) Stop(ctx context.Context) error {
	var errs []error

	if a.status != nil {
		errs = append(errs, a.status.Stop(ctx))
	}

	errs = append(errs, a.runtime.Stop(ctx))
	a.close()

	return errors.Join(errs...)
}

func (a *app) close() {
	if a.natsConn != nil {
		a.natsConn.Close()
		a.natsConn = nil
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close state store")
		}

		a.store = nil
	}
}

func runAgent(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(ctx, true)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg, tuiMode)
	if err != nil {
		return err
	}

	defer func() { _ = lifecycle.ShutdownLogger(log) }()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	if !tuiMode {
		return lifecycle.RunService(ctx, a, log)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	runErr := screen.Run(ctx, a.machine, a.playback, a.descriptor, log)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(runErr, a.Stop(stopCtx))
}
