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

package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/notify"
	"github.com/carverauto/adscreen/pkg/pairing"
)

// ErrMissingDependency is returned by NewRuntime when a required dependency is nil.
var ErrMissingDependency = errors.New("runtime dependency missing")

// Backend is the part of the backend API the loops use.
type Backend interface {
	HeartbeatSender
	CommandQueue
	ScheduleSource
}

// MediaCache is the media cache as seen by the runtime.
type MediaCache interface {
	CacheStats
	Clear()
}

// RuntimeConfig holds loop intervals. Zero values take the defaults.
type RuntimeConfig struct {
	HeartbeatInterval time.Duration
	CommandInterval   time.Duration
	ScheduleInterval  time.Duration
}

// RuntimeDeps are the collaborators wired into a Runtime. Notifier may be nil,
// in which case the schedule relies on polling alone.
type RuntimeDeps struct {
	Pairing    *pairing.Machine
	Backend    Backend
	Resolver   ContentResolver
	Playback   Playback
	Cache      MediaCache
	Notifier   notify.Subscriber
	Faults     *FaultReporter
	Capability models.CapabilityDescriptor
}

// Status is a point-in-time view of the device runtime.
type Status struct {
	Session    models.DeviceSession        `json:"session"`
	Playback   models.PlaybackState        `json:"playback"`
	Cache      *mediacache.Stats           `json:"cache,omitempty"`
	Capability models.CapabilityDescriptor `json:"capability"`
	Schedule   *models.ScheduleEntry       `json:"schedule,omitempty"`
	Active     bool                        `json:"active"`
}

// Runtime starts the networked loops when the device becomes paired and
// tears them down on disconnect. Until then only pairing is active.
type Runtime struct {
	cfg  RuntimeConfig
	deps RuntimeDeps
	log  logger.Logger

	heartbeat *HeartbeatReporter
	commands  *CommandChannel
	schedule  *ScheduleSync

	mu          sync.Mutex
	baseCtx     context.Context
	active      *activeSession
	unsubscribe func()
}

type activeSession struct {
	screenID string
	cancel   context.CancelFunc
	group    *errgroup.Group
	sub      notify.Subscription
}

// NewRuntime wires the loops.
func NewRuntime(cfg RuntimeConfig, deps RuntimeDeps, log logger.Logger) (*Runtime, error) {
	if deps.Pairing == nil || deps.Backend == nil || deps.Resolver == nil || deps.Playback == nil || deps.Faults == nil {
		return nil, ErrMissingDependency
	}

	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}

	if cfg.CommandInterval <= 0 {
		cfg.CommandInterval = DefaultCommandInterval
	}

	if cfg.ScheduleInterval <= 0 {
		cfg.ScheduleInterval = DefaultScheduleInterval
	}

	session := SessionFunc(deps.Pairing.Session)

	var stats CacheStats
	if deps.Cache != nil {
		stats = deps.Cache
	}

	return &Runtime{
		cfg:       cfg,
		deps:      deps,
		log:       log,
		heartbeat: NewHeartbeatReporter(deps.Backend, session, deps.Playback, stats, cfg.HeartbeatInterval, log),
		commands:  NewCommandChannel(deps.Backend, deps.Resolver, deps.Playback, session, log),
		schedule:  NewScheduleSync(deps.Backend, deps.Resolver, deps.Playback, session, deps.Faults, log),
	}, nil
}

// Start restores a persisted pairing and begins following pairing
// transitions. ctx bounds every loop started later.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	r.baseCtx = ctx
	r.unsubscribe = r.deps.Pairing.Subscribe(r.onTransition)
	r.mu.Unlock()

	restored, err := r.deps.Pairing.Restore(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("Could not restore pairing, starting unpaired")
	}

	s := r.deps.Pairing.Session()

	r.log.Info().
		Str("device_id", s.DeviceID).
		Str("state", string(s.State)).
		Bool("restored", restored).
		Msg("Screen runtime started")

	return nil
}

// Stop stops following pairing transitions and tears down running loops.
func (r *Runtime) Stop(_ context.Context) error {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	r.stopLoops()
	r.schedule.Reset()

	r.log.Info().Msg("Screen runtime stopped")

	return nil
}

// Status returns the current runtime view.
func (r *Runtime) Status() Status {
	st := Status{
		Session:    r.deps.Pairing.Session(),
		Playback:   r.deps.Playback.Snapshot(),
		Capability: r.deps.Capability,
	}

	if r.deps.Cache != nil {
		cs := r.deps.Cache.Stats()
		st.Cache = &cs
	}

	if e, ok := r.schedule.Current(); ok {
		st.Schedule = &e
	}

	r.mu.Lock()
	st.Active = r.active != nil
	r.mu.Unlock()

	return st
}

func (r *Runtime) onTransition(prev, next models.DeviceSession) {
	switch {
	case next.Connected() && !prev.Connected():
		r.startLoops(next)
	case prev.Connected() && !next.Connected():
		r.stopLoops()
		r.teardownContent()
	}
}

func (r *Runtime) startLoops(s models.DeviceSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil || r.baseCtx == nil {
		return
	}

	ctx, cancel := context.WithCancel(r.baseCtx)
	g, gctx := errgroup.WithContext(ctx)

	heartbeat := NewTask("heartbeat", r.cfg.HeartbeatInterval, r.heartbeat.Beat, r.deps.Faults, r.log, RunImmediately())

	// report the new playback state right away instead of at the next beat
	pollCommands := func(ctx context.Context) {
		if r.commands.Poll(ctx) > 0 {
			heartbeat.Trigger()
		}
	}

	tasks := []*Task{
		heartbeat,
		NewTask("commands", r.cfg.CommandInterval, pollCommands, r.deps.Faults, r.log, RunImmediately()),
		NewTask("schedule", r.cfg.ScheduleInterval, r.schedule.Poll, r.deps.Faults, r.log, RunImmediately()),
	}

	for _, t := range tasks {
		g.Go(func() error {
			t.Run(gctx)
			return nil
		})
	}

	active := &activeSession{screenID: s.ScreenID, cancel: cancel, group: g}

	if r.deps.Notifier != nil {
		sub, err := r.deps.Notifier.Subscribe(gctx, s.ScreenID, r.schedule.PushHandler(gctx))
		if err != nil {
			r.log.Warn().Err(err).Str("screen_id", s.ScreenID).Msg("Change notifications unavailable, relying on schedule polling")
		} else {
			active.sub = sub
		}
	}

	r.active = active

	r.log.Info().Str("screen_id", s.ScreenID).Msg("Networked loops started")
}

func (r *Runtime) stopLoops() {
	r.mu.Lock()
	active := r.active
	r.active = nil
	r.mu.Unlock()

	if active == nil {
		return
	}

	active.cancel()

	if active.sub != nil {
		active.sub.Unsubscribe()
	}

	_ = active.group.Wait()

	r.log.Info().Str("screen_id", active.screenID).Msg("Networked loops stopped")
}

// teardownContent drops everything tied to the old screen.
func (r *Runtime) teardownContent() {
	r.schedule.Reset()

	if r.deps.Cache != nil {
		r.deps.Cache.Clear()
	}

	if err := r.deps.Playback.Reset(context.Background()); err != nil {
		r.log.Warn().Err(err).Msg("Playback reset failed")
	}
}
