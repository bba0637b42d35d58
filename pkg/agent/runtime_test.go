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
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/adscreen/pkg/identity"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/notify"
	"github.com/carverauto/adscreen/pkg/pairing"
	"github.com/carverauto/adscreen/pkg/playback"
)

// fakeBackend holds a command queue that keeps commands until acknowledged.
type fakeBackend struct {
	mu         sync.Mutex
	queue      []models.Command
	acked      [][]string
	heartbeats []models.Heartbeat
}

func (b *fakeBackend) SendHeartbeat(_ context.Context, hb *models.Heartbeat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.heartbeats = append(b.heartbeats, *hb)

	return nil
}

func (b *fakeBackend) PollCommands(context.Context, string, string) ([]models.Command, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.queue), nil
}

func (b *fakeBackend) AckCommands(_ context.Context, _ string, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.acked = append(b.acked, ids)
	b.queue = slices.DeleteFunc(b.queue, func(c models.Command) bool { return slices.Contains(ids, c.ID) })

	return nil
}

func (*fakeBackend) DueSchedule(context.Context, string, time.Time) ([]models.ScheduleEntry, error) {
	return nil, nil
}

func (b *fakeBackend) snapshot() (heartbeats []models.Heartbeat, acked [][]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.heartbeats), slices.Clone(b.acked)
}

type fakeCache struct {
	mu      sync.Mutex
	cleared int
}

func (c *fakeCache) Stats() mediacache.Stats { return mediacache.Stats{Budget: 1 << 20} }

func (c *fakeCache) Clear() {
	c.mu.Lock()
	c.cleared++
	c.mu.Unlock()
}

func (c *fakeCache) clearCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cleared
}

type passThrough struct{}

func (passThrough) Resolve(_ context.Context, ref string) (string, bool) { return ref, ref != "" }

// gatedResolver blocks every resolve until its context is done.
type gatedResolver struct {
	entered chan struct{}
}

func (r *gatedResolver) Resolve(ctx context.Context, _ string) (string, bool) {
	select {
	case r.entered <- struct{}{}:
	default:
	}

	<-ctx.Done()

	return "", false
}

// pushOnce delivers one entry on subscribe. Unsubscribe waits for the handler
// to return, as the real transports do.
type pushOnce struct {
	entry models.ScheduleEntry
}

type pushOnceSub struct {
	done chan struct{}
}

func (p *pushOnce) Subscribe(_ context.Context, _ string, handler notify.Handler) (notify.Subscription, error) {
	sub := &pushOnceSub{done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		handler(p.entry)
	}()

	return sub, nil
}

func (s *pushOnceSub) Unsubscribe() {
	<-s.done
}

type runtimeFixture struct {
	runtime  *Runtime
	machine  *pairing.Machine
	backend  *fakeBackend
	cache    *fakeCache
	playback *playback.Controller
}

func newRuntimeFixture(t *testing.T, lookup pairing.Lookup) *runtimeFixture {
	t.Helper()

	stubVirtualMemory(t, nil, assert.AnError)

	log := logger.NewTestLogger()
	ctx := context.Background()

	machine, err := pairing.NewMachine(ctx, identity.NewManager(identity.NewMemoryStore()), lookup, log)
	require.NoError(t, err)

	f := &runtimeFixture{
		machine:  machine,
		backend:  &fakeBackend{queue: []models.Command{loadCmd("c1", "https://cdn/x.mp4")}},
		cache:    &fakeCache{},
		playback: playback.New(playback.NewLogPlayer(log), nil, log),
	}

	f.runtime, err = NewRuntime(RuntimeConfig{
		HeartbeatInterval: time.Hour,
		CommandInterval:   10 * time.Millisecond,
		ScheduleInterval:  time.Hour,
	}, RuntimeDeps{
		Pairing:  machine,
		Backend:  f.backend,
		Resolver: passThrough{},
		Playback: f.playback,
		Cache:    f.cache,
		Faults:   NewFaultReporter(nil, machine.Session, log),
	}, log)
	require.NoError(t, err)

	return f
}

func TestRuntimePairRunsLoopsAndDisconnectTearsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := pairing.NewMockLookup(ctrl)
	lookup.EXPECT().LookupPairingCode(gomock.Any(), "XJ3K9Q", gomock.Any()).
		Return(&models.PairingResult{ScreenID: "scr_42", Name: "Lobby"}, nil)

	f := newRuntimeFixture(t, lookup)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, f.runtime.Start(ctx))
	assert.False(t, f.runtime.Status().Active)

	_, err := f.machine.Pair(ctx, "xj3k9q")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s := f.playback.Snapshot()
		return s.CurrentContent == "https://cdn/x.mp4" && s.IsPlaying
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		hbs, acked := f.backend.snapshot()
		return len(hbs) > 0 && len(acked) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// the applied load triggers a heartbeat ahead of the hourly interval
	assert.Eventually(t, func() bool {
		hbs, _ := f.backend.snapshot()
		if len(hbs) < 2 {
			return false
		}

		last := hbs[len(hbs)-1]

		return last.CurrentContent == "https://cdn/x.mp4" && last.Status == models.PlaybackStatusPlaying
	}, 2*time.Second, 10*time.Millisecond)

	hbs, acked := f.backend.snapshot()
	assert.Equal(t, []string{"c1"}, acked[0])
	assert.Equal(t, "scr_42", hbs[0].ScreenID)

	st := f.runtime.Status()
	assert.True(t, st.Active)
	assert.Equal(t, models.PairingStatePaired, st.Session.State)
	require.NotNil(t, st.Cache)

	require.NoError(t, f.machine.Disconnect(ctx))

	st = f.runtime.Status()
	assert.False(t, st.Active)
	assert.Equal(t, models.PairingStateUnpaired, st.Session.State)
	assert.Empty(t, st.Playback.CurrentContent)
	assert.False(t, st.Playback.IsPlaying)
	assert.Equal(t, 1, f.cache.clearCount())

	require.NoError(t, f.runtime.Stop(ctx))
}

func TestRuntimeDisconnectCancelsInFlightPush(t *testing.T) {
	stubVirtualMemory(t, nil, assert.AnError)

	ctrl := gomock.NewController(t)
	lookup := pairing.NewMockLookup(ctrl)
	lookup.EXPECT().LookupPairingCode(gomock.Any(), "XJ3K9Q", gomock.Any()).
		Return(&models.PairingResult{ScreenID: "scr_42"}, nil)

	log := logger.NewTestLogger()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	machine, err := pairing.NewMachine(ctx, identity.NewManager(identity.NewMemoryStore()), lookup, log)
	require.NoError(t, err)

	res := &gatedResolver{entered: make(chan struct{}, 1)}

	rt, err := NewRuntime(RuntimeConfig{
		HeartbeatInterval: time.Hour,
		CommandInterval:   time.Hour,
		ScheduleInterval:  time.Hour,
	}, RuntimeDeps{
		Pairing:  machine,
		Backend:  &fakeBackend{},
		Resolver: res,
		Playback: playback.New(playback.NewLogPlayer(log), nil, log),
		Notifier: &pushOnce{entry: models.ScheduleEntry{
			ScreenID:      "scr_42",
			ContentRef:    "ads/spring.mp4",
			ScheduledTime: time.Now().Add(-time.Minute),
		}},
		Faults: NewFaultReporter(nil, machine.Session, log),
	}, log)
	require.NoError(t, err)

	require.NoError(t, rt.Start(ctx))

	_, err = machine.Pair(ctx, "xj3k9q")
	require.NoError(t, err)

	select {
	case <-res.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("pushed entry never reached the resolver")
	}

	done := make(chan error, 1)

	go func() { done <- machine.Disconnect(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect blocked on the in-flight push")
	}

	assert.False(t, rt.Status().Active)
	require.NoError(t, rt.Stop(ctx))
}

func TestRuntimeStaysIdleWhileUnpaired(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := newRuntimeFixture(t, pairing.NewMockLookup(ctrl))

	ctx := context.Background()
	require.NoError(t, f.runtime.Start(ctx))

	time.Sleep(50 * time.Millisecond)

	hbs, acked := f.backend.snapshot()
	assert.Empty(t, hbs)
	assert.Empty(t, acked)
	assert.Equal(t, models.PairingStateUnpaired, f.runtime.Status().Session.State)

	require.NoError(t, f.runtime.Stop(ctx))
}

func TestNewRuntimeRequiresDependencies(t *testing.T) {
	_, err := NewRuntime(RuntimeConfig{}, RuntimeDeps{}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrMissingDependency)
}
