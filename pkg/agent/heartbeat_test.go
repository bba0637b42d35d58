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
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
)

type staticStats mediacache.Stats

func (s staticStats) Stats() mediacache.Stats { return mediacache.Stats(s) }

func stubVirtualMemory(t *testing.T, vm *mem.VirtualMemoryStat, err error) {
	t.Helper()

	orig := virtualMemory
	virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) { return vm, err }

	t.Cleanup(func() { virtualMemory = orig })
}

func TestHeartbeatPayload(t *testing.T) {
	stubVirtualMemory(t, &mem.VirtualMemoryStat{Total: 2 << 30, Available: 1 << 30, UsedPercent: 50}, nil)

	ctrl := gomock.NewController(t)
	sender := NewMockHeartbeatSender(ctrl)
	playback := NewMockPlayback(ctrl)

	playback.EXPECT().Snapshot().Return(models.PlaybackState{CurrentContent: "https://cdn/x.mp4", IsPlaying: true})

	h := NewHeartbeatReporter(sender, pairedSession, playback, staticStats{Entries: 2, Usage: 100, Budget: 1000}, DefaultHeartbeatInterval, logger.NewTestLogger())

	sender.EXPECT().SendHeartbeat(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, hb *models.Heartbeat) error {
		assert.Equal(t, "dev-1", hb.DeviceID)
		assert.Equal(t, "scr_42", hb.ScreenID)
		assert.Equal(t, models.PlaybackStatusPlaying, hb.Status)
		assert.Equal(t, "https://cdn/x.mp4", hb.CurrentContent)
		assert.Equal(t, 2, hb.Cache.Entries)
		assert.Equal(t, int64(1000), hb.Cache.BudgetBytes)
		assert.InDelta(t, 50.0, hb.Host.MemoryUsedPercent, 0.001)

		return nil
	})

	h.Beat(context.Background())
}

func TestHeartbeatFailureIsDropped(t *testing.T) {
	stubVirtualMemory(t, nil, errors.New("no procfs"))

	ctrl := gomock.NewController(t)
	sender := NewMockHeartbeatSender(ctrl)
	playback := NewMockPlayback(ctrl)

	playback.EXPECT().Snapshot().Return(models.PlaybackState{})

	h := NewHeartbeatReporter(sender, pairedSession, playback, nil, time.Second, logger.NewTestLogger())

	sender.EXPECT().SendHeartbeat(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, hb *models.Heartbeat) error {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
		assert.Equal(t, models.PlaybackStatusIdle, hb.Status)
		assert.Nil(t, hb.Cache)
		assert.Nil(t, hb.Host)

		return errors.New("503")
	}).Times(1)

	assert.NotPanics(t, func() { h.Beat(context.Background()) })
}

func TestHeartbeatSkippedWhileUnpaired(t *testing.T) {
	ctrl := gomock.NewController(t)

	h := NewHeartbeatReporter(NewMockHeartbeatSender(ctrl), func() models.DeviceSession {
		return models.DeviceSession{DeviceID: "dev-1", State: models.PairingStateUnpaired}
	}, NewMockPlayback(ctrl), nil, 0, logger.NewTestLogger())

	h.Beat(context.Background())
}
