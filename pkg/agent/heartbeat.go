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
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

// DefaultHeartbeatInterval is the heartbeat period.
const DefaultHeartbeatInterval = 30 * time.Second

const maxHeartbeatTimeout = 10 * time.Second

var virtualMemory = mem.VirtualMemoryWithContext

// HeartbeatReporter emits liveness reports. Each emission is fire-and-forget:
// a failed heartbeat is logged and dropped, the next tick tries again.
type HeartbeatReporter struct {
	sender   HeartbeatSender
	session  SessionFunc
	playback Playback
	cache    CacheStats
	logger   logger.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewHeartbeatReporter creates a HeartbeatReporter. cache may be nil.
func NewHeartbeatReporter(sender HeartbeatSender, session SessionFunc, playback Playback, cache CacheStats, interval time.Duration, log logger.Logger) *HeartbeatReporter {
	timeout := maxHeartbeatTimeout
	if interval > 0 && interval < timeout {
		timeout = interval
	}

	return &HeartbeatReporter{
		sender:   sender,
		session:  session,
		playback: playback,
		cache:    cache,
		logger:   log,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Beat sends one heartbeat. It is a no-op while the device is not paired.
func (h *HeartbeatReporter) Beat(ctx context.Context) {
	s := h.session()
	if !s.Connected() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	hb := h.build(ctx, s)

	if err := h.sender.SendHeartbeat(ctx, hb); err != nil {
		h.logger.Warn().Err(err).Str("screen_id", s.ScreenID).Msg("Heartbeat dropped")
		return
	}

	h.logger.Debug().Str("screen_id", s.ScreenID).Str("status", string(hb.Status)).Msg("Heartbeat sent")
}

func (h *HeartbeatReporter) build(ctx context.Context, s models.DeviceSession) *models.Heartbeat {
	state := h.playback.Snapshot()

	hb := &models.Heartbeat{
		DeviceID:       s.DeviceID,
		ScreenID:       s.ScreenID,
		Status:         state.Status(),
		CurrentContent: state.CurrentContent,
		SentAt:         h.now().UTC(),
	}

	if h.cache != nil {
		st := h.cache.Stats()
		hb.Cache = &models.CacheReport{
			Entries:     st.Entries,
			UsageBytes:  st.Usage,
			BudgetBytes: st.Budget,
			Hits:        st.Hits,
			Misses:      st.Misses,
			Evictions:   st.Evictions,
		}
	}

	if vm, err := virtualMemory(ctx); err == nil && vm != nil {
		hb.Host = &models.HostReport{
			MemoryTotalBytes:     vm.Total,
			MemoryAvailableBytes: vm.Available,
			MemoryUsedPercent:    vm.UsedPercent,
		}
	}

	return hb
}
