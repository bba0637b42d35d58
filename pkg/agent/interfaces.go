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

// Package agent runs the networked loops of a paired screen: heartbeat,
// command channel and schedule sync, plus the fault handler that guards them.
package agent

import (
	"context"
	"time"

	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
)

//go:generate mockgen -destination=mock_agent.go -package=agent github.com/carverauto/adscreen/pkg/agent HeartbeatSender,CommandQueue,ScheduleSource,CrashSink,ContentResolver,Playback

// HeartbeatSender delivers liveness reports.
type HeartbeatSender interface {
	SendHeartbeat(ctx context.Context, hb *models.Heartbeat) error
}

// CommandQueue is the backend command queue.
type CommandQueue interface {
	PollCommands(ctx context.Context, deviceID, screenID string) ([]models.Command, error)
	AckCommands(ctx context.Context, deviceID string, ids []string) error
}

// ScheduleSource returns schedule entries due for a screen.
type ScheduleSource interface {
	DueSchedule(ctx context.Context, screenID string, now time.Time) ([]models.ScheduleEntry, error)
}

// CrashSink receives crash reports.
type CrashSink interface {
	ReportCrash(ctx context.Context, report *models.CrashReport) error
}

// ContentResolver turns a content reference into a playable URL.
type ContentResolver interface {
	Resolve(ctx context.Context, ref string) (string, bool)
}

// Playback is the shared playback state.
type Playback interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Load(ctx context.Context, url string) error
	Reset(ctx context.Context) error
	Snapshot() models.PlaybackState
}

// CacheStats exposes media cache counters.
type CacheStats interface {
	Stats() mediacache.Stats
}

// SessionFunc returns the current device session.
type SessionFunc func() models.DeviceSession
