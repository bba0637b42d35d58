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
	"sync"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/notify"
)

// DefaultScheduleInterval is the schedule pull period.
const DefaultScheduleInterval = 30 * time.Second

// ScheduleSync keeps the playing content in line with the screen schedule.
// Pushed and pulled entries go through the same apply step, which is
// last-writer-wins keyed by ScheduledTime rather than by arrival order.
type ScheduleSync struct {
	source   ScheduleSource
	resolver ContentResolver
	playback Playback
	session  SessionFunc
	faults   *FaultReporter
	logger   logger.Logger
	now      func() time.Time

	// applyMu serialises apply end to end, including the resolve and load.
	applyMu sync.Mutex
	current *models.ScheduleEntry

	mu           sync.Mutex
	pending      *time.Timer
	pendingEntry models.ScheduleEntry
}

// NewScheduleSync creates a ScheduleSync.
func NewScheduleSync(source ScheduleSource, resolver ContentResolver, playback Playback, session SessionFunc, faults *FaultReporter, log logger.Logger) *ScheduleSync {
	return &ScheduleSync{
		source:   source,
		resolver: resolver,
		playback: playback,
		session:  session,
		faults:   faults,
		logger:   log,
		now:      time.Now,
	}
}

// Poll fetches the most recently due entry and applies it.
func (s *ScheduleSync) Poll(ctx context.Context) {
	sess := s.session()
	if !sess.Connected() {
		return
	}

	now := s.now()

	entries, err := s.source.DueSchedule(ctx, sess.ScreenID, now)
	if err != nil {
		s.logger.Warn().Err(err).Str("screen_id", sess.ScreenID).Msg("Schedule fetch failed")
		return
	}

	entry, ok := models.LatestDue(entries, now)
	if !ok {
		return
	}

	s.Apply(ctx, entry, "poll")
}

// PushHandler returns the notification handler for pushed inserts. Entries
// dated in the future arm a timer for their due time.
func (s *ScheduleSync) PushHandler(ctx context.Context) notify.Handler {
	return func(entry models.ScheduleEntry) {
		s.faults.Guard("schedule_push", func() {
			s.handlePush(ctx, entry)
		})
	}
}

func (s *ScheduleSync) handlePush(ctx context.Context, entry models.ScheduleEntry) {
	if ctx.Err() != nil {
		return
	}

	wait := entry.ScheduledTime.Sub(s.now())
	if wait <= 0 {
		s.Apply(ctx, entry, "push")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// one pending timer: the soonest future entry wins the slot, later ones
	// are picked up by the pull loop once due
	if s.pending != nil && !entry.ScheduledTime.Before(s.pendingEntry.ScheduledTime) {
		s.logger.Debug().Time("scheduled_time", entry.ScheduledTime).Msg("Future entry left to the pull loop")
		return
	}

	if s.pending != nil {
		s.pending.Stop()
	}

	s.pendingEntry = entry
	s.pending = time.AfterFunc(wait, func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()

		s.faults.Guard("schedule_timer", func() { s.Apply(ctx, entry, "timer") })
	})

	s.logger.Debug().Time("scheduled_time", entry.ScheduledTime).Dur("in", wait).Msg("Armed schedule timer")
}

// Apply makes entry the current content unless a newer entry already is.
// Re-applying the current entry is a no-op. It reports whether content changed.
func (s *ScheduleSync) Apply(ctx context.Context, entry models.ScheduleEntry, source string) bool {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	log := s.logger.With().
		Str("source", source).
		Str("ref", entry.ContentRef).
		Time("scheduled_time", entry.ScheduledTime).
		Logger()

	if cur := s.current; cur != nil {
		if entry.ScheduledTime.Before(cur.ScheduledTime) {
			log.Debug().Msg("Ignoring stale schedule entry")
			return false
		}

		if entry.ScheduledTime.Equal(cur.ScheduledTime) && entry.ContentRef == cur.ContentRef {
			return false
		}
	}

	url, ok := s.resolver.Resolve(ctx, entry.ContentRef)
	if !ok {
		log.Warn().Msg("Schedule entry could not be resolved, keeping current content")
		return false
	}

	if err := s.playback.Load(ctx, url); err != nil {
		log.Warn().Err(err).Msg("Schedule entry could not be loaded, keeping current content")
		return false
	}

	applied := entry
	s.current = &applied

	log.Info().Msg("Schedule entry applied")

	return true
}

// Current returns the last applied entry.
func (s *ScheduleSync) Current() (models.ScheduleEntry, bool) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if s.current == nil {
		return models.ScheduleEntry{}, false
	}

	return *s.current, true
}

// Reset forgets the applied entry and disarms any pending timer.
func (s *ScheduleSync) Reset() {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.mu.Unlock()

	s.applyMu.Lock()
	s.current = nil
	s.applyMu.Unlock()
}
