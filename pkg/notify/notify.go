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

// Package notify delivers schedule insert notifications pushed by the backend.
package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/carverauto/adscreen/pkg/models"
)

const eventInsert = "insert"

// Handler receives one schedule entry per insert notification.
type Handler func(models.ScheduleEntry)

// Subscription is a live registration. Once Unsubscribe returns the handler
// is not called again and the transport has been released.
type Subscription interface {
	Unsubscribe()
}

// Subscriber opens change-notification subscriptions for a screen.
type Subscriber interface {
	Subscribe(ctx context.Context, screenID string, handler Handler) (Subscription, error)
}

type changeEvent struct {
	Type   string               `json:"type"`
	Record models.ScheduleEntry `json:"record"`
}

// decodeInsert extracts the schedule entry from an insert event for screenID.
// Events of other types, for other screens or without content are dropped.
func decodeInsert(data []byte, screenID string) (models.ScheduleEntry, bool) {
	var ev changeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return models.ScheduleEntry{}, false
	}

	if ev.Type != "" && !strings.EqualFold(ev.Type, eventInsert) {
		return models.ScheduleEntry{}, false
	}

	if ev.Type == "" {
		// bare record
		if err := json.Unmarshal(data, &ev.Record); err != nil {
			return models.ScheduleEntry{}, false
		}
	}

	return acceptRecord(ev.Record, screenID)
}

func acceptRecord(rec models.ScheduleEntry, screenID string) (models.ScheduleEntry, bool) {
	if rec.ContentRef == "" || rec.ScheduledTime.IsZero() {
		return models.ScheduleEntry{}, false
	}

	if rec.ScreenID == "" {
		rec.ScreenID = screenID
	}

	if rec.ScreenID != screenID {
		return models.ScheduleEntry{}, false
	}

	return rec, true
}
