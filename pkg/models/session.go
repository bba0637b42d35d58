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

package models

import "time"

// PairingState is the device's position in the pairing lifecycle.
type PairingState string

const (
	PairingStateUnpaired   PairingState = "unpaired"
	PairingStateConnecting PairingState = "connecting"
	PairingStatePaired     PairingState = "paired"
)

// DeviceSession is the trust relationship between this device and a backend screen record.
type DeviceSession struct {
	DeviceID       string       `json:"device_id"`
	ScreenID       string       `json:"screen_id,omitempty"`
	ScreenName     string       `json:"screen_name,omitempty"`
	ConnectionCode string       `json:"connection_code,omitempty"`
	State          PairingState `json:"state"`
}

// Connected reports whether the session is paired to a screen.
func (s DeviceSession) Connected() bool {
	return s.State == PairingStatePaired && s.ScreenID != ""
}

// PairingResult is what the backend returns for a recognised pairing code.
type PairingResult struct {
	ScreenID string `json:"screen_id"`
	Name     string `json:"name"`
}

// ScheduleEntry is a time-scheduled content reference for one screen.
type ScheduleEntry struct {
	ScreenID      string    `json:"screen_id"`
	ContentRef    string    `json:"content_url"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// Due reports whether the entry is due at now.
func (e ScheduleEntry) Due(now time.Time) bool {
	return !e.ScheduledTime.After(now)
}

// LatestDue returns the most recently due entry at now. When several entries
// are due the one with the latest ScheduledTime wins.
func LatestDue(entries []ScheduleEntry, now time.Time) (ScheduleEntry, bool) {
	var (
		best  ScheduleEntry
		found bool
	)

	for _, e := range entries {
		if e.ContentRef == "" || !e.Due(now) {
			continue
		}

		if !found || e.ScheduledTime.After(best.ScheduledTime) {
			best = e
			found = true
		}
	}

	return best, found
}
