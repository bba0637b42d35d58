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

// CommandType is a remotely issued playback instruction.
type CommandType string

const (
	CommandPlay  CommandType = "play"
	CommandPause CommandType = "pause"
	CommandLoad  CommandType = "load"
)

// CommandPayload carries command arguments.
type CommandPayload struct {
	URL string `json:"url,omitempty"`
}

// Command is delivered by the backend command queue until acknowledged.
type Command struct {
	ID      string          `json:"id"`
	Command CommandType     `json:"command"`
	Payload *CommandPayload `json:"payload,omitempty"`
}

// PayloadURL returns the payload url or "".
func (c Command) PayloadURL() string {
	if c.Payload == nil {
		return ""
	}

	return c.Payload.URL
}

// PlaybackStatus is the coarse status reported in heartbeats.
type PlaybackStatus string

const (
	PlaybackStatusPlaying PlaybackStatus = "playing"
	PlaybackStatusIdle    PlaybackStatus = "idle"
)

// PlaybackState is the player state shared by commands, schedule sync and local input.
type PlaybackState struct {
	CurrentContent string `json:"current_content,omitempty"`
	IsPlaying      bool   `json:"is_playing"`
	Volume         int    `json:"volume"`
	Brightness     int    `json:"brightness"`
}

// Status maps the state to the coarse heartbeat status.
func (p PlaybackState) Status() PlaybackStatus {
	if p.IsPlaying && p.CurrentContent != "" {
		return PlaybackStatusPlaying
	}

	return PlaybackStatusIdle
}
