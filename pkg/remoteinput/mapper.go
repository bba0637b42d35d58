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

// Package remoteinput maps TV remote and emulated keyboard input to
// navigation and playback actions.
package remoteinput

import (
	"strings"
	"sync"
	"time"

	"github.com/carverauto/adscreen/pkg/models"
)

// Action is a device-independent input intent.
type Action string

const (
	ActionNone        Action = ""
	ActionUp          Action = "up"
	ActionDown        Action = "down"
	ActionLeft        Action = "left"
	ActionRight       Action = "right"
	ActionSelect      Action = "select"
	ActionBack        Action = "back"
	ActionPlayPause   Action = "play_pause"
	ActionPlay        Action = "play"
	ActionPause       Action = "pause"
	ActionVolumeUp    Action = "volume_up"
	ActionVolumeDown  Action = "volume_down"
	ActionMute        Action = "mute"
	ActionRewind      Action = "rewind"
	ActionFastForward Action = "fast_forward"
	ActionMenu        Action = "menu"
	ActionInfo        Action = "info"
)

const (
	// LongPressThreshold is the hold time from which a press counts as long.
	LongPressThreshold = 600 * time.Millisecond
	// DoubleTapWindow is the maximum gap between the two presses of a double tap.
	DoubleTapWindow = 300 * time.Millisecond
)

// Event is one key press. Code carries the platform key code when the host
// reports one; Key carries the emulated key name otherwise.
type Event struct {
	Code int
	Key  string
	Hold time.Duration
	At   time.Time
}

// Native key codes reported by TV platforms (Tizen, webOS, HbbTV share the
// DOM codes for the D-pad).
var nativeCodes = map[int]Action{
	37:    ActionLeft,
	38:    ActionUp,
	39:    ActionRight,
	40:    ActionDown,
	13:    ActionSelect,
	8:     ActionBack,
	461:   ActionBack, // webOS
	10009: ActionBack, // Tizen
	415:   ActionPlay,
	19:    ActionPause,
	10252: ActionPlayPause, // Tizen
	179:   ActionPlayPause,
	412:   ActionRewind,
	417:   ActionFastForward,
	447:   ActionVolumeUp,
	448:   ActionVolumeDown,
	449:   ActionMute,
	457:   ActionInfo,
}

// Emulated key names, matched case-insensitively. Covers DOM key names and
// terminal key names.
var namedKeys = map[string]Action{
	"arrowup":          ActionUp,
	"up":               ActionUp,
	"k":                ActionUp,
	"arrowdown":        ActionDown,
	"down":             ActionDown,
	"j":                ActionDown,
	"arrowleft":        ActionLeft,
	"left":             ActionLeft,
	"h":                ActionLeft,
	"arrowright":       ActionRight,
	"right":            ActionRight,
	"l":                ActionRight,
	"enter":            ActionSelect,
	"escape":           ActionBack,
	"esc":              ActionBack,
	"backspace":        ActionBack,
	"goback":           ActionBack,
	" ":                ActionPlayPause,
	"space":            ActionPlayPause,
	"mediaplaypause":   ActionPlayPause,
	"mediaplay":        ActionPlay,
	"mediapause":       ActionPause,
	"mediarewind":      ActionRewind,
	"mediafastforward": ActionFastForward,
	"audiovolumeup":    ActionVolumeUp,
	"+":                ActionVolumeUp,
	"audiovolumedown":  ActionVolumeDown,
	"-":                ActionVolumeDown,
	"audiovolumemute":  ActionMute,
	"m":                ActionMute,
	"info":             ActionInfo,
	"i":                ActionInfo,
}

var longPress = map[Action]Action{
	ActionSelect: ActionMenu,
	ActionLeft:   ActionRewind,
	ActionRight:  ActionFastForward,
}

// Double taps only upgrade keys whose single press is a view or navigation
// action; the first press is delivered before the second arrives.
var doubleTap = map[Action]Action{
	ActionLeft:  ActionRewind,
	ActionRight: ActionFastForward,
	ActionBack:  ActionInfo,
}

// Mapper turns Events into Actions for one device.
type Mapper struct {
	engaged   bool
	longPress bool
	doubleTap bool

	mu      sync.Mutex
	lastTap Action
	lastAt  time.Time
}

// New creates a Mapper for d. The mapper is disengaged, mapping nothing,
// when the device has no remote input.
func New(d models.CapabilityDescriptor) *Mapper {
	return &Mapper{
		engaged:   d.HasRemoteInput,
		longPress: d.SupportsLongPress,
		doubleTap: d.SupportsDoubleTap,
	}
}

// Engaged reports whether the mapper translates input at all.
func (m *Mapper) Engaged() bool {
	return m.engaged
}

// Map translates ev. ok is false for unknown keys or when disengaged.
func (m *Mapper) Map(ev Event) (Action, bool) {
	if !m.engaged {
		return ActionNone, false
	}

	base, ok := baseAction(ev)
	if !ok {
		return ActionNone, false
	}

	if m.longPress && ev.Hold >= LongPressThreshold {
		if alt, ok := longPress[base]; ok {
			m.resetTap()
			return alt, true
		}
	}

	if m.doubleTap && !ev.At.IsZero() {
		if alt, ok := m.tap(base, ev.At); ok {
			return alt, true
		}
	}

	return base, true
}

func baseAction(ev Event) (Action, bool) {
	if ev.Code != 0 {
		if a, ok := nativeCodes[ev.Code]; ok {
			return a, true
		}
	}

	if ev.Key == "" {
		return ActionNone, false
	}

	key := ev.Key
	if strings.TrimSpace(key) != "" {
		key = strings.ToLower(strings.TrimSpace(key))
	}

	a, ok := namedKeys[key]

	return a, ok
}

// tap records a press and reports the double-tap action when it completes one.
func (m *Mapper) tap(a Action, at time.Time) (Action, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	alt, eligible := doubleTap[a]
	if !eligible {
		m.lastTap = ActionNone
		return ActionNone, false
	}

	if m.lastTap == a && at.Sub(m.lastAt) <= DoubleTapWindow && !at.Before(m.lastAt) {
		m.lastTap = ActionNone
		return alt, true
	}

	m.lastTap = a
	m.lastAt = at

	return ActionNone, false
}

func (m *Mapper) resetTap() {
	m.mu.Lock()
	m.lastTap = ActionNone
	m.mu.Unlock()
}
