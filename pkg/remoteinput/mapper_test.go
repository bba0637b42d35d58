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

package remoteinput

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/adscreen/pkg/models"
)

func remoteDescriptor() models.CapabilityDescriptor {
	return models.CapabilityDescriptor{HasRemoteInput: true}
}

func TestMapNativeAndNamedKeys(t *testing.T) {
	m := New(remoteDescriptor())

	tests := []struct {
		name string
		ev   Event
		want Action
	}{
		{name: "dpad up code", ev: Event{Code: 38}, want: ActionUp},
		{name: "tizen back", ev: Event{Code: 10009}, want: ActionBack},
		{name: "webos back", ev: Event{Code: 461}, want: ActionBack},
		{name: "enter code", ev: Event{Code: 13}, want: ActionSelect},
		{name: "dom arrow", ev: Event{Key: "ArrowRight"}, want: ActionRight},
		{name: "terminal key", ev: Event{Key: "down"}, want: ActionDown},
		{name: "space", ev: Event{Key: " "}, want: ActionPlayPause},
		{name: "volume", ev: Event{Key: "AudioVolumeUp"}, want: ActionVolumeUp},
		{name: "unknown code falls back to key", ev: Event{Code: 99999, Key: "Escape"}, want: ActionBack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Map(tt.ev)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := m.Map(Event{Key: "F13"})
	assert.False(t, ok)

	_, ok = m.Map(Event{})
	assert.False(t, ok)
}

func TestMapperDisengagedWithoutRemoteInput(t *testing.T) {
	m := New(models.CapabilityDescriptor{SupportsLongPress: true})

	assert.False(t, m.Engaged())

	_, ok := m.Map(Event{Code: 38})
	assert.False(t, ok)
}

func TestLongPressOnlyWhenSupported(t *testing.T) {
	plain := New(remoteDescriptor())

	got, _ := plain.Map(Event{Key: "Enter", Hold: time.Second})
	assert.Equal(t, ActionSelect, got)

	d := remoteDescriptor()
	d.SupportsLongPress = true
	lp := New(d)

	got, _ = lp.Map(Event{Key: "Enter", Hold: LongPressThreshold})
	assert.Equal(t, ActionMenu, got)

	got, _ = lp.Map(Event{Code: 39, Hold: time.Second})
	assert.Equal(t, ActionFastForward, got)

	got, _ = lp.Map(Event{Key: "Enter", Hold: LongPressThreshold - time.Millisecond})
	assert.Equal(t, ActionSelect, got)

	// no long-press alternative for up
	got, _ = lp.Map(Event{Code: 38, Hold: time.Second})
	assert.Equal(t, ActionUp, got)
}

func TestDoubleTapOnlyWhenSupported(t *testing.T) {
	base := time.Unix(1000, 0)

	plain := New(remoteDescriptor())
	plain.Map(Event{Key: "Right", At: base})

	got, _ := plain.Map(Event{Key: "Right", At: base.Add(100 * time.Millisecond)})
	assert.Equal(t, ActionRight, got)

	d := remoteDescriptor()
	d.SupportsDoubleTap = true
	dt := New(d)

	got, _ = dt.Map(Event{Key: "Right", At: base})
	assert.Equal(t, ActionRight, got)

	got, _ = dt.Map(Event{Key: "Right", At: base.Add(200 * time.Millisecond)})
	assert.Equal(t, ActionFastForward, got)

	// the pair is consumed; a third press starts over
	got, _ = dt.Map(Event{Key: "Right", At: base.Add(300 * time.Millisecond)})
	assert.Equal(t, ActionRight, got)

	// too slow
	got, _ = dt.Map(Event{Key: "Right", At: base.Add(time.Second)})
	assert.Equal(t, ActionRight, got)
}

func TestDoubleTapNeverCancelsAPlaybackToggle(t *testing.T) {
	base := time.Unix(1000, 0)

	d := remoteDescriptor()
	d.SupportsDoubleTap = true

	toggles := map[Action]bool{ActionSelect: true, ActionPlayPause: true}

	for _, key := range []string{"Enter", "Space", "Left", "Right", "Escape"} {
		m := New(d)

		first, ok := m.Map(Event{Key: key, At: base})
		require.True(t, ok, key)

		second, ok := m.Map(Event{Key: key, At: base.Add(100 * time.Millisecond)})
		require.True(t, ok, key)

		assert.False(t, toggles[first] && toggles[second] && first != second,
			"%s: %q then %q", key, first, second)
	}

	m := New(d)
	m.Map(Event{Key: "Enter", At: base})
	got, _ := m.Map(Event{Key: "Enter", At: base.Add(100 * time.Millisecond)})
	assert.Equal(t, ActionSelect, got)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(New(remoteDescriptor()))

	var got []Action

	unsubscribe := d.Subscribe(func(a Action) { got = append(got, a) })

	assert.True(t, d.Dispatch(Event{Code: 37}))
	assert.False(t, d.Dispatch(Event{Key: "F13"}))

	unsubscribe()
	d.Dispatch(Event{Code: 39})

	assert.Equal(t, []Action{ActionLeft}, got)
}
