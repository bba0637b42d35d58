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

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"30s"`, want: 30 * time.Second},
		{name: "nanoseconds", input: `1000000000`, want: time.Second},
		{name: "invalid string", input: `"soon"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}

	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(out))

	assert.Equal(t, time.Minute, Duration(0).OrDefault(time.Minute))
	assert.Equal(t, time.Second, Duration(time.Second).OrDefault(time.Minute))
}

func TestLatestDue(t *testing.T) {
	now := time.Unix(100, 0)
	entries := []ScheduleEntry{
		{ContentRef: "a", ScheduledTime: time.Unix(10, 0)},
		{ContentRef: "b", ScheduledTime: time.Unix(100, 0)},
		{ContentRef: "", ScheduledTime: time.Unix(99, 0)},
		{ContentRef: "c", ScheduledTime: time.Unix(101, 0)},
	}

	got, ok := LatestDue(entries, now)
	require.True(t, ok)
	assert.Equal(t, "b", got.ContentRef)

	_, ok = LatestDue(entries[3:], now)
	assert.False(t, ok)
}

func TestPlaybackStatus(t *testing.T) {
	assert.Equal(t, PlaybackStatusIdle, PlaybackState{}.Status())
	assert.Equal(t, PlaybackStatusIdle, PlaybackState{IsPlaying: true}.Status())
	assert.Equal(t, PlaybackStatusIdle, PlaybackState{CurrentContent: "x"}.Status())
	assert.Equal(t, PlaybackStatusPlaying, PlaybackState{CurrentContent: "x", IsPlaying: true}.Status())
}

func TestSessionConnected(t *testing.T) {
	assert.False(t, DeviceSession{State: PairingStatePaired}.Connected())
	assert.False(t, DeviceSession{State: PairingStateConnecting, ScreenID: "scr_1"}.Connected())
	assert.True(t, DeviceSession{State: PairingStatePaired, ScreenID: "scr_1"}.Connected())
}

func TestCommandPayloadURL(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","command":"load","payload":{"url":"https://cdn/x.mp4"}}`), &cmd))

	assert.Equal(t, CommandLoad, cmd.Command)
	assert.Equal(t, "https://cdn/x.mp4", cmd.PayloadURL())
	assert.Empty(t, Command{Command: CommandLoad}.PayloadURL())
}

func TestCodecs(t *testing.T) {
	d := CapabilityDescriptor{SupportedCodecs: NormalizeCodecs([]string{" VP9", "h264", "", "vp9"})}

	assert.Equal(t, []string{"h264", "vp9"}, d.SupportedCodecs)
	assert.True(t, d.SupportsCodec("H264"))
	assert.False(t, d.SupportsCodec("av1"))
}
