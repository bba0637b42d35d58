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

// Package screen renders the device screen in a terminal: the connection
// code while unpaired and a now-playing panel once paired.
package screen

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/remoteinput"
)

const (
	refreshInterval = 500 * time.Millisecond
	pairTimeout     = 30 * time.Second
	volumeStep      = 10
)

//nolint:gochecknoglobals // replaced in tests
var writeClipboard = clipboard.WriteAll

// Device is the pairing side of the runtime.
type Device interface {
	Session() models.DeviceSession
	Pair(ctx context.Context, code string) (*models.PairingResult, error)
	Disconnect(ctx context.Context) error
}

// Player is the playback side of the runtime.
type Player interface {
	Snapshot() models.PlaybackState
	Toggle(ctx context.Context) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetVolume(ctx context.Context, level int) error
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, device Device, player Player, descriptor models.CapabilityDescriptor, log logger.Logger) error {
	// the keyboard stands in for a D-pad
	descriptor.HasRemoteInput = true

	m := newModel(ctx, device, player, remoteinput.NewDispatcher(remoteinput.New(descriptor)), canCopy())
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Terminal screen exited with error")
		return err
	}

	return nil
}

func canCopy() bool {
	return writeClipboard("") == nil
}
