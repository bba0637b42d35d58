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

package playback

import (
	"context"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
)

// LogPlayer is a Player that records every call in the log. It stands in for
// the host pipeline in terminal mode and on hosts without a native player.
type LogPlayer struct {
	logger logger.Logger
}

var _ Player = (*LogPlayer)(nil)

// NewLogPlayer creates a LogPlayer.
func NewLogPlayer(log logger.Logger) *LogPlayer {
	return &LogPlayer{logger: log}
}

func (p *LogPlayer) Load(_ context.Context, media *mediacache.Handle) error {
	p.logger.Info().
		Str("src", media.Key).
		Str("url", media.URL).
		Str("kind", string(media.Kind)).
		Int("width", media.Width).
		Int("height", media.Height).
		Msg("Player load")

	return nil
}

func (p *LogPlayer) Play(context.Context) error {
	p.logger.Info().Msg("Player play")
	return nil
}

func (p *LogPlayer) Pause(context.Context) error {
	p.logger.Info().Msg("Player pause")
	return nil
}

func (p *LogPlayer) Stop(context.Context) error {
	p.logger.Info().Msg("Player stop")
	return nil
}

func (p *LogPlayer) SetVolume(_ context.Context, level int) error {
	p.logger.Info().Int("level", level).Msg("Player volume")
	return nil
}

func (p *LogPlayer) SetBrightness(_ context.Context, level int) error {
	p.logger.Info().Int("level", level).Msg("Player brightness")
	return nil
}
