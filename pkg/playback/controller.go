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

// Package playback owns the shared playback state and drives the host player.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/mediacache"
	"github.com/carverauto/adscreen/pkg/models"
)

//go:generate mockgen -destination=mock_playback.go -package=playback github.com/carverauto/adscreen/pkg/playback Player,Loader

var (
	// ErrEmptyContent is returned when Load is called without a URL.
	ErrEmptyContent = errors.New("empty content url")
	// ErrContentUnavailable wraps media cache failures during Load.
	ErrContentUnavailable = errors.New("content unavailable")
)

const (
	defaultVolume     = 100
	defaultBrightness = 100
	maxLevel          = 100
)

// Player is the host media pipeline.
type Player interface {
	Load(ctx context.Context, media *mediacache.Handle) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	SetVolume(ctx context.Context, level int) error
	SetBrightness(ctx context.Context, level int) error
}

// Loader warms media before it is handed to the player.
type Loader interface {
	Load(ctx context.Context, src string, opts mediacache.LoadOptions) (*mediacache.Handle, error)
}

// Listener observes state changes.
type Listener func(models.PlaybackState)

// Controller serialises every PlaybackState mutation together with its player
// side effect. A mutation that would not change the state performs no side
// effect, so redelivered commands are harmless.
type Controller struct {
	player Player
	loader Loader
	logger logger.Logger

	mu    sync.Mutex
	state models.PlaybackState

	listenersMu  sync.Mutex
	listeners    map[uint64]Listener
	nextListener uint64
}

// New creates a Controller. loader may be nil, in which case media goes to
// the player unwarmed.
func New(player Player, loader Loader, log logger.Logger) *Controller {
	return &Controller{
		player:    player,
		loader:    loader,
		logger:    log,
		state:     models.PlaybackState{Volume: defaultVolume, Brightness: defaultBrightness},
		listeners: make(map[uint64]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn for state changes.
func (c *Controller) Subscribe(fn Listener) (unsubscribe func()) {
	c.listenersMu.Lock()
	c.nextListener++
	id := c.nextListener
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			delete(c.listeners, id)
			c.listenersMu.Unlock()
		})
	}
}

// Play resumes playback of the current content.
func (c *Controller) Play(ctx context.Context) error {
	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if s.IsPlaying {
			return false, nil
		}

		if err := c.player.Play(ctx); err != nil {
			return false, fmt.Errorf("play: %w", err)
		}

		s.IsPlaying = true

		return true, nil
	})
}

// Pause pauses playback.
func (c *Controller) Pause(ctx context.Context) error {
	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if !s.IsPlaying {
			return false, nil
		}

		if err := c.player.Pause(ctx); err != nil {
			return false, fmt.Errorf("pause: %w", err)
		}

		s.IsPlaying = false

		return true, nil
	})
}

// Toggle flips between playing and paused.
func (c *Controller) Toggle(ctx context.Context) error {
	if c.Snapshot().IsPlaying {
		return c.Pause(ctx)
	}

	return c.Play(ctx)
}

// Load replaces the current content with url and plays it. The media is
// warmed through the loader first; if that fails the previous content keeps
// playing.
func (c *Controller) Load(ctx context.Context, url string) error {
	if url == "" {
		return ErrEmptyContent
	}

	if s := c.Snapshot(); s.CurrentContent == url && s.IsPlaying {
		return nil
	}

	media := &mediacache.Handle{Key: url, URL: url, Kind: mediacache.KindOf(url)}

	if c.loader != nil {
		h, err := c.loader.Load(ctx, url, mediacache.LoadOptions{})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrContentUnavailable, err)
		}

		media = h
	}

	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if s.CurrentContent == url && s.IsPlaying {
			return false, nil
		}

		if s.CurrentContent != url {
			if err := c.player.Load(ctx, media); err != nil {
				return false, fmt.Errorf("load: %w", err)
			}

			s.CurrentContent = url
		}

		if err := c.player.Play(ctx); err != nil {
			s.IsPlaying = false
			return true, fmt.Errorf("play: %w", err)
		}

		s.IsPlaying = true

		return true, nil
	})
}

// SetVolume sets the output volume, clamped to 0..100.
func (c *Controller) SetVolume(ctx context.Context, level int) error {
	level = clamp(level)

	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if s.Volume == level {
			return false, nil
		}

		if err := c.player.SetVolume(ctx, level); err != nil {
			return false, fmt.Errorf("set volume: %w", err)
		}

		s.Volume = level

		return true, nil
	})
}

// SetBrightness sets the display brightness, clamped to 0..100.
func (c *Controller) SetBrightness(ctx context.Context, level int) error {
	level = clamp(level)

	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if s.Brightness == level {
			return false, nil
		}

		if err := c.player.SetBrightness(ctx, level); err != nil {
			return false, fmt.Errorf("set brightness: %w", err)
		}

		s.Brightness = level

		return true, nil
	})
}

// Reset stops playback and forgets the current content.
func (c *Controller) Reset(ctx context.Context) error {
	return c.mutate(func(s *models.PlaybackState) (bool, error) {
		if s.CurrentContent == "" && !s.IsPlaying {
			return false, nil
		}

		if err := c.player.Stop(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Player stop failed during reset")
		}

		s.CurrentContent = ""
		s.IsPlaying = false

		return true, nil
	})
}

// mutate runs fn inside the state lock. fn reports whether it changed the state.
func (c *Controller) mutate(fn func(*models.PlaybackState) (bool, error)) error {
	c.mu.Lock()
	changed, err := fn(&c.state)
	next := c.state
	c.mu.Unlock()

	if changed {
		c.logger.Debug().
			Str("content", next.CurrentContent).
			Bool("playing", next.IsPlaying).
			Int("volume", next.Volume).
			Msg("Playback state changed")

		c.notify(next)
	}

	return err
}

func (c *Controller) notify(state models.PlaybackState) {
	c.listenersMu.Lock()

	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}

	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func clamp(level int) int {
	return min(max(level, 0), maxLevel)
}
