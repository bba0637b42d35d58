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
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

// DefaultCommandInterval is the command poll period.
const DefaultCommandInterval = 5 * time.Second

const defaultAppliedMemory = 256

// ErrMissingPayloadURL is the validation error for a load command without a URL.
var ErrMissingPayloadURL = errors.New("load command requires payload.url")

// CommandChannel polls the backend command queue, applies commands in order
// and acknowledges the batch in a single call.
type CommandChannel struct {
	queue    CommandQueue
	resolver ContentResolver
	playback Playback
	session  SessionFunc
	logger   logger.Logger
	applied  *recentIDs
}

// NewCommandChannel creates a CommandChannel.
func NewCommandChannel(queue CommandQueue, resolver ContentResolver, playback Playback, session SessionFunc, log logger.Logger) *CommandChannel {
	return &CommandChannel{
		queue:    queue,
		resolver: resolver,
		playback: playback,
		session:  session,
		logger:   log,
		applied:  newRecentIDs(defaultAppliedMemory),
	}
}

// Poll fetches pending commands, applies them and acknowledges the ones that
// are done. Commands that failed transiently are left unacknowledged so the
// backend redelivers them. It returns how many commands were newly applied.
func (c *CommandChannel) Poll(ctx context.Context) (applied int) {
	s := c.session()
	if !s.Connected() {
		return 0
	}

	cmds, err := c.queue.PollCommands(ctx, s.DeviceID, s.ScreenID)
	if err != nil {
		c.logger.Warn().Err(err).Str("screen_id", s.ScreenID).Msg("Command poll failed")
		return 0
	}

	if len(cmds) == 0 {
		return 0
	}

	ack := make([]string, 0, len(cmds))

	for _, cmd := range cmds {
		done, changed := c.apply(ctx, cmd)
		if changed {
			applied++
		}

		if done && cmd.ID != "" {
			ack = append(ack, cmd.ID)
		}
	}

	if len(ack) == 0 {
		return applied
	}

	if err := c.queue.AckCommands(ctx, s.DeviceID, ack); err != nil {
		c.logger.Warn().Err(err).Strs("command_ids", ack).Msg("Command acknowledgement failed")
		return applied
	}

	c.logger.Debug().Strs("command_ids", ack).Msg("Commands acknowledged")

	return applied
}

// apply runs one command. ack reports whether it should be acknowledged,
// applied whether it ran now.
func (c *CommandChannel) apply(ctx context.Context, cmd models.Command) (ack, applied bool) {
	log := c.logger.With().Str("command_id", cmd.ID).Str("command", string(cmd.Command)).Logger()

	if cmd.ID != "" && c.applied.Has(cmd.ID) {
		log.Debug().Msg("Command already applied, acknowledging again")
		return true, false
	}

	var err error

	switch cmd.Command {
	case models.CommandPlay:
		err = c.playback.Play(ctx)
	case models.CommandPause:
		err = c.playback.Pause(ctx)
	case models.CommandLoad:
		err = c.load(ctx, cmd)
		if errors.Is(err, ErrMissingPayloadURL) {
			// can never succeed; acknowledge so it is not redelivered forever
			log.Warn().Err(err).Msg("Rejected invalid command")
			return true, false
		}
	default:
		log.Warn().Msg("Ignoring unknown command type")
		return true, false
	}

	if err != nil {
		log.Warn().Err(err).Msg("Command not applied, awaiting redelivery")
		return false, false
	}

	c.applied.Add(cmd.ID)
	log.Info().Msg("Command applied")

	return true, true
}

func (c *CommandChannel) load(ctx context.Context, cmd models.Command) error {
	ref := cmd.PayloadURL()
	if ref == "" {
		return ErrMissingPayloadURL
	}

	url, ok := c.resolver.Resolve(ctx, ref)
	if !ok {
		return fmt.Errorf("unresolvable content reference %q", ref)
	}

	return c.playback.Load(ctx, url)
}

// recentIDs remembers the last n ids added.
type recentIDs struct {
	ring []string
	next int
	set  map[string]struct{}
}

func newRecentIDs(n int) *recentIDs {
	return &recentIDs{ring: make([]string, n), set: make(map[string]struct{}, n)}
}

func (r *recentIDs) Has(id string) bool {
	_, ok := r.set[id]
	return ok
}

func (r *recentIDs) Add(id string) {
	if id == "" || r.Has(id) {
		return
	}

	if old := r.ring[r.next]; old != "" {
		delete(r.set, old)
	}

	r.ring[r.next] = id
	r.set[id] = struct{}{}
	r.next = (r.next + 1) % len(r.ring)
}
