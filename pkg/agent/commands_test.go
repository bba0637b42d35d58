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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/playback"
)

type commandFixture struct {
	queue    *MockCommandQueue
	resolver *MockContentResolver
	player   *playback.MockPlayer
	playback *playback.Controller
	channel  *CommandChannel
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &commandFixture{
		queue:    NewMockCommandQueue(ctrl),
		resolver: NewMockContentResolver(ctrl),
		player:   playback.NewMockPlayer(ctrl),
	}

	f.playback = playback.New(f.player, nil, logger.NewTestLogger())
	f.channel = NewCommandChannel(f.queue, f.resolver, f.playback, pairedSession, logger.NewTestLogger())

	return f
}

func loadCmd(id, url string) models.Command {
	return models.Command{ID: id, Command: models.CommandLoad, Payload: &models.CommandPayload{URL: url}}
}

func TestCommandLoadAppliedAndAcknowledged(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()

	gomock.InOrder(
		f.queue.EXPECT().PollCommands(gomock.Any(), "dev-1", "scr_42").Return([]models.Command{loadCmd("c1", "https://cdn/x.mp4")}, nil),
		f.resolver.EXPECT().Resolve(gomock.Any(), "https://cdn/x.mp4").Return("https://cdn/x.mp4", true),
		f.player.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil),
		f.player.EXPECT().Play(gomock.Any()).Return(nil),
		f.queue.EXPECT().AckCommands(gomock.Any(), "dev-1", []string{"c1"}).Return(nil),
	)

	assert.Equal(t, 1, f.channel.Poll(ctx))

	s := f.playback.Snapshot()
	assert.Equal(t, "https://cdn/x.mp4", s.CurrentContent)
	assert.True(t, s.IsPlaying)
}

func TestCommandBatchAppliedInOrderWithSingleAck(t *testing.T) {
	f := newCommandFixture(t)

	batch := []models.Command{
		loadCmd("c1", "ads/a.png"),
		{ID: "c2", Command: models.CommandPause},
		{ID: "c3", Command: models.CommandPlay},
		{ID: "c4", Command: "reboot"},
	}

	gomock.InOrder(
		f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return(batch, nil),
		f.resolver.EXPECT().Resolve(gomock.Any(), "ads/a.png").Return("https://signed/a.png", true),
		f.player.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil),
		f.player.EXPECT().Play(gomock.Any()).Return(nil),
		f.player.EXPECT().Pause(gomock.Any()).Return(nil),
		f.player.EXPECT().Play(gomock.Any()).Return(nil),
		f.queue.EXPECT().AckCommands(gomock.Any(), "dev-1", []string{"c1", "c2", "c3", "c4"}).Return(nil).Times(1),
	)

	f.channel.Poll(context.Background())

	assert.Equal(t, "https://signed/a.png", f.playback.Snapshot().CurrentContent)
	assert.True(t, f.playback.Snapshot().IsPlaying)
}

func TestCommandPlayTwiceHasOneSideEffect(t *testing.T) {
	f := newCommandFixture(t)

	f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.Command{
		{ID: "p1", Command: models.CommandPlay},
		{ID: "p2", Command: models.CommandPlay},
	}, nil)
	f.player.EXPECT().Play(gomock.Any()).Return(nil).Times(1)
	f.queue.EXPECT().AckCommands(gomock.Any(), gomock.Any(), []string{"p1", "p2"}).Return(nil)

	f.channel.Poll(context.Background())

	assert.True(t, f.playback.Snapshot().IsPlaying)
}

func TestCommandRedeliveryIsNotReapplied(t *testing.T) {
	f := newCommandFixture(t)
	batch := []models.Command{loadCmd("c1", "https://cdn/x.mp4"), {ID: "c2", Command: models.CommandPause}}

	f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return(batch, nil).Times(2)
	f.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("https://cdn/x.mp4", true).Times(1)
	f.player.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.player.EXPECT().Play(gomock.Any()).Return(nil).Times(1)
	f.player.EXPECT().Pause(gomock.Any()).Return(nil).Times(1)

	gomock.InOrder(
		// the first ack is lost, so the backend redelivers the batch
		f.queue.EXPECT().AckCommands(gomock.Any(), gomock.Any(), []string{"c1", "c2"}).Return(errors.New("timeout")),
		f.queue.EXPECT().AckCommands(gomock.Any(), gomock.Any(), []string{"c1", "c2"}).Return(nil),
	)

	assert.Equal(t, 2, f.channel.Poll(context.Background()))
	assert.Equal(t, 0, f.channel.Poll(context.Background()))

	s := f.playback.Snapshot()
	assert.Equal(t, "https://cdn/x.mp4", s.CurrentContent)
	assert.False(t, s.IsPlaying)
}

func TestCommandLoadWithoutURLIsRejectedAndAcknowledged(t *testing.T) {
	f := newCommandFixture(t)

	f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.Command{
		{ID: "bad", Command: models.CommandLoad},
		{ID: "bad2", Command: models.CommandLoad, Payload: &models.CommandPayload{}},
	}, nil)
	f.queue.EXPECT().AckCommands(gomock.Any(), gomock.Any(), []string{"bad", "bad2"}).Return(nil)

	assert.Equal(t, 0, f.channel.Poll(context.Background()))

	assert.Empty(t, f.playback.Snapshot().CurrentContent)
}

func TestCommandUnresolvableLoadIsNotAcknowledged(t *testing.T) {
	f := newCommandFixture(t)

	f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.Command{
		loadCmd("c1", "ads/private.mp4"),
		{ID: "c2", Command: models.CommandPlay},
	}, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), "ads/private.mp4").Return("", false)
	f.player.EXPECT().Play(gomock.Any()).Return(nil)
	f.queue.EXPECT().AckCommands(gomock.Any(), gomock.Any(), []string{"c2"}).Return(nil)

	f.channel.Poll(context.Background())
}

func TestCommandPollFailureAndEmptyBatch(t *testing.T) {
	f := newCommandFixture(t)

	gomock.InOrder(
		f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("offline")),
		f.queue.EXPECT().PollCommands(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
	)

	f.channel.Poll(context.Background())
	f.channel.Poll(context.Background())
}

func TestRecentIDsForgetsOldest(t *testing.T) {
	r := newRecentIDs(3)

	for i := range 4 {
		r.Add(fmt.Sprintf("id-%d", i))
	}

	assert.False(t, r.Has("id-0"))
	assert.True(t, r.Has("id-1"))
	assert.True(t, r.Has("id-3"))

	r.Add("id-3")
	assert.True(t, r.Has("id-1"))
}
