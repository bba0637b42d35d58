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

package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

// SubjectFor returns the NATS subject carrying schedule inserts for screenID.
func SubjectFor(screenID string) string {
	return fmt.Sprintf("schedules.%s.insert", screenID)
}

// ConnectNATS dials a NATS server with reconnect logging.
func ConnectNATS(natsURL, name string, log logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return nc, nil
}

// NATSSubscriber receives schedule inserts from NATS subjects.
type NATSSubscriber struct {
	conn   *nats.Conn
	logger logger.Logger
}

var _ Subscriber = (*NATSSubscriber)(nil)

// NewNATSSubscriber creates a NATSSubscriber over an open connection.
func NewNATSSubscriber(conn *nats.Conn, log logger.Logger) *NATSSubscriber {
	return &NATSSubscriber{conn: conn, logger: log}
}

// Subscribe implements Subscriber.
func (n *NATSSubscriber) Subscribe(_ context.Context, screenID string, handler Handler) (Subscription, error) {
	sub := &natsSubscription{}

	s, err := n.conn.Subscribe(SubjectFor(screenID), func(msg *nats.Msg) {
		entry, ok := decodeInsert(msg.Data, screenID)
		if !ok {
			n.logger.Debug().Str("subject", msg.Subject).Msg("Dropping schedule event")
			return
		}

		sub.deliver(handler, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", SubjectFor(screenID), err)
	}

	sub.sub = s

	return sub, nil
}

type natsSubscription struct {
	sub *nats.Subscription

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func (s *natsSubscription) deliver(handler Handler, entry models.ScheduleEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	handler(entry)
}

// Unsubscribe waits for an in-flight delivery to finish before returning.
func (s *natsSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if s.sub != nil {
			_ = s.sub.Unsubscribe()
		}
	})
}
