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
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"github.com/carverauto/adscreen/pkg/logger"
)

// ErrURLRequired is returned when the websocket endpoint is not configured.
var ErrURLRequired = errors.New("notification websocket URL is required")

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = time.Minute
	handshakeTimeout      = 15 * time.Second
)

// WebSocketConfig configures a WebSocketSubscriber.
type WebSocketConfig struct {
	URL            string
	APIKey         string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// WebSocketSubscriber receives insert events over a websocket and reconnects
// with exponential backoff when the connection drops.
type WebSocketSubscriber struct {
	cfg    WebSocketConfig
	dialer *websocket.Dialer
	logger logger.Logger
}

var _ Subscriber = (*WebSocketSubscriber)(nil)

// NewWebSocketSubscriber creates a WebSocketSubscriber.
func NewWebSocketSubscriber(cfg WebSocketConfig, log logger.Logger) (*WebSocketSubscriber, error) {
	if cfg.URL == "" {
		return nil, ErrURLRequired
	}

	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse notification URL: %w", err)
	}

	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}

	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout

	return &WebSocketSubscriber{cfg: cfg, dialer: &dialer, logger: log}, nil
}

// Subscribe starts a background connection for screenID. The connection
// outlives ctx only until Unsubscribe is called or ctx is done.
func (s *WebSocketSubscriber) Subscribe(ctx context.Context, screenID string, handler Handler) (Subscription, error) {
	endpoint, err := s.endpoint(screenID)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)

	sub := &wsSubscription{
		parent:   s,
		endpoint: endpoint,
		screenID: screenID,
		handler:  handler,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go sub.run(runCtx)

	return sub, nil
}

func (s *WebSocketSubscriber) endpoint(screenID string) (string, error) {
	u, err := url.Parse(s.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse notification URL: %w", err)
	}

	q := u.Query()
	q.Set("screen_id", screenID)

	if s.cfg.APIKey != "" {
		q.Set("apikey", s.cfg.APIKey)
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

type wsSubscription struct {
	parent   *WebSocketSubscriber
	endpoint string
	screenID string
	handler  Handler
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once

	mu   sync.Mutex
	conn *websocket.Conn
}

// Unsubscribe stops the connection loop and waits for it to exit.
func (w *wsSubscription) Unsubscribe() {
	w.once.Do(func() {
		w.cancel()

		w.mu.Lock()
		if w.conn != nil {
			_ = w.conn.Close()
		}
		w.mu.Unlock()

		<-w.done
	})
}

func (w *wsSubscription) run(ctx context.Context) {
	defer close(w.done)

	log := w.parent.logger

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.parent.cfg.InitialBackoff
	bo.MaxInterval = w.parent.cfg.MaxBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0.2

	for {
		connected, err := w.session(ctx)
		if ctx.Err() != nil {
			return
		}

		if connected {
			bo.Reset()
		}

		wait := bo.NextBackOff()

		log.Warn().Err(err).
			Str("screen_id", w.screenID).
			Dur("retry_in", wait).
			Msg("Notification channel disconnected")

		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// session runs one connection until it fails. connected reports whether the
// handshake succeeded.
func (w *wsSubscription) session(ctx context.Context) (connected bool, err error) {
	header := http.Header{}
	if key := w.parent.cfg.APIKey; key != "" {
		header.Set("Authorization", "Bearer "+key)
	}

	conn, resp, err := w.parent.dialer.DialContext(ctx, w.endpoint, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return false, fmt.Errorf("dial notification channel: %w", err)
	}

	w.mu.Lock()
	if ctx.Err() != nil {
		w.mu.Unlock()
		_ = conn.Close()

		return true, ctx.Err()
	}
	w.conn = conn
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.conn = nil
		w.mu.Unlock()

		_ = conn.Close()
	}()

	w.parent.logger.Info().Str("screen_id", w.screenID).Msg("Notification channel connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		if ctx.Err() != nil {
			return true, ctx.Err()
		}

		entry, ok := decodeInsert(data, w.screenID)
		if !ok {
			continue
		}

		w.handler(entry)
	}
}
