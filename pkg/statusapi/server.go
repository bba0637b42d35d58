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

package statusapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
)

const readHeaderTimeout = 5 * time.Second

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("status server already started")

// Server runs the API on a listen address.
type Server struct {
	addr    string
	handler http.Handler
	logger  logger.Logger
	onError func(error)

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServeErrorHandler receives the error when serving stops unexpectedly.
func WithServeErrorHandler(fn func(error)) ServerOption {
	return func(s *Server) { s.onError = fn }
}

// NewServer creates a Server for api on addr.
func NewServer(addr string, api *API, log logger.Logger, opts ...ServerOption) *Server {
	s := &Server{addr: addr, handler: api.Handler(), logger: log}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start binds the listener and serves in the background.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.listener = ln
	s.srv = &http.Server{Handler: s.handler, ReadHeaderTimeout: readHeaderTimeout}
	s.done = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Status server stopped unexpectedly")

			if s.onError != nil {
				s.onError(err)
			}
		}
	}(s.srv, s.done)

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Status server listening")

	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.addr
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	err := srv.Shutdown(ctx)
	<-done

	return err
}
