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

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// Service is a long running component driven by RunService.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// RunService starts svc and blocks until SIGINT/SIGTERM or until the parent
// context is cancelled, then stops svc within the shutdown timeout.
func RunService(ctx context.Context, svc Service, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	log.Info().Msg("Shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := svc.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Error while stopping service")
		return err
	}

	log.Info().Msg("Service stopped")

	return nil
}
