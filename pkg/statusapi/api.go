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

// Package statusapi serves the device's local status and launch endpoints.
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carverauto/adscreen/pkg/agent"
	httpx "github.com/carverauto/adscreen/pkg/http"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/pairing"
	"github.com/carverauto/adscreen/pkg/version"
)

//go:generate mockgen -destination=mock_statusapi.go -package=statusapi github.com/carverauto/adscreen/pkg/statusapi StatusProvider,Pairer

const requestTimeout = 20 * time.Second

// StatusProvider reports the runtime view.
type StatusProvider interface {
	Status() agent.Status
}

// Pairer accepts deep-link launch parameters and unpairs the device.
type Pairer interface {
	PairFromLaunch(ctx context.Context, params url.Values) (*models.PairingResult, error)
	Disconnect(ctx context.Context) error
}

// API is the local HTTP surface.
type API struct {
	status   StatusProvider
	pairer   Pairer
	apiKey   string
	logger   logger.Logger
}

// New creates an API. An empty apiKey leaves the endpoints open.
func New(status StatusProvider, pairer Pairer, apiKey string, log logger.Logger) *API {
	return &API{status: status, pairer: pairer, apiKey: apiKey, logger: log}
}

// Handler returns the router.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(httpx.RequestLogger(a.logger))
	r.Use(httpx.APIKeyMiddleware(httpx.APIKeyOptions{
		APIKey:       a.apiKey,
		ExcludePaths: []string{"/healthz"},
		Logger:       a.logger,
	}))

	r.Get("/healthz", a.health)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/status", a.getStatus)
		v1.Post("/launch", a.launch)
		v1.Post("/disconnect", a.disconnect)
	})

	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": version.GetVersion()})
}

func (a *API) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.status.Status())
}

func (a *API) launch(w http.ResponseWriter, r *http.Request) {
	result, err := a.pairer.PairFromLaunch(r.Context(), r.URL.Query())
	if err != nil {
		status, code := launchError(err)
		writeError(w, status, code, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) disconnect(w http.ResponseWriter, r *http.Request) {
	if err := a.pairer.Disconnect(r.Context()); err != nil {
		a.logger.Error().Err(err).Msg("Disconnect failed")
		writeError(w, http.StatusInternalServerError, "disconnect_failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, a.status.Status())
}

func launchError(err error) (status int, code string) {
	switch {
	case errors.Is(err, pairing.ErrNoLaunchCode):
		return http.StatusBadRequest, "missing_code"
	case errors.Is(err, pairing.ErrInvalidCode):
		return http.StatusBadRequest, "invalid_code"
	case errors.Is(err, pairing.ErrCodeNotFound):
		return http.StatusNotFound, "code_not_found"
	case errors.Is(err, pairing.ErrAlreadyPaired), errors.Is(err, pairing.ErrPairingInProgress):
		return http.StatusConflict, "not_unpaired"
	case errors.Is(err, pairing.ErrLookupFailed):
		return http.StatusBadGateway, "lookup_failed"
	default:
		return http.StatusInternalServerError, "pairing_failed"
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
