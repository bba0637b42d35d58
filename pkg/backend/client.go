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

// Package backend is the HTTP client for the screen management backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

var (
	// ErrBaseURLRequired is returned when the client is built without a base URL.
	ErrBaseURLRequired = errors.New("backend base URL is required")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("backend resource not found")
	// ErrUnexpectedStatus is returned for other non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected backend response status")
)

const (
	defaultTimeout      = 15 * time.Second
	defaultRetryMax     = 3
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 10 * time.Second
	maxErrorBody        = 4 << 10
)

// Config holds backend connection settings.
type Config struct {
	BaseURL      string          `json:"base_url"`
	APIKey       string          `json:"api_key,omitempty"`
	Timeout      models.Duration `json:"timeout,omitempty"`
	RetryMax     int             `json:"retry_max,omitempty"`
	RetryWaitMin models.Duration `json:"retry_wait_min,omitempty"`
	RetryWaitMax models.Duration `json:"retry_wait_max,omitempty"`
}

// Client talks to the backend. Reads and polls are retried with backoff;
// heartbeats and crash reports are sent once.
type Client struct {
	baseURL  string
	apiKey   string
	retrying *retryablehttp.Client
	plain    *http.Client
	logger   logger.Logger
}

// New builds a Client from cfg.
func New(cfg Config, log logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}

	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}

	timeout := cfg.Timeout.OrDefault(defaultTimeout)

	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = timeout
	rc.Logger = newRetryLogger(log)
	rc.RetryMax = defaultRetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin.OrDefault(defaultRetryWaitMin)
	rc.RetryWaitMax = cfg.RetryWaitMax.OrDefault(defaultRetryWaitMax)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if cfg.RetryMax > 0 {
		rc.RetryMax = cfg.RetryMax
	}

	plain := cleanhttp.DefaultPooledClient()
	plain.Timeout = timeout

	return &Client{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		retrying: rc,
		plain:    plain,
		logger:   log,
	}, nil
}

// HTTPClient returns the pooled client for unrelated requests such as media downloads.
func (c *Client) HTTPClient() *http.Client {
	return c.retrying.HTTPClient
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (c *Client) setHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
		h.Set("apikey", c.apiKey)
	}
}

// doRetrying sends a request through the retrying client and decodes the JSON reply into out.
func (c *Client) doRetrying(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body interface{}

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}

		body = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}

	c.setHeaders(req.Header)

	resp, err := c.retrying.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp, path, out)
}

// doOnce sends a single request with no retry. Used for fire-and-forget reports.
func (c *Client) doOnce(ctx context.Context, method, path string, in interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}

	c.setHeaders(req.Header)

	resp, err := c.plain.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp, path, nil)
}

func decodeResponse(resp *http.Response, path string, out interface{}) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		if msg := readErrorBody(resp.Body); msg != "" {
			return fmt.Errorf("%w: %s (%s): %s", ErrUnexpectedStatus, path, resp.Status, msg)
		}

		return fmt.Errorf("%w: %s (%s)", ErrUnexpectedStatus, path, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	return nil
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}
