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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/carverauto/adscreen/pkg/agent"
	"github.com/carverauto/adscreen/pkg/backend"
	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
	"github.com/carverauto/adscreen/pkg/resolver"
)

var (
	// ErrInvalidTransport is returned for an unknown notification transport.
	ErrInvalidTransport = errors.New("invalid notification transport")
	// ErrNotifyURLRequired is returned when a transport is selected without a URL.
	ErrNotifyURLRequired = errors.New("notification URL is required for the selected transport")
	// ErrNegativeValue is returned for negative intervals or sizes.
	ErrNegativeValue = errors.New("value must not be negative")
)

// Notification transports.
const (
	TransportNone      = "none"
	TransportWebSocket = "websocket"
	TransportNATS      = "nats"
)

const defaultStatePath = "screen-agent.db"

// NotifyConfig selects how schedule inserts are pushed to the device.
type NotifyConfig struct {
	Transport      string          `json:"transport"`
	URL            string          `json:"url,omitempty"`
	InitialBackoff models.Duration `json:"initial_backoff,omitempty"`
	MaxBackoff     models.Duration `json:"max_backoff,omitempty"`
}

// CapabilityConfig points the probe at the platform shim.
type CapabilityConfig struct {
	HostReportPath string `json:"host_report_path,omitempty"`
	Identification string `json:"identification,omitempty"`
}

// CacheConfig tunes the media cache.
type CacheConfig struct {
	BudgetBytes  int64           `json:"budget_bytes,omitempty"`
	FetchTimeout models.Duration `json:"fetch_timeout,omitempty"`
}

// MediaConfig controls storage reference resolution.
type MediaConfig struct {
	Bucket       string          `json:"bucket,omitempty"`
	SignedURLTTL models.Duration `json:"signed_url_ttl,omitempty"`
}

// IntervalConfig holds the loop periods.
type IntervalConfig struct {
	Heartbeat models.Duration `json:"heartbeat,omitempty"`
	Commands  models.Duration `json:"commands,omitempty"`
	Schedule  models.Duration `json:"schedule,omitempty"`
}

// StatusConfig configures the local status API. An empty ListenAddr disables it.
type StatusConfig struct {
	ListenAddr string `json:"listen_addr"`
	APIKey     string `json:"api_key,omitempty"`
}

// AgentConfig is the screen agent configuration.
type AgentConfig struct {
	StatePath  string           `json:"state_path"`
	Backend    backend.Config   `json:"backend"`
	Notify     NotifyConfig     `json:"notify"`
	Capability CapabilityConfig `json:"capability"`
	Cache      CacheConfig      `json:"cache"`
	Media      MediaConfig      `json:"media"`
	Intervals  IntervalConfig   `json:"intervals"`
	Status     StatusConfig     `json:"status"`
	Logging    *logger.Config   `json:"logging,omitempty"`
}

var (
	_ Validator = (*AgentConfig)(nil)
	_ Defaulter = (*AgentConfig)(nil)
)

// ApplyDefaults fills unset fields.
func (c *AgentConfig) ApplyDefaults() {
	if c.StatePath == "" {
		c.StatePath = defaultStatePath
	}

	c.Notify.Transport = strings.ToLower(strings.TrimSpace(c.Notify.Transport))
	if c.Notify.Transport == "" {
		c.Notify.Transport = TransportNone
		if c.Notify.URL != "" {
			c.Notify.Transport = TransportWebSocket
		}
	}

	if c.Media.Bucket == "" {
		c.Media.Bucket = resolver.DefaultBucket
	}

	c.Media.SignedURLTTL = models.Duration(c.Media.SignedURLTTL.OrDefault(resolver.DefaultTTL))
	c.Intervals.Heartbeat = models.Duration(c.Intervals.Heartbeat.OrDefault(agent.DefaultHeartbeatInterval))
	c.Intervals.Commands = models.Duration(c.Intervals.Commands.OrDefault(agent.DefaultCommandInterval))
	c.Intervals.Schedule = models.Duration(c.Intervals.Schedule.OrDefault(agent.DefaultScheduleInterval))

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}
}

// Validate checks the configuration.
func (c *AgentConfig) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return backend.ErrBaseURLRequired
	}

	if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}

	switch c.Notify.Transport {
	case TransportNone:
	case TransportWebSocket, TransportNATS:
		if c.Notify.URL == "" {
			return fmt.Errorf("%w: %s", ErrNotifyURLRequired, c.Notify.Transport)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Notify.Transport)
	}

	if c.Cache.BudgetBytes < 0 {
		return fmt.Errorf("cache.budget_bytes: %w", ErrNegativeValue)
	}

	for name, d := range map[string]models.Duration{
		"intervals.heartbeat":  c.Intervals.Heartbeat,
		"intervals.commands":   c.Intervals.Commands,
		"intervals.schedule":   c.Intervals.Schedule,
		"cache.fetch_timeout":  c.Cache.FetchTimeout,
		"media.signed_url_ttl": c.Media.SignedURLTTL,
	} {
		if d < 0 {
			return fmt.Errorf("%s: %w", name, ErrNegativeValue)
		}
	}

	return nil
}

// RuntimeConfig returns the loop intervals for the agent runtime.
func (c *AgentConfig) RuntimeConfig() agent.RuntimeConfig {
	return agent.RuntimeConfig{
		HeartbeatInterval: c.Intervals.Heartbeat.Std(),
		CommandInterval:   c.Intervals.Commands.Std(),
		ScheduleInterval:  c.Intervals.Schedule.Std(),
	}
}
