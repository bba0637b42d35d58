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

// Package capability probes the host display device once at startup.
package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

//go:generate mockgen -destination=mock_capability.go -package=capability github.com/carverauto/adscreen/pkg/capability HostCapabilities

var (
	// ErrHostUnavailable indicates the host exposes no capability-reporting interface.
	ErrHostUnavailable = errors.New("host capability interface unavailable")
	// ErrInvalidReport indicates the host returned a report that cannot be used.
	ErrInvalidReport = errors.New("invalid host capability report")
)

// HostCapabilities is the optional runtime-native capability surface of the host platform.
type HostCapabilities interface {
	Report(ctx context.Context) (*HostReport, error)
}

// HostReport is the capability report published by the platform shim.
type HostReport struct {
	Platform         string   `json:"platform"`
	RemoteControl    bool     `json:"remote_control"`
	Gestures         bool     `json:"gestures"`
	LongPress        bool     `json:"long_press"`
	DoubleTap        bool     `json:"double_tap"`
	MaxWidth         int      `json:"max_width"`
	MaxHeight        int      `json:"max_height"`
	Codecs           []string `json:"codecs"`
	TotalMemoryBytes uint64   `json:"total_memory_bytes"`
}

// FileHost reads a JSON HostReport that the platform shim writes at boot.
type FileHost struct {
	Path string
}

var _ HostCapabilities = (*FileHost)(nil)

// Report implements HostCapabilities.
func (f *FileHost) Report(_ context.Context) (*HostReport, error) {
	if f == nil || f.Path == "" {
		return nil, ErrHostUnavailable
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrHostUnavailable, f.Path)
		}

		return nil, fmt.Errorf("read capability report %s: %w", f.Path, err)
	}

	var report HostReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	return &report, nil
}
