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

package models

import (
	"slices"
	"strings"
)

// ProbeSource records how a CapabilityDescriptor was obtained.
type ProbeSource string

const (
	ProbeSourceRuntime   ProbeSource = "runtime"
	ProbeSourceHeuristic ProbeSource = "heuristic"
	ProbeSourceUnknown   ProbeSource = "unknown"
)

// MemoryTier is a coarse classification of device memory.
type MemoryTier string

const (
	MemoryTierLow      MemoryTier = "low"
	MemoryTierStandard MemoryTier = "standard"
	MemoryTierHigh     MemoryTier = "high"
)

// Resolution is a width/height pair in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Pixels returns the pixel area.
func (r Resolution) Pixels() int64 {
	return int64(r.Width) * int64(r.Height)
}

// IsZero reports whether the resolution is unset.
func (r Resolution) IsZero() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CapabilityDescriptor describes what the host display device can do.
// It is produced once per process and passed around by value.
type CapabilityDescriptor struct {
	ProbeSource       ProbeSource `json:"probe_source"`
	Platform          string      `json:"platform,omitempty"`
	HasRemoteInput    bool        `json:"has_remote_input"`
	SupportsGestures  bool        `json:"supports_gestures"`
	SupportsLongPress bool        `json:"supports_long_press"`
	SupportsDoubleTap bool        `json:"supports_double_tap"`
	MaxResolution     Resolution  `json:"max_resolution"`
	SupportedCodecs   []string    `json:"supported_codecs"`
	MemoryTier        MemoryTier  `json:"memory_tier"`
	TotalMemoryBytes  uint64      `json:"total_memory_bytes,omitempty"`
}

// SupportsCodec reports whether codec (case-insensitive) is in SupportedCodecs.
func (d CapabilityDescriptor) SupportsCodec(codec string) bool {
	_, found := slices.BinarySearch(d.SupportedCodecs, strings.ToLower(codec))
	return found
}

// NormalizeCodecs lower-cases, sorts and de-duplicates a codec list into a fresh slice.
func NormalizeCodecs(codecs []string) []string {
	out := make([]string, 0, len(codecs))

	for _, c := range codecs {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}

	slices.Sort(out)

	return slices.Compact(out)
}
