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

import "time"

// CacheReport summarises media cache usage for the backend.
type CacheReport struct {
	Entries     int   `json:"entries"`
	UsageBytes  int64 `json:"usage_bytes"`
	BudgetBytes int64 `json:"budget_bytes"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
}

// HostReport carries host memory figures.
type HostReport struct {
	MemoryTotalBytes     uint64  `json:"memory_total_bytes"`
	MemoryAvailableBytes uint64  `json:"memory_available_bytes"`
	MemoryUsedPercent    float64 `json:"memory_used_percent"`
}

// Heartbeat is the periodic liveness report.
type Heartbeat struct {
	DeviceID       string         `json:"device_id"`
	ScreenID       string         `json:"screen_id"`
	Status         PlaybackStatus `json:"status"`
	CurrentContent string         `json:"current_content,omitempty"`
	Cache          *CacheReport   `json:"cache,omitempty"`
	Host           *HostReport    `json:"host,omitempty"`
	SentAt         time.Time      `json:"sent_at"`
}

// CrashReport is sent when a loop or callback faults.
type CrashReport struct {
	DeviceID   string    `json:"device_id,omitempty"`
	ScreenID   string    `json:"screen_id,omitempty"`
	Component  string    `json:"component,omitempty"`
	Message    string    `json:"message"`
	Stack      string    `json:"stack,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
