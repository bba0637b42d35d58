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

package agent

import (
	"context"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
)

// Task is a self-rescheduling periodic job: the next run is armed only after
// the previous one returned, so runs never overlap. Every run is guarded by
// the fault reporter.
type Task struct {
	name      string
	interval  time.Duration
	fn        func(ctx context.Context)
	faults    *FaultReporter
	logger    logger.Logger
	immediate bool
	trigger   chan struct{}
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// RunImmediately makes the first run happen on start instead of after one interval.
func RunImmediately() TaskOption {
	return func(t *Task) { t.immediate = true }
}

// NewTask creates a Task.
func NewTask(name string, interval time.Duration, fn func(ctx context.Context), faults *FaultReporter, log logger.Logger, opts ...TaskOption) *Task {
	t := &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		faults:   faults,
		logger:   log,
		trigger:  make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Run executes the task until ctx is done.
func (t *Task) Run(ctx context.Context) {
	t.logger.Debug().Str("task", t.name).Dur("interval", t.interval).Msg("Task started")
	defer t.logger.Debug().Str("task", t.name).Msg("Task stopped")

	if t.immediate {
		t.RunOnce(ctx)
	}

	for {
		timer := time.NewTimer(t.interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-t.trigger:
			timer.Stop()
		case <-timer.C:
		}

		if ctx.Err() != nil {
			return
		}

		t.RunOnce(ctx)
	}
}

// RunOnce performs one guarded run.
func (t *Task) RunOnce(ctx context.Context) {
	t.faults.Guard(t.name, func() { t.fn(ctx) })
}

// Trigger requests an early run. Extra triggers while one is pending are dropped.
func (t *Task) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}
