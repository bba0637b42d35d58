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
	"fmt"
	"runtime/debug"
	"time"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

const crashReportTimeout = 5 * time.Second

// FaultReporter recovers panics from loops and callbacks and reports them to
// the backend tagged with the current device and screen. Reporting is best
// effort and never panics itself.
type FaultReporter struct {
	sink    CrashSink
	session SessionFunc
	logger  logger.Logger
	now     func() time.Time
}

// NewFaultReporter creates a FaultReporter. sink and session may be nil.
func NewFaultReporter(sink CrashSink, session SessionFunc, log logger.Logger) *FaultReporter {
	return &FaultReporter{sink: sink, session: session, logger: log, now: time.Now}
}

// Guard runs fn and recovers any panic. It reports whether fn panicked.
func (f *FaultReporter) Guard(component string, fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			f.Report(component, fmt.Sprint(r), debug.Stack())
		}
	}()

	fn()

	return false
}

// Go runs fn on a new goroutine under Guard.
func (f *FaultReporter) Go(component string, fn func()) {
	go f.Guard(component, fn)
}

// ReportError reports an unhandled error.
func (f *FaultReporter) ReportError(component string, err error) {
	if err == nil {
		return
	}

	f.Report(component, err.Error(), nil)
}

// Report logs the fault and sends it to the crash sink.
func (f *FaultReporter) Report(component, message string, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Msg("Crash reporting failed")
		}
	}()

	report := &models.CrashReport{
		Component:  component,
		Message:    message,
		Stack:      string(stack),
		OccurredAt: f.now().UTC(),
	}

	if f.session != nil {
		s := f.session()
		report.DeviceID = s.DeviceID
		report.ScreenID = s.ScreenID
	}

	f.logger.Error().
		Str("component", component).
		Str("device_id", report.DeviceID).
		Str("screen_id", report.ScreenID).
		Str("fault", message).
		Msg("Recovered from fault")

	if f.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), crashReportTimeout)
	defer cancel()

	if err := f.sink.ReportCrash(ctx, report); err != nil {
		f.logger.Debug().Err(err).Msg("Crash report not delivered")
	}
}
