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

package backend

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/carverauto/adscreen/pkg/logger"
)

// retryLogger adapts logger.Logger to retryablehttp's leveled logger.
// Retry chatter is demoted one level so a healthy agent stays quiet.
type retryLogger struct {
	logger logger.Logger
}

var _ retryablehttp.LeveledLogger = retryLogger{}

func newRetryLogger(log logger.Logger) retryLogger {
	return retryLogger{logger: log}
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	emit(l.logger.Warn(), msg, keysAndValues)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	emit(l.logger.Info(), msg, keysAndValues)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	emit(l.logger.Debug(), msg, keysAndValues)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	emit(l.logger.Trace(), msg, keysAndValues)
}

func emit(ev *zerolog.Event, msg string, keysAndValues []interface{}) {
	if len(keysAndValues)%2 != 0 {
		keysAndValues = append(keysAndValues, "")
	}

	ev.Str("component", "backend_http").Fields(keysAndValues).Msg(msg)
}
