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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger implements Logger on top of a zerolog.Logger.
type ZeroLogger struct {
	logger zerolog.Logger
	closer io.Closer
}

var _ Logger = (*ZeroLogger)(nil)

// New builds a logger from the provided configuration.
// If config is nil, DefaultConfig is used.
func New(config *Config) (*ZeroLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	output, closer, err := openOutput(config.Output)
	if err != nil {
		return nil, err
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			if closer != nil {
				_ = closer.Close()
			}

			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
	}

	timeFormat := time.RFC3339
	if config.TimeFormat != "" {
		timeFormat = config.TimeFormat
	}

	zerolog.TimeFieldFormat = timeFormat

	if config.Console {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZeroLogger{logger: zlog, closer: closer}, nil
}

func openOutput(target string) (io.Writer, io.Closer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output %s: %w", target, err)
	}

	return f, f, nil
}

// Wrap adapts an existing zerolog.Logger.
func Wrap(l zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{logger: l}
}

func (l *ZeroLogger) Trace() *zerolog.Event { return l.logger.Trace() }
func (l *ZeroLogger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *ZeroLogger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *ZeroLogger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *ZeroLogger) Error() *zerolog.Event { return l.logger.Error() }
func (l *ZeroLogger) Fatal() *zerolog.Event { return l.logger.Fatal() }
func (l *ZeroLogger) Panic() *zerolog.Event { return l.logger.Panic() }
func (l *ZeroLogger) With() zerolog.Context { return l.logger.With() }

func (l *ZeroLogger) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

func (l *ZeroLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (l *ZeroLogger) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *ZeroLogger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

// Zerolog exposes the underlying logger.
func (l *ZeroLogger) Zerolog() zerolog.Logger {
	return l.logger
}

// Close releases the log file, if one was opened.
func (l *ZeroLogger) Close() error {
	if l.closer == nil {
		return nil
	}

	err := l.closer.Close()
	l.closer = nil

	if errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err
}
