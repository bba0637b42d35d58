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

package lifecycle

import (
	"fmt"

	"github.com/carverauto/adscreen/pkg/logger"
)

// componentLogger tags every record with the owning component and keeps the
// root logger around so its output can be released on shutdown.
type componentLogger struct {
	*logger.ZeroLogger
	root *logger.ZeroLogger
}

// CreateComponentLogger creates a logger for a specific component.
// If config is nil, logger.DefaultConfig is used.
func CreateComponentLogger(component string, config *logger.Config) (logger.Logger, error) {
	root, err := logger.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &componentLogger{
		ZeroLogger: logger.Wrap(root.WithComponent(component)),
		root:       root,
	}, nil
}

// ShutdownLogger releases any output opened for l.
func ShutdownLogger(l logger.Logger) error {
	if cl, ok := l.(*componentLogger); ok {
		return cl.root.Close()
	}

	return nil
}
