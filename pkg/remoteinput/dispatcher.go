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

package remoteinput

import "sync"

// ActionHandler receives mapped actions.
type ActionHandler func(Action)

// Dispatcher maps raw events and fans the resulting actions out to subscribers.
type Dispatcher struct {
	mapper *Mapper

	mu       sync.Mutex
	handlers map[uint64]ActionHandler
	nextID   uint64
}

// NewDispatcher creates a Dispatcher over mapper.
func NewDispatcher(mapper *Mapper) *Dispatcher {
	return &Dispatcher{mapper: mapper, handlers: make(map[uint64]ActionHandler)}
}

// Subscribe registers h. The returned function unregisters it.
func (d *Dispatcher) Subscribe(h ActionHandler) (unsubscribe func()) {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.handlers[id] = h
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.handlers, id)
		d.mu.Unlock()
	}
}

// Dispatch maps ev and delivers the action. It reports whether ev mapped to an action.
func (d *Dispatcher) Dispatch(ev Event) bool {
	action, ok := d.mapper.Map(ev)
	if !ok {
		return false
	}

	d.mu.Lock()
	handlers := make([]ActionHandler, 0, len(d.handlers))
	for _, h := range d.handlers {
		handlers = append(handlers, h)
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(action)
	}

	return true
}
