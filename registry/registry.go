/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package registry is the process-wide registry and pump from spec
// §4.10: every live endpoint registers a weak-reference-equivalent entry
// on construction and unregisters on destruction; the host application
// drives delegate delivery by calling Update(dt) once per tick, which
// snapshots the registry and calls Endpoint.Update(dt) on each entry
// outside the registry lock (spec §9 "the pump iterates a snapshot to
// avoid holding the registry lock during update").
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nabbar/sakit/config"
)

// Endpoint is anything the pump can drive: Socket, Server or UdpSocket
// (spec Glossary).
type Endpoint interface {
	Update(dt float64)
}

// Handle identifies a registered Endpoint for Unregister.
type Handle uuid.UUID

var (
	mu      sync.Mutex
	entries = map[uuid.UUID]Endpoint{}

	teardown bool
)

// Register adds ep to the process-wide registry, returning a Handle for
// later Unregister. Panics if called after Teardown (spec §5 "Endpoints
// constructed after teardown panic").
func Register(ep Endpoint) Handle {
	mu.Lock()
	defer mu.Unlock()

	if teardown {
		config.Warn("endpoint constructed after teardown")
		panic("registry: endpoint constructed after teardown")
	}

	id := uuid.New()
	entries[id] = ep
	return Handle(id)
}

// Unregister removes the endpoint identified by h. Safe to call twice;
// the second call is a no-op.
func Unregister(h Handle) {
	mu.Lock()
	defer mu.Unlock()
	delete(entries, uuid.UUID(h))
}

// Update snapshots the registry and calls Update(dt) on every live
// endpoint, outside the registry lock (spec §4.10, §9).
func Update(dt float64) {
	mu.Lock()
	snapshot := make([]Endpoint, 0, len(entries))
	for _, ep := range entries {
		snapshot = append(snapshot, ep)
	}
	mu.Unlock()

	for _, ep := range snapshot {
		ep.Update(dt)
	}
}

// Count returns the number of currently registered endpoints, for tests
// and diagnostics.
func Count() int {
	mu.Lock()
	defer mu.Unlock()
	return len(entries)
}

// Teardown signals that no further endpoints may register (spec §5
// "library teardown ... Endpoints constructed after teardown panic").
// It does not itself stop or join any worker; callers are expected to
// have already driven every live endpoint's Disconnect/Stop before
// calling Teardown.
func Teardown() {
	mu.Lock()
	defer mu.Unlock()
	teardown = true
}

// Reset clears the registry and the teardown flag. Test-only: production
// code has exactly one process-wide registry for the program's lifetime.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	entries = map[uuid.UUID]Endpoint{}
	teardown = false
}
