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

// Package broadcaster implements the BroadcasterThread from spec §4.6: a
// payload replayed to every platform.NetworkAdapter's broadcast address on
// a given port, running concurrently with a socket's send/receive
// activity (it composes additively in the state lattice rather than
// claiming the SENDING bit).
package broadcaster

import (
	"sync/atomic"
	"time"

	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/worker"
)

// Broadcaster owns the payload and adapter list and drives
// platform.Socket.Broadcast from a dedicated goroutine (spec §4.6).
type Broadcaster struct {
	*worker.Thread

	sock  platform.Socket
	retry time.Duration

	payload  []byte
	port     uint16
	adapters []platform.NetworkAdapter

	finished int32 // adapters successfully broadcast to, for observability
}

// New allocates a Broadcaster bound to sock.
func New(sock platform.Socket, retryTimeout time.Duration) *Broadcaster {
	b := &Broadcaster{sock: sock, retry: retryTimeout}
	b.Thread = worker.New(b.run)
	return b
}

// BroadcastAsync starts replaying payload to port on every adapter in
// adapters.
func (b *Broadcaster) BroadcastAsync(payload []byte, port uint16, adapters []platform.NetworkAdapter) {
	b.payload = append([]byte(nil), payload...)
	b.port = port
	b.adapters = adapters
	atomic.StoreInt32(&b.finished, 0)
	b.SetResult(state.RUNNING)
	b.Start()
}

func (b *Broadcaster) run(w *worker.Thread) {
	for _, a := range b.adapters {
		if !w.IsRunning() {
			w.SetResult(state.FAILED)
			return
		}

		ok := b.sock.Broadcast(a, b.port, b.payload)
		for !ok && w.IsRunning() {
			time.Sleep(b.retry)
			ok = b.sock.Broadcast(a, b.port, b.payload)
		}
		if ok {
			atomic.AddInt32(&b.finished, 1)
		} else {
			w.SetResult(state.FAILED)
			return
		}
	}
	w.SetResult(state.FINISHED)
}
