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

// Package receiver implements the Receiver threads from spec §4.4 (TCP)
// and §4.5 (UDP): a dedicated goroutine draining platform.Socket.Receive/
// ReceiveFrom into a pending-delivery queue the owner drains outside the
// worker's mutex on each update(dt).
package receiver

import (
	"sync"
	"time"

	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/worker"
)

// yieldPause is the real pause taken once maxPackages datagrams have been
// drained in one iteration, giving the owner's Drain a chance to catch up
// before the loop resumes reading (spec §4.5 "bounds ... before yielding").
const yieldPause = 5 * time.Millisecond

// Chunk is one delivered unit: payload bytes plus, for UDP, the
// datagram's source endpoint (zero Endpoint for TCP).
type Chunk struct {
	From host.Endpoint
	Data []byte
}

const defaultBufferSize = 64 * 1024

// Receiver drains a platform.Socket into a pending-delivery queue (spec
// §4.4/§4.5). udp selects ReceiveFrom over Receive and enforces
// maxPackages per iteration (0 or negative means unbounded).
type Receiver struct {
	*worker.Thread

	sock        platform.Socket
	udp         bool
	maxPackages int
	bufSize     int

	qmu   sync.Mutex
	queue []Chunk
}

// New allocates a Receiver bound to sock. Set udp to true to use
// ReceiveFrom and record each datagram's source endpoint (spec §4.5).
// maxPackages bounds datagrams drained per worker iteration before
// yielding; it is ignored for TCP.
func New(sock platform.Socket, udp bool, maxPackages int) *Receiver {
	r := &Receiver{sock: sock, udp: udp, maxPackages: maxPackages, bufSize: defaultBufferSize}
	r.Thread = worker.New(r.run)
	return r
}

// StartAsync begins draining the socket (spec §4.1 `startReceiveAsync`).
func (r *Receiver) StartAsync() {
	r.SetResult(state.RUNNING)
	r.Start()
}

// Drain atomically removes and returns all chunks queued since the last
// call, for the owner's update(dt) to deliver via onReceived outside any
// worker mutex (spec §4.4).
func (r *Receiver) Drain() []Chunk {
	r.qmu.Lock()
	defer r.qmu.Unlock()
	if len(r.queue) == 0 {
		return nil
	}
	out := r.queue
	r.queue = nil
	return out
}

func (r *Receiver) push(c Chunk) {
	r.qmu.Lock()
	r.queue = append(r.queue, c)
	r.qmu.Unlock()
}

func (r *Receiver) run(w *worker.Thread) {
	read := 0
	for w.IsRunning() {
		if r.udp && r.maxPackages > 0 && read >= r.maxPackages {
			read = 0
			time.Sleep(yieldPause)
			continue
		}

		buf := make([]byte, r.bufSize)

		if r.udp {
			n, from, ok, timedOut := r.sock.ReceiveFrom(buf)
			if timedOut {
				continue
			}
			if !ok {
				w.SetResult(state.FAILED)
				return
			}
			if n == 0 {
				w.SetResult(state.FINISHED)
				return
			}
			r.push(Chunk{From: from, Data: buf[:n]})
			read++
			continue
		}

		n, ok, timedOut := r.sock.Receive(buf)
		if timedOut {
			continue
		}
		if !ok {
			w.SetResult(state.FAILED)
			return
		}
		if n == 0 {
			w.SetResult(state.FINISHED)
			return
		}
		r.push(Chunk{Data: buf[:n]})
	}
}
