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

// Package sender implements the SenderThread from spec §4.3: an
// owner-supplied byte buffer drained onto a platform.Socket on a
// dedicated goroutine, surfaced to the owner's update(dt) pump as a
// byte-delta counter plus a terminal worker.Thread result.
package sender

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/worker"
)

// Sender owns the outbound stream and drives platform.Socket.Send from a
// dedicated goroutine (spec §4.3).
type Sender struct {
	*worker.Thread

	mu       sync.Mutex
	buf      []byte
	pos      int
	lastSent int64 // atomic delta accumulated since the owner's last drain

	sock    platform.Socket
	retry   time.Duration
	maxSend int
}

// New allocates a Sender bound to sock. maxSend caps the size of a single
// platform.Send call (0 means unbounded, i.e. the whole remaining buffer).
func New(sock platform.Socket, retryTimeout time.Duration, maxSend int) *Sender {
	s := &Sender{sock: sock, retry: retryTimeout, maxSend: maxSend}
	s.Thread = worker.New(s.run)
	return s
}

// SendAsync copies the first n bytes of data (all of data when n <= 0 or
// n > len(data)) into the sender-owned buffer and starts the worker
// goroutine (spec §4.3 steps
// 1-3; the state-mutex verification and composite-state computation are
// the caller's responsibility, performed before calling SendAsync).
func (s *Sender) SendAsync(data []byte, n int) {
	if n > len(data) || n <= 0 {
		n = len(data)
	}

	s.mu.Lock()
	s.buf = append([]byte(nil), data[:n]...)
	s.pos = 0
	s.mu.Unlock()

	atomic.StoreInt64(&s.lastSent, 0)
	s.SetResult(state.RUNNING)
	s.Start()
}

// DrainSent atomically reads and resets the accumulated byte count since
// the last call, for the owner's update(dt) to report via onSent.
func (s *Sender) DrainSent() int {
	return int(atomic.SwapInt64(&s.lastSent, 0))
}

func (s *Sender) run(w *worker.Thread) {
	for w.IsRunning() {
		s.mu.Lock()
		remaining := s.buf[s.pos:]
		s.mu.Unlock()

		if len(remaining) == 0 {
			w.SetResult(state.FINISHED)
			s.reset()
			return
		}

		chunk := len(remaining)
		if s.maxSend > 0 && chunk > s.maxSend {
			chunk = s.maxSend
		}

		n, ok := s.sock.Send(remaining, chunk)
		if !ok {
			w.SetResult(state.FAILED)
			s.reset()
			return
		}

		if n > 0 {
			s.mu.Lock()
			s.pos += n
			s.mu.Unlock()
			atomic.AddInt64(&s.lastSent, int64(n))
		} else {
			time.Sleep(s.retry)
		}
	}
	s.reset()
}

func (s *Sender) reset() {
	s.mu.Lock()
	s.buf = nil
	s.pos = 0
	s.mu.Unlock()
}
