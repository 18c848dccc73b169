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

// Package accepter implements the AccepterThread from spec §4.7/§4.9: a
// dedicated goroutine looping on platform.Socket.Accept while the
// server's executing flag holds, pushing each accepted child onto a
// queue the owner drains in update(dt).
package accepter

import (
	"sync"

	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/worker"
)

// Accepter loops Accept on a listening platform.Socket, queuing accepted
// children for the owner's pump to drain (spec §4.7 "for the Acceptor").
type Accepter struct {
	*worker.Thread

	sock platform.Socket

	qmu   sync.Mutex
	queue []platform.Socket
}

// New allocates an Accepter bound to a listening sock.
func New(sock platform.Socket) *Accepter {
	a := &Accepter{sock: sock}
	a.Thread = worker.New(a.run)
	return a
}

// StartAsync begins the accept loop (Server.startAsync, spec §4.9).
func (a *Accepter) StartAsync() {
	a.SetResult(state.RUNNING)
	a.Start()
}

// Drain removes and returns all children accepted since the last call.
func (a *Accepter) Drain() []platform.Socket {
	a.qmu.Lock()
	defer a.qmu.Unlock()
	if len(a.queue) == 0 {
		return nil
	}
	out := a.queue
	a.queue = nil
	return out
}

func (a *Accepter) run(w *worker.Thread) {
	for w.IsExecuting() {
		child, ok, timedOut := a.sock.Accept()
		if timedOut {
			continue
		}
		if !ok {
			w.SetResult(state.FAILED)
			return
		}

		a.qmu.Lock()
		a.queue = append(a.queue, child)
		a.qmu.Unlock()
	}
	w.SetResult(state.FINISHED)
}
