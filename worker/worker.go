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

// Package worker is the shared base of the worker-thread family (spec
// §4.2, §9 "shared state between owner and workers"): a dedicated
// goroutine, its own mutex, a result slot, and the two owner-controlled
// flags (running/executing) that drive cooperative cancellation. The run
// loop is supplied by the caller; a worker never touches a delegate —
// it only ever writes its own guarded fields.
package worker

import (
	"sync"

	"github.com/nabbar/sakit/state"
)

// Loop is the function a worker runs on its dedicated goroutine. It
// receives a *Thread so it can poll IsRunning/IsExecuting and write
// results, without capturing any owner-side state directly.
type Loop func(w *Thread)

// Thread is the base worker-thread record: a goroutine, a mutex, the
// result slot and the running/executing flags (spec §4.2 and §9's
// "{result_slot, last_sent, buffer, running_flag, executing_flag}").
type Thread struct {
	mu sync.Mutex

	running   bool
	executing bool
	started   bool
	result    state.State

	done chan struct{}
	loop Loop
}

// New constructs an idle Thread bound to the given loop. The goroutine is
// not started until Start is called.
func New(loop Loop) *Thread {
	return &Thread{loop: loop, result: state.RUNNING}
}

// Start launches the worker goroutine exactly once. Subsequent calls are
// no-ops so owners can call Start defensively from sendAsync-style entry
// points.
func (w *Thread) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.running = true
	w.executing = true
	w.done = make(chan struct{})
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		w.loop(w)
	}()
}

// IsRunning reports whether the owner has not yet requested termination.
// Checked by the loop at every platform-call boundary (spec §5
// "cancellation").
func (w *Thread) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// IsExecuting reports whether the owner still wants the current unit of
// work carried to completion (spec §4.2's "executing flag").
func (w *Thread) IsExecuting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.executing
}

// Stop clears the running flag; observed by the loop at its next
// platform-call boundary (spec §5, bounded by retryFrequency plus one
// syscall).
func (w *Thread) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// StopExecuting clears the executing flag without forcing the running
// flag down — used by stop-request semantics like Server.stopAsync (spec
// §4.9) where the current accept/recv unit may still be allowed to land.
func (w *Thread) StopExecuting() {
	w.mu.Lock()
	w.executing = false
	w.mu.Unlock()
}

// SetResult writes the worker's terminal or in-progress result. Called
// only from the loop goroutine.
func (w *Thread) SetResult(s state.State) {
	w.mu.Lock()
	w.result = s
	w.mu.Unlock()
}

// Result reads the worker's current result slot. Called only from the
// owner's update(dt) pump.
func (w *Thread) Result() state.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Join blocks until the worker goroutine has returned. Safe to call from
// the owner thread even if Start was never called (done is nil and the
// wait degenerates to a no-op), matching the "destruction joins all
// workers" invariant (spec §8).
func (w *Thread) Join() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}
