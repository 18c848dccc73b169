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

// Package timed is the base of the one-shot, timeout-bounded worker
// family from spec §4.7: connector and binder both retry an operation at
// retryFrequency until it succeeds or timeout elapses.
package timed

import (
	"time"

	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/worker"
)

// Attempt is the operation retried by a Timed worker. It returns true on
// success, false on a transient failure worth retrying. A non-nil error
// is recorded for logging only; it never short-circuits the retry loop
// (spec §4.7 only timeout or the caller cancelling stop retrying).
type Attempt func() (bool, error)

// Timed retries fn every retryFrequency until it succeeds or the
// accumulated elapsed time exceeds timeout (spec §4.7). timeout and
// retryFrequency are read fresh from cfg on every iteration, preserving
// the original implementation's live pointer-based re-read (spec §9
// "retry loops").
type Timed struct {
	*worker.Thread

	fn       Attempt
	cfg      func() (timeout, retryFrequency time.Duration)
	lastErr  error
	lasterrs chan error // buffered depth 1, latest error only
}

// New allocates a Timed worker. cfg is called on every retry iteration so
// a live config.Current() can be passed through, matching the original's
// re-read of timeout/retryFrequency per attempt.
func New(fn Attempt, cfg func() (timeout, retryFrequency time.Duration)) *Timed {
	t := &Timed{fn: fn, cfg: cfg, lasterrs: make(chan error, 1)}
	t.Thread = worker.New(t.run)
	return t
}

// StartAsync begins the timed retry loop.
func (t *Timed) StartAsync() {
	t.SetResult(state.RUNNING)
	t.Start()
}

// LastError returns the most recent attempt error, if any, for logging.
func (t *Timed) LastError() error {
	select {
	case err := <-t.lasterrs:
		t.lastErr = err
	default:
	}
	return t.lastErr
}

func (t *Timed) recordErr(err error) {
	if err == nil {
		return
	}
	select {
	case <-t.lasterrs:
	default:
	}
	t.lasterrs <- err
}

func (t *Timed) run(w *worker.Thread) {
	start := time.Now()

	for w.IsRunning() {
		timeout, retryFrequency := t.cfg()

		ok, err := t.fn()
		t.recordErr(err)

		if ok {
			w.SetResult(state.FINISHED)
			return
		}

		if time.Since(start) > timeout {
			w.SetResult(state.FAILED)
			return
		}

		time.Sleep(retryFrequency)
	}
	w.SetResult(state.FAILED)
}
