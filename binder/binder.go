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

// Package binder implements the Binder reusable aspect from spec §4.8 and
// §9: rather than the source's Base/Binder multiple-inheritance mixin,
// Aspect is a plain value composed by each endpoint kind (Server,
// client/udp) that needs bind/unbind, constructed with references wired
// to the owner's state, state mutex and local endpoint fields.
package binder

import (
	"sync"
	"time"

	"github.com/nabbar/sakit/config"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
	"github.com/nabbar/sakit/timed"
)

// Aspect drives bindAsync/unbindAsync for an owner, surfacing onBound/
// onUnbound as the Outcome values its Update returns to the owner's
// update(dt) (spec §4.8 "Binder::_integrate wires references to the owner's
// state, state-mutex, local host and local port").
type Aspect struct {
	mu    *sync.Mutex
	st    *state.State
	local *host.Endpoint

	sock platform.Socket
	cfg  func() (timeout, retryFrequency time.Duration)

	worker *timed.Timed
}

// New wires an Aspect to the owner's state fields. mu, st and local must
// be the owner's actual fields (not copies) so the aspect mutates the
// owner in place, matching the original `_integrate` wiring.
func New(sock platform.Socket, mu *sync.Mutex, st *state.State, local *host.Endpoint, cfg func() (timeout, retryFrequency time.Duration)) *Aspect {
	return &Aspect{sock: sock, mu: mu, st: st, local: local, cfg: cfg}
}

// BindAsync transitions IDLE -> BINDING and starts a one-shot bind
// attempt; the result reaches BOUND or back to IDLE on the next Update
// call (spec §4.1 bind legality, §4.8).
func (a *Aspect) BindAsync(ep host.Endpoint) bool {
	a.mu.Lock()
	if !state.Check(*a.st, state.AllowedBind) {
		a.mu.Unlock()
		config.Warn("bind rejected: endpoint in state %s", *a.st)
		return false
	}
	*a.st = state.BINDING
	a.mu.Unlock()

	a.worker = timed.New(func() (bool, error) {
		bound, err := a.sock.Bind(ep)
		if err != nil {
			return false, err
		}
		a.mu.Lock()
		*a.local = bound
		a.mu.Unlock()
		return true, nil
	}, a.cfg)
	a.worker.StartAsync()
	return true
}

// UnbindAsync transitions BOUND -> UNBINDING and closes the socket; the
// owner's Update observes FINISHED and restores IDLE.
func (a *Aspect) UnbindAsync() bool {
	a.mu.Lock()
	if !state.Check(*a.st, state.AllowedUnbind) {
		a.mu.Unlock()
		config.Warn("unbind rejected: endpoint in state %s", *a.st)
		return false
	}
	*a.st = state.UNBINDING
	a.mu.Unlock()

	a.worker = timed.New(func() (bool, error) {
		return true, a.sock.Close()
	}, a.cfg)
	a.worker.StartAsync()
	return true
}

// Update drains the in-flight bind/unbind worker's terminal result,
// restoring the owner's state and reporting whether a bind completed, an
// unbind completed, or neither (none pending or still in flight).
type Outcome uint8

const (
	None Outcome = iota
	Bound
	BindFailed
	Unbound
	UnbindFailed
)

// Update polls the in-flight worker, restoring the owner's state under
// its mutex and returning the outcome for the owner to translate into a
// delegate callback (spec §5: callbacks fire only after releasing the
// state mutex, so Update itself never calls user code).
func (a *Aspect) Update() Outcome {
	if a.worker == nil {
		return None
	}

	result := a.worker.Result()
	if !result.IsTerminal() {
		return None
	}

	a.mu.Lock()
	wasBinding := *a.st == state.BINDING
	if result == state.FINISHED {
		if wasBinding {
			*a.st = state.BOUND
		} else {
			*a.st = state.IDLE
		}
	} else {
		*a.st = state.IDLE
	}
	a.mu.Unlock()

	lastErr := a.worker.LastError()
	a.worker = nil

	switch {
	case result == state.FINISHED && wasBinding:
		return Bound
	case result == state.FINISHED:
		return Unbound
	case wasBinding:
		config.Warn("bind failed: %v", lastErr)
		return BindFailed
	default:
		config.Warn("unbind failed: %v", lastErr)
		return UnbindFailed
	}
}

// Close stops and joins any in-flight bind/unbind worker, leaving no
// detached goroutine behind the aspect (spec §8 "destruction joins all
// workers"). Safe to call with no operation pending.
func (a *Aspect) Close() {
	if a.worker == nil {
		return
	}
	w := a.worker
	w.Stop()
	w.Join()
	a.worker = nil
}
