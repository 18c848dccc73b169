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

// Package server implements the generic listening-endpoint Base from spec
// §3 ("Server") and §4.9: a bound socket driving an accepter.Accepter
// worker, owning the accepted children and surfacing Bound/Unbound/
// Start/Stop outcomes on a delegate.Server. server/tcp realizes it over a
// stream listener; server/udp realizes the same Start/Stop/Bind lifecycle
// over a connectionless socket that has no accept step (spec §3 "RUNNING
// additionally denotes ... worker is actively processing").
package server

import (
	"sync"
	"time"

	"github.com/nabbar/sakit/accepter"
	"github.com/nabbar/sakit/binder"
	"github.com/nabbar/sakit/config"
	"github.com/nabbar/sakit/delegate"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/state"
)

// Base is the state shared by every listening endpoint kind. It is
// embedded by family-specific servers, never used standalone.
type Base struct {
	Mu    sync.Mutex
	St    state.State
	Local host.Endpoint

	Sock platform.Socket

	bind *binder.Aspect
	acc  *accepter.Accepter

	Delegate delegate.Server
}

func cfgFn() (time.Duration, time.Duration) {
	c := config.Current()
	return c.ConnectionTimeout.Time(), c.RetryFrequency.Time()
}

// NewBase allocates a Base around an unbound sock.
func NewBase(sock platform.Socket) Base {
	b := Base{Sock: sock, St: state.IDLE, Delegate: delegate.NopServer{}}
	b.bind = binder.New(sock, &b.Mu, &b.St, &b.Local, cfgFn)
	return b
}

// BindAsync transitions IDLE -> BINDING (spec §4.1 bind legality).
func (b *Base) BindAsync(ep host.Endpoint) bool {
	return b.bind.BindAsync(ep)
}

// UnbindAsync transitions BOUND -> UNBINDING. Rejected while RUNNING —
// the caller must StopAsync first (spec §4.1 unbind legality: only BOUND).
func (b *Base) UnbindAsync() bool {
	return b.bind.UnbindAsync()
}

// StartAsync transitions BOUND -> RUNNING and begins the accept loop
// (spec §4.9 "startAsync: state BOUND -> RUNNING, start accepter").
func (b *Base) StartAsync() bool {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedServerStart) {
		b.Mu.Unlock()
		config.Warn("startAsync rejected: server in state %s", b.St)
		return false
	}
	b.St = state.RUNNING
	b.Mu.Unlock()

	b.acc = accepter.New(b.Sock)
	b.acc.StartAsync()
	return true
}

// StopAsync clears the accepter's executing flag; it exits at its next
// Accept boundary and the owner's Update restores BOUND (spec §4.9
// "stopAsync: clears accepter's executing flag ... state goes to BOUND").
func (b *Base) StopAsync() bool {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedServerStop) || b.acc == nil {
		b.Mu.Unlock()
		config.Warn("stopAsync rejected: server in state %s", b.St)
		return false
	}
	b.Mu.Unlock()

	b.acc.StopExecuting()
	return true
}

// IsRunning reports whether the server is currently listening.
func (b *Base) IsRunning() bool {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return b.St == state.RUNNING
}

// Accepted drains children accepted since the last call, for the
// family-specific server's Update to wrap and dispatch via OnAccepted.
func (b *Base) Accepted() []platform.Socket {
	if b.acc == nil {
		return nil
	}
	return b.acc.Drain()
}

// Update drains the bind and accepter workers, firing delegate callbacks
// outside any mutex (spec §5). wrapChild lets the family-specific server
// turn a raw platform.Socket into its own child Socket type before the
// OnAccepted dispatch.
func (b *Base) Update(wrapChild func(platform.Socket) any) {
	b.updateBind()
	b.updateAccepter(wrapChild)
}

func (b *Base) updateBind() {
	switch b.bind.Update() {
	case binder.Bound:
		b.Delegate.OnBound(b.Local)
	case binder.BindFailed:
		b.Delegate.OnBindFailed()
	case binder.Unbound:
		b.Delegate.OnUnbound()
	case binder.UnbindFailed:
		b.Delegate.OnUnbindFailed()
	}
}

func (b *Base) updateAccepter(wrapChild func(platform.Socket) any) {
	for _, child := range b.Accepted() {
		b.Delegate.OnAccepted(wrapChild(child))
	}

	if b.acc == nil {
		return
	}
	result := b.acc.Result()
	if !result.IsTerminal() {
		return
	}

	b.Mu.Lock()
	wasRunning := b.St == state.RUNNING
	b.St = state.BOUND
	b.Mu.Unlock()
	b.acc = nil

	if !wasRunning {
		return
	}
	if result == state.FINISHED {
		b.Delegate.OnStopped()
	} else {
		config.Warn("accept loop failed, server stopped")
		b.Delegate.OnStartFailed()
	}
}

// Close stops and joins the accepter and any in-flight bind/unbind
// worker before closing the underlying listening socket (spec §8
// "destruction joins all workers").
func (b *Base) Close() error {
	b.bind.Close()

	b.Mu.Lock()
	acc := b.acc
	b.acc = nil
	b.Mu.Unlock()

	if acc != nil {
		acc.StopExecuting()
		acc.Join()
	}
	return b.Sock.Close()
}
