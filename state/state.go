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

// Package state holds the lifecycle/result State lattice shared by every
// endpoint and worker, plus the legality helpers that gate transitions.
package state

// State is the tagged enumeration from spec §3: lifecycle states for
// endpoints, plus the terminal result markers used in worker result slots.
type State uint8

const (
	IDLE State = iota
	BINDING
	BOUND
	UNBINDING
	CONNECTING
	CONNECTED
	DISCONNECTING
	SENDING
	RECEIVING
	SENDING_RECEIVING
	RUNNING
	FINISHED
	FAILED
)

func (s State) String() string {
	switch s {
	case IDLE:
		return "IDLE"
	case BINDING:
		return "BINDING"
	case BOUND:
		return "BOUND"
	case UNBINDING:
		return "UNBINDING"
	case CONNECTING:
		return "CONNECTING"
	case CONNECTED:
		return "CONNECTED"
	case DISCONNECTING:
		return "DISCONNECTING"
	case SENDING:
		return "SENDING"
	case RECEIVING:
		return "RECEIVING"
	case SENDING_RECEIVING:
		return "SENDING_RECEIVING"
	case RUNNING:
		return "RUNNING"
	case FINISHED:
		return "FINISHED"
	case FAILED:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether s is one of the worker result markers.
func (s State) IsTerminal() bool {
	return s == FINISHED || s == FAILED
}

// Allowed is the allowed-current-states set consumed by Check.
type Allowed []State

// Check is the `check_state(current, allowed, op_name)` helper from spec
// §4.1: it returns true iff current is a member of allowed. It never logs
// itself — the caller decides how to surface a rejection (spec invariant 5
// says only a warning log, no other side effect).
func Check(current State, allowed Allowed) bool {
	for _, a := range allowed {
		if a == current {
			return true
		}
	}
	return false
}

// AddSending composes the SENDING activity bit onto current, implementing
// the "adds SENDING bit" transition of spec §4.1. Callers must have already
// verified the transition is legal via Check; AddSending returns current
// unchanged for any base it doesn't recognize.
func AddSending(current State) State {
	switch current {
	case CONNECTED, BOUND:
		return SENDING
	case RECEIVING:
		return SENDING_RECEIVING
	default:
		return current
	}
}

// RemoveSending reverses AddSending, restoring base (CONNECTED for TCP
// sockets, BOUND for UDP sockets) once a send completes or fails.
func RemoveSending(current, base State) State {
	switch current {
	case SENDING:
		return base
	case SENDING_RECEIVING:
		return RECEIVING
	default:
		return current
	}
}

// AddReceiving composes the RECEIVING activity bit onto current.
func AddReceiving(current State) State {
	switch current {
	case CONNECTED, BOUND:
		return RECEIVING
	case SENDING:
		return SENDING_RECEIVING
	default:
		return current
	}
}

// RemoveReceiving reverses AddReceiving, restoring base once a receive
// completes, fails, or is stopped.
func RemoveReceiving(current, base State) State {
	switch current {
	case RECEIVING:
		return base
	case SENDING_RECEIVING:
		return SENDING
	default:
		return current
	}
}
