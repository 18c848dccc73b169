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

package state

// Allowed-current-states sets from the legality table in spec §4.1. Each is
// consumed by Check at the call site that performs the matching operation.
var (
	AllowedBind          = Allowed{IDLE}
	AllowedUnbind        = Allowed{BOUND}
	AllowedConnect       = Allowed{IDLE}
	AllowedDisconnect    = Allowed{CONNECTED, SENDING, RECEIVING, SENDING_RECEIVING}
	AllowedSendSync      = Allowed{CONNECTED, RECEIVING}
	AllowedStartReceive  = Allowed{CONNECTED, BOUND}
	AllowedServerStart   = Allowed{BOUND}
	AllowedServerStop    = Allowed{RUNNING}
	AllowedSetDestination = Allowed{BOUND}
	AllowedMulticast     = Allowed{BOUND, SENDING, RECEIVING, SENDING_RECEIVING}
)

// IsSending reports whether current already carries the SENDING activity
// bit (SENDING or SENDING_RECEIVING) — used by sendAsync's "not already
// sending" guard (spec §4.1, invariant 2).
func IsSending(current State) bool {
	return current == SENDING || current == SENDING_RECEIVING
}

// IsReceiving reports whether current already carries the RECEIVING
// activity bit — used by startReceiveAsync's "not already receiving" guard
// (spec §4.1, invariant 3).
func IsReceiving(current State) bool {
	return current == RECEIVING || current == SENDING_RECEIVING
}

// CanSend folds the original `_checkSendStatus` check (original_source
// Socket.cpp) into the state package: legal unless the sender is already
// running.
func CanSend(senderResult State) bool {
	return senderResult != RUNNING
}

// CanStartReceive folds `_checkStartReceiveStatus`: legal unless the
// receiver is already running.
func CanStartReceive(receiverResult State) bool {
	return receiverResult != RUNNING
}

// CanStopReceive folds `_checkStopReceiveStatus`: legal unless the receiver
// is idle (nothing to stop).
func CanStopReceive(receiverResult State) bool {
	return receiverResult != IDLE
}
