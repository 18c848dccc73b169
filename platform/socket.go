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

// Package platform is the external collaborator from spec §6.1: an opaque,
// blocking socket primitive (bind/listen/accept/connect/send/recv/
// broadcast/multicast) on top of which the state-machine/worker-thread
// engine is built. It is explicitly out of the "hard engineering" budget
// (spec §1) — a thin, net-backed realization of the narrow operation set
// the rest of the library treats as given.
package platform

import (
	"context"
	"time"

	"github.com/nabbar/sakit/host"
)

// Socket is the narrow blocking primitive consumed by the worker family
// (spec §6.1). All operations are blocking and report success as a bool,
// mirroring the original C++ PlatformSocket contract; the error is kept
// alongside for logging, never for control flow decisions by callers.
type Socket interface {
	// Bind assigns the local endpoint. For TCP this also starts listening
	// (net.Listen does both atomically); Listen is then a legality no-op.
	Bind(ep host.Endpoint) (host.Endpoint, error)
	// Listen marks a bound TCP socket ready to accept. A no-op success for
	// sockets already listening as a side effect of Bind.
	Listen() error
	// Accept blocks (bounded by an internal poll deadline so the caller's
	// executing flag gets rechecked, mirroring Receive) for the next
	// incoming connection on a listening TCP socket, returning a connected
	// child Socket.
	Accept() (child Socket, ok bool, timedOut bool)
	// Connect dials the remote endpoint. A TCP socket retries every
	// retryFrequency until timeout elapses, then returns false with the
	// last dial error; a UDP socket makes a single attempt.
	Connect(ctx context.Context, remote, local host.Endpoint, timeout, retryFrequency time.Duration) (bool, error)

	// Send writes up to maxBytes of data, returning the bytes actually
	// written in one syscall (partial writes are not errors, spec §7).
	Send(data []byte, maxBytes int) (sent int, ok bool)
	// Receive blocks (bounded by an internal poll deadline so the caller's
	// running flag gets rechecked) for the next chunk of stream data.
	Receive(buf []byte) (n int, ok bool, timedOut bool)
	// ReceiveFrom is the UDP counterpart of Receive: it also reports the
	// datagram's source endpoint.
	ReceiveFrom(buf []byte) (n int, from host.Endpoint, ok bool, timedOut bool)
	// Broadcast sends data to adapter's broadcast address on port.
	Broadcast(adapter NetworkAdapter, port uint16, data []byte) bool

	JoinMulticastGroup(iface, group host.Host) error
	LeaveMulticastGroup(iface, group host.Host) error
	SetMulticastInterface(iface host.Host) error
	SetMulticastTTL(ttl int) error
	SetMulticastLoopback(on bool) error

	SetConnectionLess(on bool)
	SetServerMode(on bool)
	SetRemoteAddress(ep host.Endpoint)
	SetDestination(ep *host.Endpoint)
	Destination() *host.Endpoint

	Disconnect() error
	IsConnected() bool

	LocalEndpoint() host.Endpoint
	RemoteEndpoint() host.Endpoint

	Close() error
}

// Family is the address family / protocol pairing used to Open a Socket.
type Family uint8

const (
	FamilyTCP Family = iota
	FamilyTCP4
	FamilyTCP6
	FamilyUDP
	FamilyUDP4
	FamilyUDP6
)

func (f Family) network() string {
	switch f {
	case FamilyTCP:
		return "tcp"
	case FamilyTCP4:
		return "tcp4"
	case FamilyTCP6:
		return "tcp6"
	case FamilyUDP:
		return "udp"
	case FamilyUDP4:
		return "udp4"
	case FamilyUDP6:
		return "udp6"
	default:
		return "tcp"
	}
}

func (f Family) isUDP() bool {
	return f == FamilyUDP || f == FamilyUDP4 || f == FamilyUDP6
}

// Open allocates a new, unbound Socket for the given family (spec §6.1
// `open(family, type)`).
func Open(f Family) Socket {
	if f.isUDP() {
		return newUDPSocket(f.network())
	}
	return newTCPSocket(f.network())
}

// pollTimeout bounds every blocking Receive/ReceiveFrom call so a worker's
// running flag is rechecked at a bounded cadence even with no traffic,
// matching spec §5's "suspension points ... bounded by retryFrequency".
const pollTimeout = 250 * time.Millisecond
