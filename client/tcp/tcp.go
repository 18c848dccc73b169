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

// Package tcp is the TCP realization of client.Base: a connecting
// stream socket with no bind/broadcast/multicast surface (spec §4.3,
// §4.4).
package tcp

import (
	"github.com/nabbar/sakit/client"
	"github.com/nabbar/sakit/delegate"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/registry"
)

// Socket is a TCP client (or accepted child) endpoint.
type Socket struct {
	client.Base
	reg registry.Handle
}

// New allocates an unconnected TCP socket using IPv4/IPv6 as resolved by
// the OS (platform.FamilyTCP).
func New(d delegate.Socket) *Socket {
	s := &Socket{}
	s.Base = client.NewBase(platform.Open(platform.FamilyTCP), false)
	if d != nil {
		s.Delegate = d
	}
	s.reg = registry.Register(s)
	return s
}

// FromAccepted wraps an already-connected platform.Socket, as produced
// by accepter.Accepter.Drain (spec §4.7 "construct a new Socket wrapping
// the accepted platform socket").
func FromAccepted(sock platform.Socket, d delegate.Socket) *Socket {
	s := &Socket{}
	s.Base = client.NewBaseConnected(sock)
	if d != nil {
		s.Delegate = d
	}
	s.reg = registry.Register(s)
	return s
}

// Connect dials remote; local may be the zero host.Endpoint.
func (s *Socket) Connect(remote host.Endpoint) bool {
	return s.ConnectAsync(remote, host.Endpoint{})
}

// SendAsyncN submits up to n bytes of data for asynchronous delivery
// (original_source Socket.cpp `_sendAsync(stream, size)`).
func (s *Socket) SendAsyncN(data []byte, n int) bool {
	return s.Base.SendAsync(data, n)
}

// SendAsync submits the whole of data for asynchronous delivery. Sugar over
// SendAsyncN, mirroring the original's flat-buffer `sendAsync` overload
// (original_source Socket.cpp `_sendAsync(chstr)`).
func (s *Socket) SendAsync(data []byte) bool {
	return s.SendAsyncN(data, len(data))
}

// StartReceiveAsync begins draining inbound stream data.
func (s *Socket) StartReceiveAsync() bool {
	return s.Base.StartReceiveAsync(0)
}

// Update drives the connect/send/receive pump (spec §4.10, called from
// the process-wide registry.Update).
func (s *Socket) Update(dt float64) {
	s.Base.Update()
}

// Close tears down the socket and unregisters it from the process-wide
// registry (spec §4.10 "on destruction __unregister"). It stops and
// joins every owned worker before returning (spec §8 "destruction joins
// all workers").
func (s *Socket) Close() error {
	registry.Unregister(s.reg)
	return s.Base.Close()
}
