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

// Package udp realizes the "listening" half of spec §3's UdpSocket as a
// Server-shaped convenience: UDP has no accept step, so a UDP "server" is
// just a bound socket whose receiver worker is kept continuously running
// (spec §3 "RUNNING additionally denotes ... worker is actively
// processing"). It wraps client/udp.Socket rather than duplicating its
// bind/multicast/broadcast machinery.
package udp

import (
	"github.com/nabbar/sakit/client/udp"
	"github.com/nabbar/sakit/delegate"
)

// Server is a UDP endpoint operated with Start/Stop naming that mirrors
// server.Base, for callers that think of "bind + always-on receive" as a
// listening service rather than a client socket.
type Server struct {
	*udp.Socket
}

// New allocates an unbound UDP server.
func New(d delegate.UDP) *Server {
	return &Server{Socket: udp.New(d)}
}

// StartAsync begins continuously draining inbound datagrams (spec §4.1
// startReceiveAsync over a BOUND socket). maxPackages bounds datagrams
// drained per worker iteration (spec §4.5); 0 means unbounded.
func (s *Server) StartAsync(maxPackages int) bool {
	return s.StartReceiveAsync(maxPackages)
}

// StopAsync stops the receiver at its next platform-call boundary (spec
// §4.4 stopReceiveAsync).
func (s *Server) StopAsync() bool {
	return s.StopReceiveAsync()
}

// IsRunning reports whether the receiver worker is currently active.
func (s *Server) IsRunning() bool {
	return s.IsReceiving()
}
