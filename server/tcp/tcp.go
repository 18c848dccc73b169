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

// Package tcp is the TCP realization of server.Base: a listening endpoint
// that accepts connections and wraps each one in a client/tcp.Socket for
// the owning application (spec §3 "Server", §4.9).
package tcp

import (
	"github.com/nabbar/sakit/client/tcp"
	"github.com/nabbar/sakit/delegate"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/registry"
	"github.com/nabbar/sakit/server"
)

// Server is a TCP listening endpoint.
type Server struct {
	server.Base
	reg registry.Handle

	childDelegate func(local host.Endpoint) delegate.Socket
}

// New allocates an unbound TCP server. childDelegate builds the
// delegate.Socket each accepted child is given; if nil, accepted children
// get a delegate.NopSocket (spec §4.7 Acceptor "construct a new Socket
// wrapping the accepted platform socket").
func New(d delegate.Server, childDelegate func(local host.Endpoint) delegate.Socket) *Server {
	s := &Server{childDelegate: childDelegate}
	s.Base = server.NewBase(platform.Open(platform.FamilyTCP))
	if d != nil {
		s.Delegate = d
	}
	s.reg = registry.Register(s)
	return s
}

// Update drives the bind/accept pump (spec §4.10).
func (s *Server) Update(dt float64) {
	s.Base.Update(func(child platform.Socket) any {
		var d delegate.Socket
		if s.childDelegate != nil {
			d = s.childDelegate(child.LocalEndpoint())
		}
		return tcp.FromAccepted(child, d)
	})
}

// Close stops and joins the accepter and bind worker, then unregisters
// the server from the process-wide registry (spec §4.10 "on destruction
// __unregister", spec §8 "destruction joins all workers").
func (s *Server) Close() error {
	registry.Unregister(s.reg)
	return s.Base.Close()
}
