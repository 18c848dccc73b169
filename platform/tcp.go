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

package platform

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/nabbar/sakit/host"
)

type tcpSocket struct {
	mu sync.Mutex

	network    string
	conn       net.Conn
	ln         net.Listener
	local      host.Endpoint
	remote     host.Endpoint
	serverMode bool
}

func newTCPSocket(network string) *tcpSocket {
	return &tcpSocket{network: network}
}

func (s *tcpSocket) Bind(ep host.Endpoint) (host.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc := net.ListenConfig{Control: reuseportControl}
	ln, err := lc.Listen(context.Background(), s.network, ep.String())
	if err != nil {
		return host.Endpoint{}, err
	}
	s.ln = ln
	local, err := host.FromAddr(ln.Addr())
	if err != nil {
		_ = ln.Close()
		return host.Endpoint{}, err
	}
	s.local = local
	return local, nil
}

func (s *tcpSocket) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	return nil
}

func (s *tcpSocket) Accept() (Socket, bool, bool) {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln == nil {
		return nil, false, false
	}

	if tl, ok := ln.(*net.TCPListener); ok {
		_ = tl.SetDeadline(time.Now().Add(pollTimeout))
	}

	conn, err := ln.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, true, true
		}
		return nil, false, false
	}

	child := newTCPSocket(s.network)
	child.conn = conn
	if local, e := host.FromAddr(conn.LocalAddr()); e == nil {
		child.local = local
	}
	if remote, e := host.FromAddr(conn.RemoteAddr()); e == nil {
		child.remote = remote
	}
	return child, true, false
}

func (s *tcpSocket) Connect(ctx context.Context, remote, local host.Endpoint, timeout, retryFrequency time.Duration) (bool, error) {
	d := net.Dialer{Timeout: timeout}
	if !local.IsZero() {
		if addr, err := net.ResolveTCPAddr(s.network, local.String()); err == nil {
			d.LocalAddr = addr
		}
	}

	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		conn, err := d.DialContext(ctx, s.network, remote.String())
		if err == nil {
			s.mu.Lock()
			s.conn = conn
			s.remote = remote
			if l, e := host.FromAddr(conn.LocalAddr()); e == nil {
				s.local = l
			}
			s.mu.Unlock()
			return true, nil
		}
		lastErr = err

		if time.Now().After(deadline) {
			return false, lastErr
		}
		time.Sleep(retryFrequency)
	}
}

func (s *tcpSocket) Send(data []byte, maxBytes int) (int, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, false
	}
	if maxBytes > len(data) {
		maxBytes = len(data)
	}
	n, err := conn.Write(data[:maxBytes])
	return n, err == nil
}

func (s *tcpSocket) Receive(buf []byte) (int, bool, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, false, false
	}

	_ = conn.SetReadDeadline(time.Now().Add(pollTimeout))
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, true, true
		}
		return n, false, false
	}
	return n, true, false
}

func (s *tcpSocket) ReceiveFrom(buf []byte) (int, host.Endpoint, bool, bool) {
	n, ok, timedOut := s.Receive(buf)
	return n, s.RemoteEndpoint(), ok, timedOut
}

func (s *tcpSocket) Broadcast(adapter NetworkAdapter, port uint16, data []byte) bool {
	return false
}

func (s *tcpSocket) JoinMulticastGroup(iface, group host.Host) error {
	return ErrorMulticastUnsupported.Error(nil)
}

func (s *tcpSocket) LeaveMulticastGroup(iface, group host.Host) error {
	return ErrorMulticastUnsupported.Error(nil)
}

func (s *tcpSocket) SetMulticastInterface(iface host.Host) error {
	return ErrorMulticastUnsupported.Error(nil)
}

func (s *tcpSocket) SetMulticastTTL(ttl int) error {
	return ErrorMulticastUnsupported.Error(nil)
}

func (s *tcpSocket) SetMulticastLoopback(on bool) error {
	return ErrorMulticastUnsupported.Error(nil)
}

func (s *tcpSocket) SetConnectionLess(on bool) {}

func (s *tcpSocket) SetServerMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverMode = on
}

func (s *tcpSocket) SetRemoteAddress(ep host.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = ep
}

func (s *tcpSocket) SetDestination(ep *host.Endpoint) {}

func (s *tcpSocket) Destination() *host.Endpoint { return nil }

func (s *tcpSocket) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (s *tcpSocket) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *tcpSocket) LocalEndpoint() host.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

func (s *tcpSocket) RemoteEndpoint() host.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

func (s *tcpSocket) Close() error {
	s.mu.Lock()
	conn, ln := s.conn, s.ln
	s.conn, s.ln = nil, nil
	s.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if ln != nil {
		if e := ln.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
