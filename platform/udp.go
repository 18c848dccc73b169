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
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/nabbar/sakit/host"
)

type udpSocket struct {
	mu sync.Mutex

	network        string
	v6             bool
	conn           *net.UDPConn
	pc4            *ipv4.PacketConn
	pc6            *ipv6.PacketConn
	local          host.Endpoint
	remote         host.Endpoint
	destination    *host.Endpoint
	connectionLess bool
	joins          map[string]bool // "iface|group" -> joined
}

func newUDPSocket(network string) *udpSocket {
	return &udpSocket{network: network, v6: network == "udp6", connectionLess: true, joins: map[string]bool{}}
}

func (s *udpSocket) wrap(conn *net.UDPConn) {
	if s.v6 {
		s.pc6 = ipv6.NewPacketConn(conn)
		s.pc4 = nil
	} else {
		s.pc4 = ipv4.NewPacketConn(conn)
		s.pc6 = nil
	}
}

func (s *udpSocket) Bind(ep host.Endpoint) (host.Endpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lc := net.ListenConfig{Control: reuseportControl}
	pc, err := lc.ListenPacket(context.Background(), s.network, ep.String())
	if err != nil {
		return host.Endpoint{}, err
	}
	conn := pc.(*net.UDPConn)
	s.conn = conn
	s.wrap(conn)

	local, err := host.FromAddr(conn.LocalAddr())
	if err != nil {
		_ = conn.Close()
		return host.Endpoint{}, err
	}
	s.local = local
	return local, nil
}

func (s *udpSocket) Listen() error { return nil }

func (s *udpSocket) Accept() (Socket, bool, bool) {
	return nil, false, false
}

func (s *udpSocket) Connect(ctx context.Context, remote, local host.Endpoint, timeout, retryFrequency time.Duration) (bool, error) {
	addr, err := net.ResolveUDPAddr(s.network, remote.String())
	if err != nil {
		return false, err
	}

	var laddr *net.UDPAddr
	if !local.IsZero() {
		laddr, _ = net.ResolveUDPAddr(s.network, local.String())
	}

	conn, err := net.DialUDP(s.network, laddr, addr)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.conn = conn
	s.wrap(conn)
	s.remote = remote
	if l, e := host.FromAddr(conn.LocalAddr()); e == nil {
		s.local = l
	}
	s.mu.Unlock()
	return true, nil
}

func (s *udpSocket) Send(data []byte, maxBytes int) (int, bool) {
	s.mu.Lock()
	conn := s.conn
	dest := s.destination
	s.mu.Unlock()

	if conn == nil {
		return 0, false
	}
	if maxBytes > len(data) {
		maxBytes = len(data)
	}
	payload := data[:maxBytes]

	var (
		n   int
		err error
	)
	if dest != nil {
		addr, e := net.ResolveUDPAddr(s.network, dest.String())
		if e != nil {
			return 0, false
		}
		n, err = conn.WriteToUDP(payload, addr)
	} else {
		n, err = conn.Write(payload)
	}
	return n, err == nil
}

func (s *udpSocket) Receive(buf []byte) (int, bool, bool) {
	n, _, ok, timedOut := s.ReceiveFrom(buf)
	return n, ok, timedOut
}

func (s *udpSocket) ReceiveFrom(buf []byte) (int, host.Endpoint, bool, bool) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return 0, host.Endpoint{}, false, false
	}

	_ = conn.SetReadDeadline(time.Now().Add(pollTimeout))
	n, addr, err := conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, host.Endpoint{}, true, true
		}
		return n, host.Endpoint{}, false, false
	}
	ep, _ := host.FromAddr(addr)
	return n, ep, true, false
}

func (s *udpSocket) Broadcast(adapter NetworkAdapter, port uint16, data []byte) bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil || adapter.Broadcast.IsAny() {
		return false
	}
	addr, err := net.ResolveUDPAddr(s.network, fmt.Sprintf("%s:%d", adapter.Broadcast, port))
	if err != nil {
		return false
	}
	_, err = conn.WriteToUDP(data, addr)
	return err == nil
}

func (s *udpSocket) JoinMulticastGroup(iface, group host.Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pc4 == nil && s.pc6 == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	ifi, err := interfaceByHost(iface)
	if err != nil {
		return err
	}
	gaddr := &net.UDPAddr{IP: net.ParseIP(string(group))}
	if s.v6 {
		err = s.pc6.JoinGroup(ifi, gaddr)
	} else {
		err = s.pc4.JoinGroup(ifi, gaddr)
	}
	if err != nil {
		return err
	}
	s.joins[joinKey(iface, group)] = true
	return nil
}

func (s *udpSocket) LeaveMulticastGroup(iface, group host.Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := joinKey(iface, group)
	if !s.joins[key] {
		return ErrorMulticastNotJoined.Error(nil)
	}
	if s.pc4 == nil && s.pc6 == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	ifi, err := interfaceByHost(iface)
	if err != nil {
		return err
	}
	gaddr := &net.UDPAddr{IP: net.ParseIP(string(group))}
	if s.v6 {
		err = s.pc6.LeaveGroup(ifi, gaddr)
	} else {
		err = s.pc4.LeaveGroup(ifi, gaddr)
	}
	if err != nil {
		return err
	}
	delete(s.joins, key)
	return nil
}

func (s *udpSocket) SetMulticastInterface(iface host.Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pc4 == nil && s.pc6 == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	ifi, err := interfaceByHost(iface)
	if err != nil {
		return err
	}
	if s.v6 {
		return s.pc6.SetMulticastInterface(ifi)
	}
	return s.pc4.SetMulticastInterface(ifi)
}

func (s *udpSocket) SetMulticastTTL(ttl int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pc4 == nil && s.pc6 == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	if s.v6 {
		return s.pc6.SetMulticastHopLimit(ttl)
	}
	return s.pc4.SetMulticastTTL(ttl)
}

func (s *udpSocket) SetMulticastLoopback(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pc4 == nil && s.pc6 == nil {
		return ErrorSocketNotBound.Error(nil)
	}
	if s.v6 {
		return s.pc6.SetMulticastLoopback(on)
	}
	return s.pc4.SetMulticastLoopback(on)
}

func (s *udpSocket) SetConnectionLess(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectionLess = on
}

func (s *udpSocket) SetServerMode(on bool) {}

func (s *udpSocket) SetRemoteAddress(ep host.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remote = ep
}

func (s *udpSocket) SetDestination(ep *host.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destination = ep
}

func (s *udpSocket) Destination() *host.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination
}

func (s *udpSocket) Disconnect() error {
	return s.Close()
}

func (s *udpSocket) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && !s.remote.IsZero()
}

func (s *udpSocket) LocalEndpoint() host.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

func (s *udpSocket) RemoteEndpoint() host.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

func (s *udpSocket) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.pc4 = nil
	s.pc6 = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

func joinKey(iface, group host.Host) string {
	return string(iface) + "|" + string(group)
}

func interfaceByHost(iface host.Host) (*net.Interface, error) {
	if iface.IsAny() {
		return nil, nil
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipNetHost(a) == string(iface) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, fmt.Errorf("platform: no interface bound to %s", iface)
}

func ipNetHost(a net.Addr) string {
	switch v := a.(type) {
	case *net.IPNet:
		return v.IP.String()
	case *net.IPAddr:
		return v.IP.String()
	default:
		return ""
	}
}
