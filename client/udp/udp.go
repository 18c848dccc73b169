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

// Package udp is the UDP realization of client.Base: a bindable,
// connectionless socket adding the Binder aspect (spec §4.8, §9), a
// BroadcasterThread (spec §4.6), a settable "destination" remote endpoint,
// and multicast group membership (spec §3 UdpSocket, §4.1 multicast rows).
package udp

import (
	"time"

	"github.com/nabbar/sakit/binder"
	"github.com/nabbar/sakit/broadcaster"
	"github.com/nabbar/sakit/client"
	"github.com/nabbar/sakit/config"
	"github.com/nabbar/sakit/delegate"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/registry"
	"github.com/nabbar/sakit/state"
)

// joinKey mirrors platform.joinKey's "iface|group" shape so the two
// membership ledgers (this package's idempotence contract, the platform
// socket's actual IGMP state) agree on identity.
func joinKey(iface, group host.Host) string {
	return string(iface) + "|" + string(group)
}

// Socket is a UDP endpoint: bindable, optionally "connected" to a remote
// via Connect (a destination convenience, not a TCP-style handshake),
// broadcastable, and capable of joining multicast groups.
type Socket struct {
	client.Base
	reg registry.Handle

	bind *binder.Aspect
	bcst *broadcaster.Broadcaster

	udpDel delegate.UDP

	joins map[string]struct{}
}

// New allocates an unbound UDP socket.
func New(d delegate.UDP) *Socket {
	s := &Socket{joins: map[string]struct{}{}}
	s.Base = client.NewBase(platform.Open(platform.FamilyUDP), true)
	if d != nil {
		s.udpDel = d
		s.SetUDPDelegate(d)
	} else {
		s.udpDel = delegate.NopUDP{}
		s.SetUDPDelegate(s.udpDel)
	}
	s.bind = binder.New(s.Sock, &s.Mu, &s.St, &s.Local, cfgFn)
	s.reg = registry.Register(s)
	return s
}

func cfgFn() (time.Duration, time.Duration) {
	c := config.Current()
	return c.ConnectionTimeout.Time(), c.RetryFrequency.Time()
}

// BindAsync transitions IDLE -> BINDING (spec §4.1 bind legality).
func (s *Socket) BindAsync(ep host.Endpoint) bool {
	return s.bind.BindAsync(ep)
}

// UnbindAsync transitions BOUND -> UNBINDING.
func (s *Socket) UnbindAsync() bool {
	return s.bind.UnbindAsync()
}

// SetDestination sets (or clears, with the zero Endpoint) the implicit
// remote used by SendAsync when the socket is not itself "connected" (spec
// §4.1 "setDestination (UDP) | BOUND | BOUND" — legal only while bound,
// and a no-op transition). Calling it twice with the same endpoint is a
// no-op on the socket (spec §8 round-trip property).
func (s *Socket) SetDestination(ep host.Endpoint) bool {
	s.Mu.Lock()
	if !state.Check(s.St, state.AllowedSetDestination) {
		s.Mu.Unlock()
		config.Warn("setDestination rejected: socket in state %s", s.St)
		return false
	}
	s.Mu.Unlock()

	if ep.IsZero() {
		s.Sock.SetDestination(nil)
	} else {
		cp := ep
		s.Sock.SetDestination(&cp)
	}
	return true
}

// SendAsyncN submits up to n bytes of data for delivery to the current
// destination (spec §4.3, original_source Socket.cpp `_sendAsync(stream,
// size)`).
func (s *Socket) SendAsyncN(data []byte, n int) bool {
	return s.Base.SendAsync(data, n)
}

// SendAsync submits the whole of data for delivery to the current
// destination. Sugar over SendAsyncN, mirroring the original's flat-buffer
// `sendAsync` overload (original_source Socket.cpp `_sendAsync(chstr)`).
func (s *Socket) SendAsync(data []byte) bool {
	return s.SendAsyncN(data, len(data))
}

// StartReceiveAsync begins draining inbound datagrams. maxPackages bounds
// the number read per worker iteration before yielding (spec §4.5); 0 or
// negative means unbounded.
func (s *Socket) StartReceiveAsync(maxPackages int) bool {
	return s.Base.StartReceiveAsync(maxPackages)
}

// BroadcastAsync replays payload to every known network adapter's
// broadcast address on port (spec §4.6). It runs concurrently with
// send/receive — it does not claim the SENDING/RECEIVING activity bits.
func (s *Socket) BroadcastAsync(payload []byte, port uint16) bool {
	if s.bcst == nil {
		c := config.Current()
		s.bcst = broadcaster.New(s.Sock, c.RetryTimeout.Time())
	}
	s.bcst.BroadcastAsync(payload, port, platform.GetNetworkAdapters())
	return true
}

// JoinMulticastGroup joins (iface, group) on the underlying socket.
// Idempotent: a second join of the same pair still returns true without
// re-issuing the platform call (spec §8 "join+leave ... is idempotent",
// scenario 5 "second call returns true").
func (s *Socket) JoinMulticastGroup(iface, group host.Host) bool {
	s.Mu.Lock()
	if !state.Check(s.St, state.AllowedMulticast) {
		s.Mu.Unlock()
		config.Warn("joinMulticastGroup rejected: socket in state %s", s.St)
		return false
	}
	s.Mu.Unlock()

	key := joinKey(iface, group)
	if _, ok := s.joins[key]; ok {
		return true
	}
	if err := s.Sock.JoinMulticastGroup(iface, group); err != nil {
		return false
	}
	s.joins[key] = struct{}{}
	return true
}

// LeaveMulticastGroup leaves (iface, group). Returns false, with a warning
// logged, if the pair was never joined (spec scenario 5 "second call
// returns false: not assigned").
func (s *Socket) LeaveMulticastGroup(iface, group host.Host) bool {
	s.Mu.Lock()
	if !state.Check(s.St, state.AllowedMulticast) {
		s.Mu.Unlock()
		config.Warn("leaveMulticastGroup rejected: socket in state %s", s.St)
		return false
	}
	s.Mu.Unlock()

	key := joinKey(iface, group)
	if _, ok := s.joins[key]; !ok {
		config.Warn("leaveMulticastGroup rejected: %s not joined", key)
		return false
	}
	if err := s.Sock.LeaveMulticastGroup(iface, group); err != nil {
		return false
	}
	delete(s.joins, key)
	return true
}

// SetMulticastInterface, SetMulticastTTL and SetMulticastLoopback forward
// directly to the platform socket; they carry no state-machine legality of
// their own beyond requiring a bound socket (enforced by the platform
// layer itself).
func (s *Socket) SetMulticastInterface(iface host.Host) bool {
	return s.Sock.SetMulticastInterface(iface) == nil
}

func (s *Socket) SetMulticastTTL(ttl int) bool {
	return s.Sock.SetMulticastTTL(ttl) == nil
}

func (s *Socket) SetMulticastLoopback(on bool) bool {
	return s.Sock.SetMulticastLoopback(on) == nil
}

// Update drives the bind/send/receive/broadcast pump (spec §4.10).
func (s *Socket) Update(dt float64) {
	s.Base.Update()
	s.updateBind()
	s.updateBroadcast()
}

func (s *Socket) updateBind() {
	switch s.bind.Update() {
	case binder.Bound:
		s.udpDel.OnBound(s.Local)
	case binder.BindFailed:
		s.udpDel.OnBindFailed()
	case binder.Unbound:
		s.udpDel.OnUnbound()
	case binder.UnbindFailed:
		s.udpDel.OnUnbindFailed()
	}
}

func (s *Socket) updateBroadcast() {
	if s.bcst == nil {
		return
	}
	result := s.bcst.Result()
	if !result.IsTerminal() {
		return
	}
	s.bcst = nil
	if result == state.FINISHED {
		s.udpDel.OnBroadcastFinished()
	} else {
		config.Warn("broadcast failed")
		s.udpDel.OnBroadcastFailed()
	}
}

// Close tears down the socket and unregisters it from the process-wide
// registry. It stops and joins the broadcaster and bind/unbind workers
// plus every worker owned by the embedded Base before returning (spec §8
// "destruction joins all workers").
func (s *Socket) Close() error {
	registry.Unregister(s.reg)
	s.bind.Close()
	if s.bcst != nil {
		s.bcst.Stop()
		s.bcst.Join()
		s.bcst = nil
	}
	return s.Base.Close()
}
