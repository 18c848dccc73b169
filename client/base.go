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

// Package client implements the Base and the generic Socket engine from
// spec §4.3-§4.6 and §4.8: the part of a TCP or UDP endpoint that is
// common to both — state, local/remote endpoints, the owned
// platform.Socket, the sender/receiver/connector workers and the
// update(dt) pump that turns their terminal results into delegate
// callbacks. client/tcp and client/udp supply the family-specific bind/
// connect/broadcast wiring.
package client

import (
	"sync"
	"time"

	"github.com/nabbar/sakit/config"
	"github.com/nabbar/sakit/connector"
	"github.com/nabbar/sakit/delegate"
	"github.com/nabbar/sakit/host"
	"github.com/nabbar/sakit/platform"
	"github.com/nabbar/sakit/receiver"
	"github.com/nabbar/sakit/sender"
	"github.com/nabbar/sakit/state"
)

// Base is the owned state shared by every client socket kind (spec §4.8
// "Base holds the owned PlatformSocket, host, port"). It is embedded by
// family-specific sockets, never used standalone.
type Base struct {
	Mu     sync.Mutex
	St     state.State
	Local  host.Endpoint
	Remote host.Endpoint

	Sock platform.Socket

	snd *sender.Sender
	rcv *receiver.Receiver
	con *connector.Connector

	udp bool

	Delegate delegate.Socket
	udpDel   delegate.UDP
}

// NewBase allocates a Base around an unconnected, unbound sock.
func NewBase(sock platform.Socket, udp bool) Base {
	return Base{Sock: sock, St: state.IDLE, udp: udp, Delegate: delegate.NopSocket{}}
}

// NewBaseConnected allocates a Base around an already-connected sock, as
// produced by platform.Socket.Accept (spec §4.7 Acceptor).
func NewBaseConnected(sock platform.Socket) Base {
	b := Base{Sock: sock, St: state.CONNECTED, Delegate: delegate.NopSocket{}}
	b.Local = sock.LocalEndpoint()
	b.Remote = sock.RemoteEndpoint()
	return b
}

func cfgFn() (time.Duration, time.Duration) {
	c := config.Current()
	return c.ConnectionTimeout.Time(), c.RetryFrequency.Time()
}

// ConnectAsync dials remote, transitioning IDLE -> CONNECTING (spec §4.1
// connect legality). local may be the zero Endpoint.
func (b *Base) ConnectAsync(remote, local host.Endpoint) bool {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedConnect) {
		b.Mu.Unlock()
		config.Warn("connect rejected: socket in state %s", b.St)
		return false
	}
	b.St = state.CONNECTING
	b.Remote = remote
	con := connector.New(b.Sock, remote, local, cfgFn)
	b.con = con
	b.Mu.Unlock()

	con.StartAsync()
	return true
}

// SendAsync starts the sender worker with up to n bytes of data (spec
// §4.3). It is rejected while a send is already in flight, and from any
// state that has no SENDING composite (only CONNECTED, BOUND and
// RECEIVING accept it).
func (b *Base) SendAsync(data []byte, n int) bool {
	b.Mu.Lock()
	if state.IsSending(b.St) {
		b.Mu.Unlock()
		config.Warn("sendAsync rejected: sender already running")
		return false
	}
	next := state.AddSending(b.St)
	if next == b.St {
		b.Mu.Unlock()
		config.Warn("sendAsync rejected: socket in state %s", b.St)
		return false
	}
	b.St = next
	if b.snd == nil {
		c := config.Current()
		b.snd = sender.New(b.Sock, c.RetryTimeout.Time(), 0)
	}
	snd := b.snd
	b.Mu.Unlock()

	snd.SendAsync(data, n)
	return true
}

// SendSync writes up to n bytes synchronously, gated by
// state.AllowedSendSync (spec §4.1 "send (sync)"). It does not start the
// async sender worker and does not flip the SENDING bit.
func (b *Base) SendSync(data []byte, n int) (int, bool) {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedSendSync) {
		b.Mu.Unlock()
		config.Warn("send rejected: socket in state %s", b.St)
		return 0, false
	}
	b.Mu.Unlock()

	if n > len(data) || n <= 0 {
		n = len(data)
	}
	return b.Sock.Send(data, n)
}

// StartReceiveAsync begins the receiver worker (spec §4.1
// startReceiveAsync, §4.4/§4.5). maxPackages is only meaningful for UDP.
func (b *Base) StartReceiveAsync(maxPackages int) bool {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedStartReceive) || state.IsReceiving(b.St) {
		b.Mu.Unlock()
		config.Warn("startReceiveAsync rejected: socket in state %s", b.St)
		return false
	}
	b.St = state.AddReceiving(b.St)
	rcv := receiver.New(b.Sock, b.udp, maxPackages)
	b.rcv = rcv
	b.Mu.Unlock()

	rcv.StartAsync()
	return true
}

// StopReceiveAsync requests the receiver worker stop at its next
// platform-call boundary (spec §4.4 stopReceiveAsync).
func (b *Base) StopReceiveAsync() bool {
	b.Mu.Lock()
	if !state.IsReceiving(b.St) || b.rcv == nil {
		b.Mu.Unlock()
		config.Warn("stopReceiveAsync rejected: receiver not running")
		return false
	}
	rcv := b.rcv
	b.Mu.Unlock()

	rcv.Stop()
	return true
}

// DisconnectAsync closes the socket, transitioning to DISCONNECTING
// (spec §4.1 disconnect legality).
func (b *Base) DisconnectAsync() bool {
	b.Mu.Lock()
	if !state.Check(b.St, state.AllowedDisconnect) {
		b.Mu.Unlock()
		config.Warn("disconnect rejected: socket in state %s", b.St)
		return false
	}
	b.St = state.DISCONNECTING
	snd := b.snd
	rcv := b.rcv
	b.Mu.Unlock()

	if snd != nil {
		snd.Stop()
	}
	if rcv != nil {
		rcv.Stop()
	}
	err := b.Sock.Disconnect()

	b.Mu.Lock()
	b.St = state.IDLE
	b.Mu.Unlock()

	if err != nil {
		b.Delegate.OnDisconnectFailed()
	} else {
		b.Delegate.OnDisconnected(b.Remote)
	}
	return true
}

// SetUDPDelegate wires in the UDP-capability delegate so updateReceiver
// can route inbound datagrams through OnReceivedFrom instead of the
// stream-oriented OnReceived (spec §6.2 "UDP delegate").
func (b *Base) SetUDPDelegate(d delegate.UDP) {
	b.udpDel = d
	b.Delegate = d
}

// IsConnected reports whether the underlying platform socket is
// connected (supplemented query method, original_source Socket.cpp).
func (b *Base) IsConnected() bool { return b.Sock.IsConnected() }

// IsSending reports whether the sender worker is active (supplemented
// query method, original_source Socket.cpp IsSending).
func (b *Base) IsSending() bool {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return state.IsSending(b.St)
}

// IsReceiving reports whether the receiver worker is active
// (original_source Socket.cpp IsReceiving).
func (b *Base) IsReceiving() bool {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return state.IsReceiving(b.St)
}

// Update drains the connector, sender and receiver workers and fires the
// matching delegate callbacks outside any mutex (spec §5). Family-
// specific sockets call this from their own Update and handle the
// broadcaster/UDP-specific delivery separately.
func (b *Base) Update() {
	b.updateConnector()
	b.updateSender()
	b.updateReceiver()
}

func (b *Base) updateConnector() {
	b.Mu.Lock()
	con := b.con
	b.Mu.Unlock()
	if con == nil {
		return
	}
	result := con.Result()
	if !result.IsTerminal() {
		return
	}

	b.Mu.Lock()
	if result == state.FINISHED {
		b.St = state.CONNECTED
		if l := b.Sock.LocalEndpoint(); !l.IsZero() {
			b.Local = l
		}
	} else {
		b.St = state.IDLE
	}
	remote := b.Remote
	b.con = nil
	b.Mu.Unlock()
	lastErr := con.LastError()

	if result == state.FINISHED {
		b.Delegate.OnConnected()
	} else {
		config.Warn("connect failed to %s: %v", remote, lastErr)
		b.Delegate.OnConnectFailed(remote)
	}
}

func (b *Base) updateSender() {
	b.Mu.Lock()
	snd := b.snd
	b.Mu.Unlock()
	if snd == nil {
		return
	}

	if n := snd.DrainSent(); n > 0 {
		b.Delegate.OnSent(n)
	}

	result := snd.Result()
	if !result.IsTerminal() {
		return
	}

	b.Mu.Lock()
	base := state.CONNECTED
	if b.udp {
		base = state.BOUND
	}
	b.St = state.RemoveSending(b.St, base)
	b.snd = nil
	b.Mu.Unlock()

	if result == state.FINISHED {
		b.Delegate.OnSendFinished()
	} else {
		config.Warn("send failed")
		b.Delegate.OnSendFailed()
	}
}

func (b *Base) updateReceiver() {
	b.Mu.Lock()
	rcv := b.rcv
	b.Mu.Unlock()
	if rcv == nil {
		return
	}

	for _, c := range rcv.Drain() {
		if b.udpDel != nil && b.udp {
			b.udpDel.OnReceivedFrom(c.From, c.Data)
		} else {
			b.Delegate.OnReceived(c.Data)
		}
	}

	result := rcv.Result()
	if !result.IsTerminal() {
		return
	}

	b.Mu.Lock()
	base := state.CONNECTED
	if b.udp {
		base = state.BOUND
	}
	b.St = state.RemoveReceiving(b.St, base)
	b.rcv = nil
	b.Mu.Unlock()

	if result == state.FINISHED {
		b.Delegate.OnReceiveFinished()
	} else {
		config.Warn("receive failed")
		b.Delegate.OnReceiveFailed()
	}
}

// Close stops and joins the sender, receiver and connector workers
// before closing the underlying platform socket. Unlike DisconnectAsync
// it is not gated by state legality: the destructor path must tear down
// from any state (spec §8 "destruction joins all workers").
func (b *Base) Close() error {
	b.Mu.Lock()
	con := b.con
	snd := b.snd
	rcv := b.rcv
	b.con, b.snd, b.rcv = nil, nil, nil
	b.Mu.Unlock()

	if con != nil {
		con.Stop()
		con.Join()
	}
	if snd != nil {
		snd.Stop()
		snd.Join()
	}
	if rcv != nil {
		rcv.Stop()
		rcv.Join()
	}
	return b.Sock.Close()
}
