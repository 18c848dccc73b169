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

// Package delegate declares the capability-interface family from spec
// §6.2 and design note §9 ("polymorphic delegates"): one narrow interface
// per endpoint kind, with Udp extending Socket rather than the source's
// downcast-based dispatch.
package delegate

import "github.com/nabbar/sakit/host"

// Socket is the delegate capability every client socket (TCP or UDP)
// invokes through, fired exclusively from the owner's update(dt) pump
// (spec §6.2, §5 "dispatched only during update(dt)").
type Socket interface {
	OnConnected()
	OnDisconnected(ep host.Endpoint)
	OnConnectFailed(ep host.Endpoint)
	OnDisconnectFailed()
	OnSent(byteCount int)
	OnSendFinished()
	OnSendFailed()
	OnReceived(data []byte)
	OnReceiveFinished()
	OnReceiveFailed()
}

// Server is the delegate capability for listening endpoints.
type Server interface {
	OnBound(ep host.Endpoint)
	OnUnbound()
	OnBindFailed()
	OnUnbindFailed()
	OnAccepted(child any)
	OnStopped()
	OnStartFailed()
}

// UDP extends Socket with the datagram-addressed receive callback,
// broadcast completion, and the bind/unbind callbacks a UdpSocket needs
// because it composes the Binder aspect exactly like Server does (spec
// §4.8, §6.2 "UDP delegate"). spec.md's §6.2 prose lists Bound/Unbound
// only under "Server delegate", but §3/§4.8 put UdpSocket on the same
// Binder aspect as Server — resolved here by giving UDP the same four
// bind-lifecycle callbacks (see DESIGN.md Open Questions).
type UDP interface {
	Socket
	OnReceivedFrom(from host.Endpoint, data []byte)
	OnBroadcastFinished()
	OnBroadcastFailed()
	OnBound(ep host.Endpoint)
	OnUnbound()
	OnBindFailed()
	OnUnbindFailed()
}

// NopSocket is a zero-value Socket delegate; embed it to implement only
// the callbacks a caller cares about.
type NopSocket struct{}

func (NopSocket) OnConnected()                  {}
func (NopSocket) OnDisconnected(host.Endpoint)  {}
func (NopSocket) OnConnectFailed(host.Endpoint) {}
func (NopSocket) OnDisconnectFailed()           {}
func (NopSocket) OnSent(int)                    {}
func (NopSocket) OnSendFinished()                {}
func (NopSocket) OnSendFailed()                 {}
func (NopSocket) OnReceived([]byte)             {}
func (NopSocket) OnReceiveFinished()            {}
func (NopSocket) OnReceiveFailed()              {}

// NopServer is a zero-value Server delegate.
type NopServer struct{}

func (NopServer) OnBound(host.Endpoint) {}
func (NopServer) OnUnbound()            {}
func (NopServer) OnBindFailed()         {}
func (NopServer) OnUnbindFailed()       {}
func (NopServer) OnAccepted(any)        {}
func (NopServer) OnStopped()            {}
func (NopServer) OnStartFailed()        {}

// NopUDP is a zero-value UDP delegate.
type NopUDP struct {
	NopSocket
}

func (NopUDP) OnReceivedFrom(host.Endpoint, []byte) {}
func (NopUDP) OnBroadcastFinished()                 {}
func (NopUDP) OnBroadcastFailed()                   {}
func (NopUDP) OnBound(host.Endpoint)                {}
func (NopUDP) OnUnbound()                           {}
func (NopUDP) OnBindFailed()                        {}
func (NopUDP) OnUnbindFailed()                      {}
