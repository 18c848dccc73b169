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

// Package host holds the Host (spec's Ip) and Endpoint value types: an
// immutable address plus the (host, port) pair every endpoint binds,
// connects, or receives from.
package host

import (
	"fmt"
	"net"
)

// Any is the sentinel meaning "unspecified" (spec §3, Host/Ip ANY).
const Any = ""

// Host is an IPv4/IPv6 address in string form. It is a plain value type:
// copy it freely, there is no owned resource behind it.
type Host string

// IsAny reports whether h is the ANY sentinel.
func (h Host) IsAny() bool {
	return h == Any
}

func (h Host) String() string {
	if h.IsAny() {
		return "0.0.0.0"
	}
	return string(h)
}

// ParseHost validates s as an IP literal or hostname, returning the Host
// value form. An empty string parses to the Any sentinel.
func ParseHost(s string) (Host, error) {
	if s == "" {
		return Any, nil
	}
	if ip := net.ParseIP(s); ip != nil {
		return Host(s), nil
	}
	if _, err := net.LookupHost(s); err != nil {
		return "", fmt.Errorf("host: invalid address %q: %w", s, err)
	}
	return Host(s), nil
}

// Endpoint is the (Host, Port) pair from spec §3. Port 0 means
// OS-assigned, valid only for binds.
type Endpoint struct {
	Host Host
	Port uint16
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host.String(), fmt.Sprintf("%d", e.Port))
}

// IsZero reports whether e is the zero-value endpoint (no local/remote
// endpoint assigned yet).
func (e Endpoint) IsZero() bool {
	return e.Host == Any && e.Port == 0
}

// Equal compares two endpoints for value equality.
func (e Endpoint) Equal(o Endpoint) bool {
	return e.Host == o.Host && e.Port == o.Port
}

// FromAddr builds an Endpoint from a net.Addr (TCPAddr/UDPAddr), as
// produced by accept/dial/local-addr queries on the platform socket.
func FromAddr(a net.Addr) (Endpoint, error) {
	if a == nil {
		return Endpoint{}, fmt.Errorf("host: nil address")
	}
	h, p, err := net.SplitHostPort(a.String())
	if err != nil {
		return Endpoint{}, fmt.Errorf("host: %w", err)
	}
	var port int
	if _, err = fmt.Sscanf(p, "%d", &port); err != nil {
		return Endpoint{}, fmt.Errorf("host: invalid port %q: %w", p, err)
	}
	return Endpoint{Host: Host(h), Port: uint16(port)}, nil
}
