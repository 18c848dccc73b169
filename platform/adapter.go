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
	"net"

	"github.com/nabbar/sakit/host"
)

// NetworkAdapter describes one local network interface as seen by the
// broadcast path (spec §6.1 `getNetworkAdapters -> list`): its name, the
// unicast address bound to it and the broadcast address derived from its
// IPv4 netmask.
type NetworkAdapter struct {
	Name      string
	Unicast   host.Host
	Broadcast host.Host
	Loopback  bool
}

// GetNetworkAdapters enumerates the host's network interfaces and derives
// the IPv4 broadcast address of each one carrying a usable address, for use
// with Socket.Broadcast.
func GetNetworkAdapters() []NetworkAdapter {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var out []NetworkAdapter
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}

			bcast := broadcastAddr(ip4, ipNet.Mask)
			out = append(out, NetworkAdapter{
				Name:      ifc.Name,
				Unicast:   host.Host(ip4.String()),
				Broadcast: host.Host(bcast.String()),
				Loopback:  ifc.Flags&net.FlagLoopback != 0,
			})
		}
	}
	return out
}

func broadcastAddr(ip net.IP, mask net.IPMask) net.IP {
	out := make(net.IP, len(ip))
	for i := range ip {
		out[i] = ip[i] | ^mask[i]
	}
	return out
}
