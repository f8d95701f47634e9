// Copyright 2026 The udpsas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package pktinfo

import (
	"net"
	"net/netip"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// Enable turns on delivery of destination-address control messages for conn.
// Both address families are attempted because a dual-stack socket can receive
// either kind of traffic; it is an error only if every family applicable to
// the socket refuses the option.
func Enable(conn *net.UDPConn) error {
	err6 := ipv6.NewPacketConn(conn).SetControlMessage(ipv6.FlagDst|ipv6.FlagInterface, true)
	err4 := ipv4.NewPacketConn(conn).SetControlMessage(ipv4.FlagDst|ipv4.FlagInterface, true)
	if err6 != nil && err4 != nil {
		return err4
	}
	return nil
}

var oobSize = max(
	len(ipv4.NewControlMessage(ipv4.FlagDst|ipv4.FlagInterface)),
	len(ipv6.NewControlMessage(ipv6.FlagDst|ipv6.FlagInterface)),
)

// OOBSize returns the number of bytes of control data a single receive may
// produce once Enable has been applied.
func OOBSize() int {
	return oobSize
}

// ParseDst decodes received control data and returns the local address the
// datagram was sent to, together with the index of the interface it arrived
// on. IPv4-mapped addresses are unmapped.
func ParseDst(oob []byte) (netip.Addr, int, error) {
	cm6 := new(ipv6.ControlMessage)
	if cm6.Parse(oob) == nil && cm6.Dst != nil {
		return dstAddr(cm6.Dst, cm6.IfIndex)
	}
	cm4 := new(ipv4.ControlMessage)
	if cm4.Parse(oob) == nil && cm4.Dst != nil {
		return dstAddr(cm4.Dst, cm4.IfIndex)
	}
	return netip.Addr{}, 0, ErrNoInfo
}

func dstAddr(ip net.IP, ifIndex int) (netip.Addr, int, error) {
	addr, ok := netip.AddrFromSlice(ip)
	// An unspecified destination means the record held no received address,
	// such as a send-side record fed back through a parse.
	if !ok || addr.IsUnspecified() {
		return netip.Addr{}, 0, ErrNoInfo
	}
	return addr.Unmap(), ifIndex, nil
}
