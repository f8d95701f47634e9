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

package udpsas

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/packetwise/udpsas/internal/pktinfo"
)

// Conn is a UDP socket that reports the destination address of received
// datagrams and can choose the source address of sent ones. It owns the
// embedded [net.UDPConn], whose methods provide deadlines, closing, and
// plain sends without a source override.
//
// A Conn starts unconfigured unless created with [Listen]. Like the
// underlying socket, it is driven by one logical owner: wrap calls in your
// own synchronization if you share it across goroutines.
type Conn struct {
	*net.UDPConn

	pktinfo bool
}

var _ net.PacketConn = (*Conn)(nil)

// WrapConn adopts an already-bound UDP socket. The result is unconfigured:
// call [Conn.EnablePacketInfo] before the first [Conn.ReadMsg].
func WrapConn(conn *net.UDPConn) *Conn {
	return &Conn{UDPConn: conn}
}

// Listen binds a UDP socket on the given network ("udp", "udp4" or "udp6")
// and local address, with packet info reporting already enabled. The option
// is applied before any datagram can be queued, so every receive carries its
// control data.
func Listen(network, address string) (*Conn, error) {
	switch network {
	case "udp", "udp4", "udp6":
	default:
		return nil, fmt.Errorf("listen %s: %w", address, net.UnknownNetworkError(network))
	}

	lc := net.ListenConfig{}
	ctrl := pktinfo.ListenControl()
	if ctrl != nil {
		lc.Control = ctrl
	}
	pc, err := lc.ListenPacket(context.Background(), network, address)
	if err != nil {
		return nil, fmt.Errorf("listen %s %s: %w", network, address, err)
	}
	conn := WrapConn(pc.(*net.UDPConn))
	if ctrl != nil {
		conn.pktinfo = true
		return conn, nil
	}
	if err := conn.EnablePacketInfo(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// EnablePacketInfo makes the OS attach destination-address control data to
// every subsequently received datagram. It must run before the first
// [Conn.ReadMsg] and is a no-op on a connection that is already configured;
// the option stays enabled for the socket's whole lifetime.
func (c *Conn) EnablePacketInfo() error {
	if c.pktinfo {
		return nil
	}
	if err := pktinfo.Enable(c.UDPConn); err != nil {
		return fmt.Errorf("configuring %v: %w", c.LocalAddr(), errors.Join(ErrConfigure, err))
	}
	c.pktinfo = true
	return nil
}

// PacketInfoEnabled reports whether the connection is configured for
// address-aware receives.
func (c *Conn) PacketInfoEnabled() bool {
	return c.pktinfo
}

// LocalAddrPort returns the socket's bound address.
func (c *Conn) LocalAddrPort() netip.AddrPort {
	addr, ok := c.LocalAddr().(*net.UDPAddr)
	if !ok {
		return netip.AddrPort{}
	}
	return addr.AddrPort()
}

// ReadMsg receives one datagram into p and returns the payload length, the
// peer that sent it, and the local address it was sent to. The destination
// is meaningful even when the socket is bound to a wildcard address, which
// is the reason this method exists.
//
// Like any UDP receive, a datagram longer than p is silently truncated to
// len(p); truncation does not affect the reported addresses. On a connection
// without packet info enabled, ReadMsg fails immediately with
// [ErrNotConfigured] instead of reporting a wrong destination. A receive
// failure wraps [ErrReceive]; a datagram whose control data cannot be
// decoded wraps [ErrMissingPktInfo] while still returning the payload.
func (c *Conn) ReadMsg(p []byte) (n int, src netip.AddrPort, dst netip.Addr, err error) {
	if !c.pktinfo {
		return 0, netip.AddrPort{}, netip.Addr{}, fmt.Errorf("reading datagram: %w", ErrNotConfigured)
	}
	oob := make([]byte, pktinfo.OOBSize())
	n, oobn, _, src, err := c.UDPConn.ReadMsgUDPAddrPort(p, oob)
	if err != nil {
		return n, netip.AddrPort{}, netip.Addr{}, fmt.Errorf("reading datagram: %w", errors.Join(ErrReceive, err))
	}
	src = netip.AddrPortFrom(src.Addr().Unmap(), src.Port())
	dst, _, err = pktinfo.ParseDst(oob[:oobn])
	if err != nil {
		return n, src, netip.Addr{}, fmt.Errorf("decoding control data from %v: %w", src, errors.Join(ErrMissingPktInfo, err))
	}
	return n, src, dst, nil
}

// WriteMsg sends p to dst with control data instructing the OS to use src as
// the datagram's source address, overriding the socket's bound address for
// this send only. It does not require packet info to be enabled.
//
// src must be an address the host can originate traffic from; the kernel
// rejects others and the rejection wraps [ErrSend]. The source is never
// silently replaced. A link-local IPv6 source may additionally need the
// socket bound to its interface. For sends without an override, use the
// embedded [net.UDPConn.WriteToUDPAddrPort].
func (c *Conn) WriteMsg(p []byte, dst netip.AddrPort, src netip.Addr) (int, error) {
	if !dst.IsValid() {
		return 0, fmt.Errorf("writing datagram: %w", errors.Join(ErrSend, errors.New("invalid destination address")))
	}
	if !src.IsValid() {
		return 0, fmt.Errorf("writing to %v: %w", dst, errors.Join(ErrSend, errors.New("invalid source address")))
	}
	if src.Unmap().Is4() != dst.Addr().Unmap().Is4() {
		return 0, fmt.Errorf("writing to %v: %w", dst,
			errors.Join(ErrSend, fmt.Errorf("source %v and destination %v are different address families", src, dst.Addr())))
	}
	oob, err := pktinfo.MarshalSrc(src)
	if err != nil {
		return 0, fmt.Errorf("writing from %v: %w", src, errors.Join(ErrSend, err))
	}
	n, _, err := c.UDPConn.WriteMsgUDPAddrPort(p, oob, dst)
	if err != nil {
		return n, fmt.Errorf("writing from %v to %v: %w", src, dst, errors.Join(ErrSend, err))
	}
	return n, nil
}
