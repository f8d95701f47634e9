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

/*
Package udpsas provides UDP sockets with source address selection: datagram
I/O that keeps the local-address dimension a plain connectionless socket
discards.

A socket bound to a wildcard address on a multi-homed host cannot tell which
of the host's addresses a datagram was sent to, and its replies leave with
whatever source address the kernel picks. Both halves break protocols that
must answer from the exact address they were reached at, such as DNS servers,
STUN-style reflectors, and anything behind policy routing. The fix is
per-datagram ancillary (control-message) data: [IP_PKTINFO] for IPv4 and the
[RFC 3542] IPV6_RECVPKTINFO/IPV6_PKTINFO pair for IPv6.

# Usage

[Listen] binds a socket with packet info delivery already enabled:

	conn, err := udpsas.Listen("udp", "0.0.0.0:5300")
	if err != nil {
		// error handling
	}
	defer conn.Close()

	buf := make([]byte, 1500)
	n, src, dst, err := conn.ReadMsg(buf)
	if err != nil {
		// error handling
	}
	// Reply from the address the request arrived at.
	_, err = conn.WriteMsg(buf[:n], src, dst)

An already-bound [net.UDPConn] can be adopted with [WrapConn] followed by
[Conn.EnablePacketInfo]. Reading before the socket is configured fails with
[ErrNotConfigured] rather than reporting a wrong destination.

# Scope

A [Conn] is a thin translation layer over single system calls. It never
retries, spawns no goroutines, and holds no locks: transient conditions such
as an expired deadline pass through inside [ErrReceive] or [ErrSend] for the
caller's event loop to classify, and sharing a Conn across goroutines needs
external synchronization just like the underlying socket. Deadlines,
closing, and plain sends without a source override come from the embedded
[net.UDPConn].

Platform support mirrors what kernels offer. Linux and the BSDs implement
everything. Darwin cannot override IPv4 source addresses, so
[Conn.WriteMsg] reports [errors.ErrUnsupported] inside [ErrSend] for that
case. Windows lacks control-message support in [golang.org/x/net] entirely;
configuration fails there with [ErrConfigure].

[IP_PKTINFO]: https://man7.org/linux/man-pages/man7/ip.7.html
[RFC 3542]: https://datatracker.ietf.org/doc/html/rfc3542#section-6
*/
package udpsas
