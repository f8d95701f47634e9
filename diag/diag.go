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
Package diag verifies on the wire that source address selection works.

[udpsas.Conn.WriteMsg] asks the kernel to emit a datagram from a chosen
source address. This package captures the emitted datagram with a raw
socket and decodes the IP header, so the claim can be checked against
what was actually put on the wire rather than against what the sender
believes it sent.

Raw sockets need CAP_NET_RAW, so everything here requires elevated
privileges. Only Linux and IPv4 are supported; other platforms return
[errors.ErrUnsupported].
*/
package diag

import "net/netip"

// Packet is one captured UDP datagram, addresses as they appeared in
// the IP and UDP headers.
type Packet struct {
	Src     netip.AddrPort
	Dst     netip.AddrPort
	Payload []byte
}

// Report describes where a probe datagram really came from.
type Report struct {
	// WireSrc is the source address in the captured IP header.
	WireSrc netip.Addr
	// WireDst is the destination of the captured datagram.
	WireDst netip.AddrPort
	// Matched reports whether WireSrc equals the requested source.
	Matched bool
}
