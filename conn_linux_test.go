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

// These tests rely on the whole 127.0.0.0/8 block being routed to the
// loopback interface, so a socket can originate traffic from addresses such
// as 127.0.0.2 without any interface setup.

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMsgSelectsSource(t *testing.T) {
	server := mustListen(t, "udp4", "0.0.0.0:0")
	client := clientConn(t, "udp4", net.IPv4(127, 0, 0, 1))

	want := netip.MustParseAddr("127.0.0.2")
	clientAddr := client.LocalAddr().(*net.UDPAddr).AddrPort()
	_, err := server.WriteMsg([]byte("from elsewhere"), clientAddr, want)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, peer, err := client.ReadFromUDPAddrPort(buf)
	require.NoError(t, err)
	assert.Equal(t, "from elsewhere", string(buf[:n]))
	// The peer sees the overridden source, not the bound address.
	assert.Equal(t, want, peer.Addr().Unmap())
	assert.Equal(t, server.LocalAddrPort().Port(), peer.Port())
}

func TestRoundTripPreservesArrivalAddress(t *testing.T) {
	server := mustListen(t, "udp4", "0.0.0.0:0")
	client := clientConn(t, "udp4", net.IPv4(127, 0, 0, 1))

	// The client targets one specific address of the multi-homed host.
	target := netip.AddrPortFrom(netip.MustParseAddr("127.0.0.2"), server.LocalAddrPort().Port())
	_, err := client.WriteToUDPAddrPort([]byte("which address am I?"), target)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, src, dst, err := server.ReadMsg(buf)
	require.NoError(t, err)
	require.Equal(t, target.Addr(), dst)

	// Reply by swapping the received pair: from the arrival address, back to
	// the sender.
	_, err = server.WriteMsg(buf[:n], src, dst)
	require.NoError(t, err)

	reply := make([]byte, 64)
	n, peer, err := client.ReadFromUDPAddrPort(reply)
	require.NoError(t, err)
	assert.Equal(t, "which address am I?", string(reply[:n]))
	assert.Equal(t, target, netip.AddrPortFrom(peer.Addr().Unmap(), peer.Port()))
}

func TestWriteMsgUnownedSource(t *testing.T) {
	server := mustListen(t, "udp4", "127.0.0.1:0")
	scratch := clientConn(t, "udp4", net.IPv4(127, 0, 0, 1))

	// 192.0.2.0/24 is TEST-NET-1, never assigned to a local interface.
	dst := scratch.LocalAddr().(*net.UDPAddr).AddrPort()
	_, err := server.WriteMsg([]byte("x"), dst, netip.MustParseAddr("192.0.2.1"))
	require.ErrorIs(t, err, ErrSend)
	require.NotErrorIs(t, err, ErrConfigure)
}
