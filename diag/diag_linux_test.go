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

package diag

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetwise/udpsas"
)

func TestDecodeUDP4(t *testing.T) {
	ip := &layers.IPv4{
		SrcIP:    net.IPv4(127, 0, 0, 2),
		DstIP:    net.IPv4(127, 0, 0, 1),
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
	}
	udp := &layers.UDP{SrcPort: 4242, DstPort: 5353}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, udp, gopacket.Payload("hello")))

	pkt, ok := decodeUDP4(buf.Bytes())
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.2:4242"), pkt.Src)
	assert.Equal(t, netip.MustParseAddrPort("127.0.0.1:5353"), pkt.Dst)
	assert.Equal(t, []byte("hello"), pkt.Payload)
}

func TestDecodeUDP4Garbage(t *testing.T) {
	_, ok := decodeUDP4(nil)
	assert.False(t, ok)
	_, ok = decodeUDP4([]byte{0x01, 0x02, 0x03})
	assert.False(t, ok)
}

func TestNewCapturePrivilegeCheck(t *testing.T) {
	capture, err := NewCapture(12345)
	if os.Geteuid() != 0 {
		require.Error(t, err, "raw sockets must be refused without CAP_NET_RAW")
		return
	}
	require.NoError(t, err)
	require.NoError(t, capture.Close())
}

func TestVerifyRejectsIPv6(t *testing.T) {
	conn, err := udpsas.Listen("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	_, err = VerifySourceSelection(conn, netip.MustParseAddrPort("[::1]:9"), netip.MustParseAddr("::1"), time.Second)
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestVerifySourceSelection(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("raw sockets require root")
	}

	conn, err := udpsas.Listen("udp4", "0.0.0.0:0")
	require.NoError(t, err)
	defer conn.Close()

	// The probe needs a destination this host receives; an ephemeral
	// loopback listener keeps ICMP unreachable noise out of the test.
	sink, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer sink.Close()
	sinkAddr := sink.LocalAddr().(*net.UDPAddr).AddrPort()
	dst := netip.AddrPortFrom(sinkAddr.Addr().Unmap(), sinkAddr.Port())

	src := netip.MustParseAddr("127.0.0.2")
	report, err := VerifySourceSelection(conn, dst, src, 3*time.Second)
	require.NoError(t, err)
	assert.True(t, report.Matched, "wire source %v, requested %v", report.WireSrc, src)
	assert.Equal(t, src, report.WireSrc)
	assert.Equal(t, dst, report.WireDst)
}
