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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOOBSizeCoversBothFamilies(t *testing.T) {
	require.Greater(t, OOBSize(), 0)

	oob, err := MarshalSrc(netip.MustParseAddr("::1"))
	require.NoError(t, err)
	require.LessOrEqual(t, len(oob), OOBSize())
}

func TestParseDstNoControlData(t *testing.T) {
	for _, oob := range [][]byte{nil, {}, {0x01, 0x02, 0x03}} {
		_, _, err := ParseDst(oob)
		require.ErrorIs(t, err, ErrNoInfo)
	}
}

func TestParseDstRoundTripIPv6(t *testing.T) {
	// The in6_pktinfo address field serves both directions, so control data
	// marshaled with a source parses back as a destination.
	src := netip.MustParseAddr("fd66:1234::2")
	oob, err := MarshalSrc(src)
	require.NoError(t, err)

	dst, _, err := ParseDst(oob)
	require.NoError(t, err)
	require.Equal(t, src, dst)
}

func TestEnableIPv4(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Enable(conn))
}

func TestEnableIPv6(t *testing.T) {
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6loopback})
	if err != nil {
		t.Skipf("IPv6 unavailable: %v", err)
	}
	defer conn.Close()

	require.NoError(t, Enable(conn))
}
