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

//go:build aix || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package pktinfo

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalSrcIPv4(t *testing.T) {
	oob, err := MarshalSrc(netip.MustParseAddr("127.0.0.1"))
	require.NoError(t, err)
	require.NotEmpty(t, oob)
	require.LessOrEqual(t, len(oob), OOBSize())

	// The in_pktinfo source field is separate from the received-destination
	// field, so a send-side record must not parse as a destination.
	_, _, err = ParseDst(oob)
	require.ErrorIs(t, err, ErrNoInfo)
}

func TestMarshalSrcMappedIPv4(t *testing.T) {
	plain, err := MarshalSrc(netip.MustParseAddr("127.0.0.1"))
	require.NoError(t, err)
	mapped, err := MarshalSrc(netip.MustParseAddr("::ffff:127.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, plain, mapped)
}
