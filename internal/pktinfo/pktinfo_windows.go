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

package pktinfo

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
)

// Windows builds of [golang.org/x/net/ipv4] and [golang.org/x/net/ipv6] do
// not implement per-message control data, so every operation here reports
// [errors.ErrUnsupported] instead of degrading to address-blind I/O.

func Enable(_ *net.UDPConn) error {
	return fmt.Errorf("packet info reporting on windows: %w", errors.ErrUnsupported)
}

func OOBSize() int {
	return 0
}

func ParseDst(_ []byte) (netip.Addr, int, error) {
	return netip.Addr{}, 0, fmt.Errorf("destination address decoding on windows: %w", errors.ErrUnsupported)
}

func MarshalSrc(_ netip.Addr) ([]byte, error) {
	return nil, fmt.Errorf("source address selection on windows: %w", errors.ErrUnsupported)
}
