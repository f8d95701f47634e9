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

//go:build darwin

package pktinfo

import (
	"errors"
	"fmt"
	"net/netip"

	"golang.org/x/net/ipv6"
)

// MarshalSrc builds the control data that makes the kernel emit the next
// datagram with src as its source address.
//
// Darwin turns IPv4 datagrams carrying a source override into datagrams with
// an unspecified source, so IPv4 is refused here instead of sending a broken
// packet. See https://github.com/AdguardTeam/AdGuardHome/issues/2807.
func MarshalSrc(src netip.Addr) ([]byte, error) {
	if src.Unmap().Is4() {
		return nil, fmt.Errorf("IPv4 source selection on darwin: %w", errors.ErrUnsupported)
	}
	return (&ipv6.ControlMessage{Src: src.AsSlice()}).Marshal(), nil
}
