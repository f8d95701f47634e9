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

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// MarshalSrc builds the control data that makes the kernel emit the next
// datagram with src as its source address.
func MarshalSrc(src netip.Addr) ([]byte, error) {
	if src.Unmap().Is4() {
		return (&ipv4.ControlMessage{Src: src.Unmap().AsSlice()}).Marshal(), nil
	}
	return (&ipv6.ControlMessage{Src: src.AsSlice()}).Marshal(), nil
}
