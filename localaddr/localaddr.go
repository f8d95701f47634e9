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
Package localaddr enumerates the addresses this machine can originate UDP
datagrams from.

The send path never consults this package. The operating system is the
authority on which sources it accepts, and a send with a source the kernel
rejects fails at the socket. These listings exist for tools and operators
that need to choose a source before sending, or to explain a rejection
after one.

Link-local IPv6 addresses are returned with their interface name as the
zone, so they can be passed to [net/netip.AddrPort] based APIs unchanged.
*/
package localaddr

import "net/netip"

// List returns the unicast addresses assigned to interfaces that are up,
// excluding loopback interfaces.
func List() ([]netip.Addr, error) {
	return addresses(false)
}

// ListLoopback returns the addresses assigned to loopback interfaces that
// are up.
func ListLoopback() ([]netip.Addr, error) {
	return addresses(true)
}

// Usable reports whether addr is currently assigned to a local interface,
// loopback included. A zoneless addr matches a zoned assignment of the same
// address; a zoned addr must match zone and all.
func Usable(addr netip.Addr) (bool, error) {
	if !addr.IsValid() {
		return false, nil
	}
	want := addr.Unmap()
	for _, list := range []func() ([]netip.Addr, error){List, ListLoopback} {
		assigned, err := list()
		if err != nil {
			return false, err
		}
		for _, a := range assigned {
			if a == want || (want.Zone() == "" && a.WithZone("") == want) {
				return true, nil
			}
		}
	}
	return false, nil
}
