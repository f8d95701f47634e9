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
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// ListenControl returns a [net.ListenConfig] Control function that enables
// packet info delivery on the descriptor before it is bound. Setting the
// option before bind means no datagram can ever be queued without its control
// data attached.
func ListenControl() func(network, address string, c syscall.RawConn) error {
	return func(network, _ string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			switch network {
			case "udp4":
				sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_PKTINFO, 1)
			case "udp6":
				sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_RECVPKTINFO, 1)
				if sockErr == nil {
					// A dual-stack socket reports IPv4 traffic through the
					// IPv4 option; best effort, v6-only sockets refuse it.
					_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_PKTINFO, 1)
				}
			}
		})
		if err != nil {
			return err
		}
		if sockErr != nil {
			return fmt.Errorf("enabling packet info on %s socket: %w", network, sockErr)
		}
		return nil
	}
}
