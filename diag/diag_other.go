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

//go:build !linux

package diag

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/packetwise/udpsas"
)

type Capture struct {
	pc net.PacketConn
}

func NewCapture(srcPort uint16) (*Capture, error) {
	return nil, fmt.Errorf("packet capture: %w", errors.ErrUnsupported)
}

func (c *Capture) Read(deadline time.Time) (Packet, error) {
	return Packet{}, errors.ErrUnsupported
}

func (c *Capture) Close() error {
	return nil
}

func VerifySourceSelection(conn *udpsas.Conn, dst netip.AddrPort, src netip.Addr, timeout time.Duration) (Report, error) {
	return Report{}, fmt.Errorf("wire verification: %w", errors.ErrUnsupported)
}
