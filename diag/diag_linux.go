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
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"

	"github.com/packetwise/udpsas"
)

const probeMagic = "udpsas-probe:"

// Capture receives the UDP datagrams arriving at this host whose UDP
// source port matches a filter. The filter runs in the kernel, so
// unrelated traffic never reaches userspace.
type Capture struct {
	pc  net.PacketConn
	buf []byte
}

// NewCapture opens a raw socket delivering IPv4 UDP datagrams sent from
// srcPort. Requires CAP_NET_RAW. Only traffic on the loopback interface
// is captured; a raw socket sees received packets, not transmitted ones,
// and host-to-self datagrams always arrive over loopback.
func NewCapture(srcPort uint16) (*Capture, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("creating raw socket: %w", err)
	}
	if err := unix.SetsockoptString(fd, unix.SOL_SOCKET, unix.SO_BINDTODEVICE, "lo"); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("binding capture to loopback: %w", err)
	}
	if err := attachSourcePortFilter(fd, srcPort); err != nil {
		unix.Close(fd)
		return nil, err
	}

	file := os.NewFile(uintptr(fd), "udp-capture")
	pc, err := net.FilePacketConn(file)
	// FilePacketConn duplicates the descriptor, so the original is
	// released either way.
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("wrapping raw socket: %w", err)
	}
	return &Capture{pc: pc, buf: make([]byte, 1<<16)}, nil
}

func attachSourcePortFilter(fd int, srcPort uint16) error {
	raw, err := bpf.Assemble([]bpf.Instruction{
		// X <- IP header length, read from the IHL nibble
		bpf.LoadMemShift{Off: 0},
		// A <- UDP source port, the first two bytes after the IP header
		bpf.LoadIndirect{Off: 0, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpNotEqual, Val: uint32(srcPort), SkipTrue: 1},
		bpf.RetConstant{Val: 0xffffffff},
		bpf.RetConstant{Val: 0},
	})
	if err != nil {
		return fmt.Errorf("assembling filter: %w", err)
	}
	filter := make([]unix.SockFilter, len(raw))
	for i, ins := range raw {
		filter[i] = unix.SockFilter{Code: ins.Op, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	prog := unix.SockFprog{Len: uint16(len(filter)), Filter: &filter[0]}
	if err := unix.SetsockoptSockFprog(fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &prog); err != nil {
		return fmt.Errorf("attaching filter: %w", err)
	}
	return nil
}

// Read returns the next captured datagram, waiting until deadline.
func (c *Capture) Read(deadline time.Time) (Packet, error) {
	if err := c.pc.SetReadDeadline(deadline); err != nil {
		return Packet{}, err
	}
	for {
		n, _, err := c.pc.ReadFrom(c.buf)
		if err != nil {
			return Packet{}, err
		}
		pkt, ok := decodeUDP4(c.buf[:n])
		if !ok {
			continue
		}
		return pkt, nil
	}
}

// Close releases the capture socket.
func (c *Capture) Close() error {
	return c.pc.Close()
}

// decodeUDP4 extracts the addresses and payload from a raw IPv4 packet.
func decodeUDP4(data []byte) (Packet, bool) {
	packet := gopacket.NewPacket(data, layers.LayerTypeIPv4, gopacket.Default)
	ipLayer, _ := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	udpLayer, _ := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if ipLayer == nil || udpLayer == nil {
		return Packet{}, false
	}
	src, ok := netip.AddrFromSlice(ipLayer.SrcIP)
	if !ok {
		return Packet{}, false
	}
	dst, ok := netip.AddrFromSlice(ipLayer.DstIP)
	if !ok {
		return Packet{}, false
	}
	return Packet{
		Src:     netip.AddrPortFrom(src.Unmap(), uint16(udpLayer.SrcPort)),
		Dst:     netip.AddrPortFrom(dst.Unmap(), uint16(udpLayer.DstPort)),
		Payload: udpLayer.Payload,
	}, true
}

// VerifySourceSelection sends one probe datagram from src to dst through
// conn and reports the source address the emitted IP header carried. The
// dst must be an address of this host, loopback in the typical case,
// because only received datagrams can be captured. IPv4 only.
func VerifySourceSelection(conn *udpsas.Conn, dst netip.AddrPort, src netip.Addr, timeout time.Duration) (Report, error) {
	if !src.Unmap().Is4() || !dst.Addr().Unmap().Is4() {
		return Report{}, fmt.Errorf("wire verification is IPv4 only: %w", errors.ErrUnsupported)
	}

	capture, err := NewCapture(conn.LocalAddrPort().Port())
	if err != nil {
		return Report{}, err
	}
	defer capture.Close()

	probe := make([]byte, len(probeMagic)+8)
	copy(probe, probeMagic)
	if _, err := rand.Read(probe[len(probeMagic):]); err != nil {
		return Report{}, fmt.Errorf("generating probe nonce: %w", err)
	}
	if _, err := conn.WriteMsg(probe, dst, src); err != nil {
		return Report{}, fmt.Errorf("sending probe: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		pkt, err := capture.Read(deadline)
		if err != nil {
			return Report{}, fmt.Errorf("probe not captured: %w", err)
		}
		if !bytes.Equal(pkt.Payload, probe) {
			continue
		}
		return Report{
			WireSrc: pkt.Src.Addr(),
			WireDst: pkt.Dst,
			Matched: pkt.Src.Addr() == src.Unmap(),
		}, nil
	}
}
