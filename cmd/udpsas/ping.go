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

package main

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/packetwise/udpsas"
)

func pingCmd() *cobra.Command {
	var source string
	var useDNS bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ping <host:port>",
		Short: "Probe a server and print the addresses the reply traveled between",
		Long: `Send one datagram to the target and wait for a reply, printing the
reply's source and the local address it arrived at. With --source the
probe is sent from the given local address instead of the kernel's
choice. With --dns the probe is a DNS TXT query and the answer's
"src="/"dst=" strings show what the server observed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(args[0], source, useDNS, timeout)
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "local source address to send from")
	cmd.Flags().BoolVar(&useDNS, "dns", false, "probe with a DNS TXT query instead of plain text")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to wait for the reply")
	return cmd
}

func runPing(target, source string, useDNS bool, timeout time.Duration) error {
	raddr, err := net.ResolveUDPAddr("udp", target)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", target, err)
	}
	dst := raddr.AddrPort()

	network := "udp6"
	if dst.Addr().Unmap().Is4() {
		network = "udp4"
	}
	conn, err := udpsas.Listen(network, "")
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	payload := []byte("udpsas ping")
	var queryID uint16
	if useDNS {
		query := new(dns.Msg)
		query.SetQuestion("whoami.udpsas.", dns.TypeTXT)
		queryID = query.Id
		if payload, err = query.Pack(); err != nil {
			return fmt.Errorf("packing query: %w", err)
		}
	}

	if source != "" {
		src, err := netip.ParseAddr(source)
		if err != nil {
			return fmt.Errorf("parsing source address: %w", err)
		}
		_, err = conn.WriteMsg(payload, dst, src)
		if err != nil {
			return fmt.Errorf("sending probe: %w", err)
		}
	} else {
		if _, err := conn.WriteToUDPAddrPort(payload, dst); err != nil {
			return fmt.Errorf("sending probe: %w", err)
		}
	}

	buf := make([]byte, 4096)
	n, from, local, err := conn.ReadMsg(buf)
	if err != nil {
		return fmt.Errorf("waiting for reply: %w", err)
	}
	fmt.Printf("reply from %s arrived at %s\n", from, local)

	if useDNS {
		reply := new(dns.Msg)
		if err := reply.Unpack(buf[:n]); err != nil {
			return fmt.Errorf("parsing DNS reply: %w", err)
		}
		if reply.Id != queryID {
			return fmt.Errorf("reply ID %d does not match query ID %d", reply.Id, queryID)
		}
		for _, rr := range reply.Answer {
			if txt, ok := rr.(*dns.TXT); ok {
				for _, s := range txt.Txt {
					fmt.Printf("server reports %s\n", s)
				}
			}
		}
	} else {
		fmt.Printf("payload %q\n", buf[:n])
	}
	return nil
}
