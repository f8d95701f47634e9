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
	"net/netip"
	"time"

	"github.com/spf13/cobra"

	"github.com/packetwise/udpsas"
	"github.com/packetwise/udpsas/diag"
)

func verifyCmd() *cobra.Command {
	var source string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "verify <address:port>",
		Short: "Check on the wire that a probe leaves from the chosen source",
		Long: `Send a probe from the given source address and capture the emitted
datagram with a raw socket, comparing the IP header's source against
what was requested. Linux only, requires CAP_NET_RAW, and the target
must be an address of this host since only received datagrams can be
captured.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := netip.ParseAddrPort(args[0])
			if err != nil {
				return fmt.Errorf("parsing target: %w", err)
			}
			src, err := netip.ParseAddr(source)
			if err != nil {
				return fmt.Errorf("parsing source: %w", err)
			}

			conn, err := udpsas.Listen("udp4", "0.0.0.0:0")
			if err != nil {
				return err
			}
			defer conn.Close()

			report, err := diag.VerifySourceSelection(conn, dst, src, timeout)
			if err != nil {
				return err
			}
			fmt.Printf("wire source      %s\n", report.WireSrc)
			fmt.Printf("wire destination %s\n", report.WireDst)
			if !report.Matched {
				return fmt.Errorf("wire source %s does not match requested %s", report.WireSrc, src)
			}
			fmt.Println("source address selection verified")
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "source address the probe must use")
	_ = cmd.MarkFlagRequired("source")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to wait for the capture")
	return cmd
}
