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

	"github.com/spf13/cobra"

	"github.com/packetwise/udpsas/localaddr"
)

func addrsCmd() *cobra.Command {
	var loopback bool
	cmd := &cobra.Command{
		Use:   "addrs",
		Short: "List addresses usable as datagram sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			list := localaddr.List
			if loopback {
				list = localaddr.ListLoopback
			}
			addrs, err := list()
			if err != nil {
				return err
			}
			for _, a := range addrs {
				fmt.Println(a)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&loopback, "loopback", false, "list loopback addresses instead")
	return cmd
}
