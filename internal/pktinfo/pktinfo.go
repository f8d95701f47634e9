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

// Package pktinfo translates between IP addresses and the per-datagram socket
// control messages that carry them: [RFC 3542] in6_pktinfo records for IPv6 and
// the in_pktinfo records of IP_PKTINFO for IPv4.
//
// Everything platform-specific about ancillary data lives here, so the rest of
// the module deals only in [net/netip] addresses.
//
// [RFC 3542]: https://datatracker.ietf.org/doc/html/rfc3542#section-6
package pktinfo

import "errors"

// ErrNoInfo is returned by ParseDst when the control data holds no usable
// packet info record.
var ErrNoInfo = errors.New("no packet info control message")
