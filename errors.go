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

package udpsas

import "errors"

// Errors returned by this package. Each operation wraps one of these
// sentinels together with the underlying cause, so both can be tested with
// [errors.Is].
var (
	// ErrConfigure means enabling packet info reporting on the socket failed.
	// The socket cannot do address-aware receives; abandon it.
	ErrConfigure = errors.New("enabling packet info reporting failed")

	// ErrNotConfigured is returned by [Conn.ReadMsg] when packet info
	// reporting was never enabled on the connection. It signals a programming
	// error, not a transient condition.
	ErrNotConfigured = errors.New("packet info reporting not enabled")

	// ErrReceive means the receive system call failed. The cause is wrapped:
	// an expired deadline still matches [os.ErrDeadlineExceeded] and reports
	// Timeout() through [net.Error], signaling retry after readiness rather
	// than a hard failure.
	ErrReceive = errors.New("receiving datagram failed")

	// ErrSend means the send system call failed or was refused before being
	// attempted. Sending from an address the host does not own surfaces here
	// with the kernel's error as the cause.
	ErrSend = errors.New("sending datagram failed")

	// ErrMissingPktInfo means a datagram was received but its control data
	// held no usable destination address. The destination is never guessed;
	// the packet's payload is still returned alongside this error.
	ErrMissingPktInfo = errors.New("no packet info on received datagram")
)
