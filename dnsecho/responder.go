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
Package dnsecho implements a DNS responder that tells clients which
addresses their query traveled between.

Every TXT query is answered with two strings, "src=<address:port>" for
the source the server saw and "dst=<address>" for the local address the
query arrived on. The reply is sent from that same arrival address, so
the reported path is the one the answer itself took. Querying a
multi-homed host's different addresses is the quickest way to check
which one actually receives traffic.
*/
package dnsecho

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"github.com/miekg/dns"

	"github.com/packetwise/udpsas"
)

// Queries larger than this are cut off and fail to unpack. DNS over UDP
// stays well below it even with EDNS(0).
const queryBufferSize = 4096

// Responder answers DNS queries with the addresses it observed.
type Responder struct {
	conn   *udpsas.Conn
	logger *slog.Logger
}

// NewResponder wraps conn. The conn must have packet info reporting
// enabled. A nil logger disables logging.
func NewResponder(conn *udpsas.Conn, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Responder{
		conn:   conn,
		logger: logger.With("server", "dnsecho"),
	}
}

// Serve answers queries until ctx is canceled or the socket fails.
// Malformed packets and stray responses are dropped. The conn is closed
// by the time Serve returns.
func (r *Responder) Serve(ctx context.Context) error {
	defer r.conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.conn.Close()
		case <-done:
		}
	}()

	r.logger.Info("listening", "address", r.conn.LocalAddrPort().String())
	buf := make([]byte, queryBufferSize)
	for {
		n, peer, local, err := r.conn.ReadMsg(buf)
		if err != nil {
			if errors.Is(err, udpsas.ErrMissingPktInfo) {
				r.logger.Warn("dropping query without arrival address", "peer", peer.String())
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receiving: %w", err)
		}

		req := new(dns.Msg)
		if err := req.Unpack(buf[:n]); err != nil {
			r.logger.Debug("dropping malformed query", "peer", peer.String(), "error", err)
			continue
		}
		// Answering a response would answer our own answers.
		if req.Response {
			continue
		}

		out, err := r.answer(req, peer, local).Pack()
		if err != nil {
			r.logger.Debug("packing reply failed", "peer", peer.String(), "error", err)
			continue
		}
		if _, err := r.conn.WriteMsg(out, peer, local); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("reply failed", "peer", peer.String(), "local", local.String(), "error", err)
			continue
		}
		r.logger.Debug("answered", "peer", peer.String(), "local", local.String())
	}
}

func (r *Responder) answer(req *dns.Msg, peer netip.AddrPort, local netip.Addr) *dns.Msg {
	resp := new(dns.Msg)
	resp.SetReply(req)
	resp.Authoritative = true
	if len(req.Question) == 0 {
		return resp
	}
	q := req.Question[0]
	if q.Qtype == dns.TypeTXT || q.Qtype == dns.TypeANY {
		resp.Answer = append(resp.Answer, &dns.TXT{
			Hdr: dns.RR_Header{
				Name:   q.Name,
				Rrtype: dns.TypeTXT,
				Class:  dns.ClassINET,
				Ttl:    0,
			},
			Txt: []string{"src=" + peer.String(), "dst=" + local.String()},
		})
	}
	return resp
}
