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
Package echo implements a UDP echo server that replies from the exact
address each request arrived at.

A plain echo server bound to a wildcard address replies from whatever
source the kernel picks, which on a multi-homed host is often not the
address the client sent to. Clients behind strict NATs or with reverse
path filtering then drop the reply. This server reads the arrival address
of every datagram and sends the reply back from it.
*/
package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/netip"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/packetwise/udpsas"
)

const (
	// DefaultListen is the IANA echo service port.
	DefaultListen = ":7"

	defaultMaxPacketSize = 64 << 10

	// maxUDPPayload is the largest payload an IPv4 UDP datagram can carry.
	maxUDPPayload = 65507
)

// Config holds the echo server settings.
type Config struct {
	Listen        string `yaml:"listen"`          // UDP listen address, default ":7"
	MaxPacketSize int    `yaml:"max_packet_size"` // receive buffer size in bytes, default 64 KiB
}

func (c Config) listenAddress() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

func (c Config) packetSize() int {
	switch {
	case c.MaxPacketSize <= 0:
		return defaultMaxPacketSize
	case c.MaxPacketSize > maxUDPPayload:
		return maxUDPPayload
	default:
		return c.MaxPacketSize
	}
}

// Server is an address-preserving UDP echo server.
type Server struct {
	conn    *udpsas.Conn
	logger  *slog.Logger
	metrics *metrics
	bufSize int
}

// NewServer binds the server's socket and enables arrival address
// reporting on it. A nil logger disables logging. A nil reg leaves the
// metrics unregistered.
func NewServer(cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	conn, err := udpsas.Listen("udp", cfg.listenAddress())
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", cfg.listenAddress(), err)
	}
	return &Server{
		conn:    conn,
		logger:  logger.With("server", "echo"),
		metrics: newMetrics(reg),
		bufSize: cfg.packetSize(),
	}, nil
}

// LocalAddr returns the bound address, with the port the kernel picked
// when the configured listen port was zero.
func (s *Server) LocalAddr() netip.AddrPort {
	return s.conn.LocalAddrPort()
}

// Serve echoes datagrams until ctx is canceled or the socket fails. Each
// reply is sent to the request's source from the request's destination.
// Datagrams without arrival address information are counted and dropped.
// The socket is closed when Serve returns; a Server serves once.
func (s *Server) Serve(ctx context.Context) error {
	defer s.conn.Close()

	// Closing the socket is the only way to unblock a pending ReadMsg.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-done:
		}
	}()

	s.logger.Info("listening", "address", s.conn.LocalAddrPort().String())
	buf := make([]byte, s.bufSize)
	for {
		n, peer, local, err := s.conn.ReadMsg(buf)
		if err != nil {
			if errors.Is(err, udpsas.ErrMissingPktInfo) {
				s.metrics.decodeErrors.Inc()
				s.logger.Warn("dropping datagram without arrival address", "peer", peer.String())
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receiving: %w", err)
		}
		s.metrics.packetsReceived.Inc()
		s.metrics.bytesReceived.Add(float64(n))

		if _, err := s.conn.WriteMsg(buf[:n], peer, local); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.metrics.replyErrors.Inc()
			s.logger.Warn("reply failed", "peer", peer.String(), "local", local.String(), "error", err)
			continue
		}
		s.metrics.packetsReplied.Inc()
		s.logger.Debug("echoed", "peer", peer.String(), "local", local.String(), "bytes", n)
	}
}
