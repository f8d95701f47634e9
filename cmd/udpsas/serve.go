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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/packetwise/udpsas"
	"github.com/packetwise/udpsas/dnsecho"
	"github.com/packetwise/udpsas/echo"
)

func serveCmd() *cobra.Command {
	var configPath, listen, metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the address-preserving echo server",
		Long: `Run a UDP echo server that replies from the exact address each
request arrived at, optionally together with a DNS responder reporting
observed addresses and an HTTP endpoint exposing metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			// Flags override the file.
			if listen != "" {
				cfg.Echo.Listen = listen
			}
			if metricsAddr != "" {
				cfg.Metrics = metricsAddr
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	cmd.Flags().StringVar(&listen, "listen", "", "UDP listen address for the echo server")
	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "HTTP listen address for /metrics and /healthz")
	return cmd
}

func runServe(cfg Config) error {
	logger := slog.Default()
	reg := prometheus.NewRegistry()

	srv, err := echo.NewServer(cfg.Echo, logger, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ctx) })

	if cfg.DNSEcho.Listen != "" {
		conn, err := udpsas.Listen("udp", cfg.DNSEcho.Listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.DNSEcho.Listen, err)
		}
		responder := dnsecho.NewResponder(conn, logger)
		g.Go(func() error { return responder.Serve(ctx) })
	}

	if cfg.Metrics != "" {
		httpSrv := &http.Server{
			Addr:         cfg.Metrics,
			Handler:      metricsMux(reg),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		logger.Info("metrics listening", "address", cfg.Metrics)
		g.Go(func() error {
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shut down")
	return nil
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK\n"))
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
