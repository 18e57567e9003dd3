// Copyright 2024 The kvstore-go Authors
// This file is part of kvstore-go.
//
// kvstore-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// kvstore-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with kvstore-go. If not, see <http://www.gnu.org/licenses/>.

// Command kvstored is the process entrypoint (spec §4.9, C9; SPEC_FULL.md
// C13): it loads configuration, builds the engine registry in the fixed
// array/rbtree/hash/skiplist/btree order, starts the metrics endpoint and
// reference transport, and blocks until signaled.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lymdgit/kvstore-go/dispatcher"
	"github.com/lymdgit/kvstore-go/internal/config"
	"github.com/lymdgit/kvstore-go/internal/metrics"
	"github.com/lymdgit/kvstore-go/internal/transport"
	"github.com/lymdgit/kvstore-go/kv/registry"
)

var (
	configPath string
	listenAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "kvstored",
		Short: "in-memory key/value store with pluggable indexing engines",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "path to kvstore.toml (defaults baked in if unset)")
	root.Flags().StringVar(&listenAddr, "listen", "", "override the listen address from config")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	reg := registry.New(cfg.Enabled())
	defer reg.Close()

	m := metrics.New()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	disp := dispatcher.New(reg, m)
	srv := transport.New(cfg.Listen, disp, m, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			_ = metricsSrv.Close()
		}()
	}

	return srv.Serve(ctx)
}
