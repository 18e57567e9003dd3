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

// Package transport is a reference implementation of the "external
// collaborator" spec §1 deliberately excludes from the core: it hands the
// dispatcher one newline-framed request line at a time and writes back
// exactly one reply line, per connection, concurrently across
// connections. Swap it for an epoll/coroutine/io_uring loop without
// touching kv or dispatcher.
package transport

import (
	"bufio"
	"context"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lymdgit/kvstore-go/dispatcher"
	"github.com/lymdgit/kvstore-go/internal/metrics"
)

// Server accepts TCP connections and serves the line protocol (spec §6)
// over each one until the connection closes.
type Server struct {
	listen   string
	dispatch *dispatcher.Dispatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// New returns a Server bound to listen, dispatching every request line to
// dispatch.
func New(
	listen string,
	dispatch *dispatcher.Dispatcher,
	m *metrics.Metrics,
	log *zap.Logger,
) *Server {
	return &Server{listen: listen, dispatch: dispatch, metrics: m, log: log}
}

// Serve blocks, accepting connections until ctx is canceled, at which
// point it closes the listener and waits for every open connection to end.
// Open connections are not closed on cancellation: Serve returns only
// after each client has closed its connection (or a read or write fails).
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.listen)
	if err != nil {
		return err
	}
	s.log.Info("listening", zap.String("addr", s.listen))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	group.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			group.Go(func() error {
				s.handle(conn)
				return nil
			})
		}
	})
	return group.Wait()
}

func (s *Server) handle(conn net.Conn) {
	connID := uuid.New().String()
	s.metrics.Connections.Inc()
	s.metrics.ActiveConns.Inc()
	defer s.metrics.ActiveConns.Dec()
	defer conn.Close()

	log := s.log.With(zap.String("conn", connID), zap.String("remote", conn.RemoteAddr().String()))
	log.Debug("connection accepted")

	scanner := bufio.NewScanner(conn)
	writer := bufio.NewWriter(conn)
	for scanner.Scan() {
		reply := s.dispatch.Dispatch(scanner.Text())
		if _, err := writer.WriteString(reply); err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}
		if err := writer.WriteByte('\n'); err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}
		if err := writer.Flush(); err != nil {
			log.Warn("flush failed", zap.Error(err))
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug("connection read error", zap.Error(err))
	}
	log.Debug("connection closed")
}
