// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-fin-keeper/internal/config"
	"github.com/MKhiriev/go-fin-keeper/internal/handler"
	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers != nil && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}

	if servers.httpServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

func (s *server) RunServer() {
	if err := s.run(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}
}

// run serves until parent is cancelled or a stop signal arrives, then shuts
// the server down gracefully.
func (s *server) run(parent context.Context) error {
	if s.httpServer == nil {
		return errNoServersAreCreated
	}

	ctx, stop := signal.NotifyContext(
		parent,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	ln, err := s.httpServer.listen()
	if err != nil {
		return err
	}

	s.logger.Info().Str("address", ln.Addr().String()).Msg("Launching HTTP server")
	served := make(chan struct{})
	go func() {
		defer close(served)
		s.httpServer.serve(ln)
	}()

	<-ctx.Done()

	s.Shutdown()
	<-served
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
