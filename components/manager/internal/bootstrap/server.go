// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LerianStudio/datafeed/pkg"

	libCommons "github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	"github.com/gofiber/fiber/v2"
)

// serverShutdownTimeout bounds how long in-flight requests may take to drain
// once a termination signal arrives.
const serverShutdownTimeout = 30 * time.Second

// Server represents the HTTP server for the feed management API.
type Server struct {
	app           *fiber.App
	serverAddress string
	logger        log.Logger
}

// ServerAddress returns is a convenience method to return the server address.
func (s *Server) ServerAddress() string {
	return s.serverAddress
}

// NewServer creates an instance of Server.
func NewServer(cfg *Config, app *fiber.App, logger log.Logger) *Server {
	return &Server{
		app:           app,
		serverAddress: cfg.ServerAddress,
		logger:        logger,
	}
}

// Run starts the HTTP listener and blocks until either the listener fails or
// a termination signal arrives, in which case in-flight requests are drained
// before returning. Connection teardown is owned by Service.Run, which runs
// after the launcher exits.
func (s *Server) Run(l *libCommons.Launcher) error {
	listenErr := make(chan error, 1)

	pkg.GoNamed(s.logger, "http-listener", func() {
		listenErr <- s.app.Listen(s.serverAddress)
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	s.logger.Infof("HTTP server listening on %s", s.serverAddress)

	select {
	case err := <-listenErr:
		return err
	case sig := <-sigs:
		s.logger.Infof("Received signal %v, draining HTTP server...", sig)

		if err := s.app.ShutdownWithTimeout(serverShutdownTimeout); err != nil {
			s.logger.Errorf("HTTP server drain failed: %v", err)

			return err
		}

		s.logger.Info("HTTP server drained")

		return nil
	}
}
