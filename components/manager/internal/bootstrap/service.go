// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	libCommons "github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
)

// Service is the application glue where we put all top-level components to be used.
type Service struct {
	*Server
	log.Logger

	// cleanups tear down connections and background workers. They are
	// registered in dependency order during InitServers and run in reverse
	// once the HTTP server has drained.
	cleanups []func()
}

// Run starts the application.
// This is the only necessary code to run an app in the main.go
func (app *Service) Run() {
	libCommons.NewLauncher(
		libCommons.WithLogger(app.Logger),
		libCommons.RunApp("HTTP Service", app.Server),
	).Run()

	// Graceful shutdown
	app.Info("Starting graceful shutdown...")

	runCleanups(app.cleanups)

	app.Info("Graceful shutdown complete")
}

// runCleanups executes cleanup functions in reverse registration order, so
// dependents shut down before the resources they rely on.
func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
