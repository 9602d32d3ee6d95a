// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	libCommons "github.com/LerianStudio/lib-commons/v3/commons"

	"github.com/LerianStudio/datafeed/components/manager/internal/bootstrap"
)

// @title						Datafeed
// @version					1.0.0
// @description				This is a swagger documentation for Datafeed
// @termsOfService				http://swagger.io/terms/
// @host						localhost:4005
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				The authorization token in the 'Bearer access_token' format. Only required when auth plugin is enabled.
func main() {
	libCommons.InitLocalEnvConfig()

	svc, err := bootstrap.InitServers()
	if err != nil {
		// The structured logger is initialized inside InitServers, so startup
		// failures can only go to stderr.
		fmt.Fprintf(os.Stderr, "Failed to initialize manager: %v\n", err)
		os.Exit(1)
	}

	svc.Run()
}
