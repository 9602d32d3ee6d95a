// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"os"

	"github.com/LerianStudio/datafeed/components/manager/api"
	"github.com/LerianStudio/datafeed/pkg"

	"github.com/gofiber/fiber/v2"
)

// WithSwaggerEnvConfig lets the deployment override the generated Swagger
// metadata through SWAGGER_* environment variables before the docs handler
// serves it.
func WithSwaggerEnvConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		info := api.SwaggerInfo

		if v, ok := swaggerEnv("SWAGGER_TITLE"); ok {
			info.Title = v
		}

		if v, ok := swaggerEnv("SWAGGER_DESCRIPTION"); ok {
			info.Description = v
		}

		if v, ok := swaggerEnv("SWAGGER_VERSION"); ok {
			info.Version = v
		}

		// The host must parse as host[:port]; anything else would break the
		// "Try it out" requests the UI issues.
		if v, ok := swaggerEnv("SWAGGER_HOST"); ok && pkg.ValidateServerAddress(v) != "" {
			info.Host = v
		}

		if v, ok := swaggerEnv("SWAGGER_BASE_PATH"); ok {
			info.BasePath = v
		}

		if v, ok := swaggerEnv("SWAGGER_LEFT_DELIM"); ok {
			info.LeftDelim = v
		}

		if v, ok := swaggerEnv("SWAGGER_RIGHT_DELIM"); ok {
			info.RightDelim = v
		}

		if v, ok := swaggerEnv("SWAGGER_SCHEMES"); ok {
			info.Schemes = []string{v}
		}

		return c.Next()
	}
}

func swaggerEnv(key string) (string, bool) {
	v := os.Getenv(key)
	if pkg.IsNilOrEmpty(&v) {
		return "", false
	}

	return v, true
}
