// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/net/http"

	"github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

// UUIDPathParameter is the conventional name of the identifier path parameter.
var UUIDPathParameter = "id"

// SecurityHeaders returns a Fiber middleware that sets standard HTTP security
// headers on every response. The headers mitigate common browser-side attacks
// such as MIME-type sniffing, clickjacking, and reflected XSS.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "0")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		return c.Next()
	}
}

// RecoverMiddleware returns a Fiber middleware that recovers from panics
// inside handlers, preventing a single panicking request from crashing the
// entire server process. It delegates to Fiber's built-in recover middleware.
func RecoverMiddleware() fiber.Handler {
	return recover.New()
}

// ParseUUIDPathParam returns a Fiber middleware that validates the named path
// parameter as a UUID. On success the parsed uuid.UUID is stored in
// c.Locals(paramName) for downstream handlers. On failure a 400 Bad Request
// response is returned with the standard ErrInvalidPathParameter error.
func ParseUUIDPathParam(paramName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pathParam := c.Params(paramName)

		if commons.IsNilOrEmpty(&pathParam) {
			err := pkg.ValidateBusinessError(constant.ErrInvalidPathParameter, "", paramName)
			return http.WithError(c, err)
		}

		parsedPathUUID, errPath := uuid.Parse(pathParam)
		if errPath != nil {
			err := pkg.ValidateBusinessError(constant.ErrInvalidPathParameter, "", paramName)
			return http.WithError(c, err)
		}

		c.Locals(paramName, parsedPathUUID)

		return c.Next()
	}
}

// ParsePathParametersUUID validates the "id" path parameter as a UUID. For
// other parameter names use ParseUUIDPathParam(paramName).
func ParsePathParametersUUID(c *fiber.Ctx) error {
	return ParseUUIDPathParam(UUIDPathParameter)(c)
}
