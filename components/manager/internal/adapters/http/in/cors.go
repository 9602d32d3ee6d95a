// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig holds explicit CORS configuration loaded from environment variables.
// Origins, methods, and headers are comma-separated strings passed directly to
// Fiber's CORS middleware instead of relying on wildcard defaults.
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// CORSMiddleware returns a Fiber middleware that configures CORS using explicit
// origins from the provided configuration. This prevents wildcard (*) defaults
// from leaking into production environments.
//
// All three lists are sanitized before reaching Fiber's cors.New(): empty
// segments from leading, trailing or consecutive commas are stripped, and
// origin entries additionally must parse as a bare scheme://host. Fiber
// panics on malformed origin lists, so the sanitization happens here rather
// than at request time.
func CORSMiddleware(cfg CORSConfig) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: sanitizeList(cfg.AllowedOrigins, func(origin string) bool {
			return origin == "*" || isValidOrigin(origin)
		}),
		AllowMethods: sanitizeList(cfg.AllowedMethods, keepAll),
		AllowHeaders: sanitizeList(cfg.AllowedHeaders, keepAll),
		Next:         corsSkipPath,
	})
}

// corsSkipPath returns true for paths that should bypass CORS processing.
// Health, readiness, version, and Swagger endpoints are infrastructure paths
// that do not serve cross-origin browser requests and should not receive
// CORS headers.
func corsSkipPath(c *fiber.Ctx) bool {
	path := c.Path()

	return isHealthPath(path) || strings.HasPrefix(path, "/swagger")
}

// sanitizeList splits a comma-separated string, trims whitespace from each
// segment, drops empty segments and segments rejected by keep, and rejoins
// the survivors with commas.
func sanitizeList(input string, keep func(string) bool) string {
	var clean []string

	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if p != "" && keep(p) {
			clean = append(clean, p)
		}
	}

	return strings.Join(clean, ",")
}

// keepAll accepts every non-empty segment.
func keepAll(string) bool { return true }

// isValidOrigin checks whether a string is a well-formed origin suitable for
// Fiber's CORS middleware: a scheme and host with no path, query, fragment,
// or userinfo components. This matches the origin format defined in RFC 6454:
// scheme "://" host [ ":" port ].
func isValidOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	if parsed.Path != "" && parsed.Path != "/" {
		return false
	}

	return parsed.RawQuery == "" && parsed.Fragment == "" && parsed.User == nil
}
