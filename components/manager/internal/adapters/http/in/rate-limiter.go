// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package in

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds the configuration for the three-tier rate limiter.
// Each tier applies independent limits to different route categories:
//   - Enabled: feature toggle; when false, the middleware is a passthrough
//   - GlobalMax: catch-all limit for general API requests
//   - SyncMax: limit for sync triggers, which fan out into multi-page source walks
//   - DispatchMax: limit for write methods (POST, PUT, PATCH, DELETE)
//   - Storage: optional fiber.Storage backend (e.g. Redis) for distributed counting
type RateLimitConfig struct {
	Enabled     bool
	GlobalMax   int
	SyncMax     int
	DispatchMax int
	Window      time.Duration
	Storage     RateLimitStorage
}

// isHealthPath reports whether the path is a health/readiness/version
// endpoint. Those must always remain reachable for orchestration and
// monitoring, so they bypass every tier.
func isHealthPath(path string) bool {
	switch path {
	case "/health", "/ready", "/version":
		return true
	}

	return false
}

// isSyncPath returns true if the request path ends with "/sync", matching the
// feed sync trigger route. Uses HasSuffix instead of Contains to avoid false
// positives on paths that merely contain "/sync" as a substring.
func isSyncPath(path string) bool {
	return strings.HasSuffix(path, "/sync")
}

// isDispatchMethod returns true if the HTTP method is a write operation.
func isDispatchMethod(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	}

	return false
}

// RateLimiterMiddleware returns a Fiber handler that enforces three independent
// rate limit tiers based on request path and HTTP method. Each tier maintains
// its own counter, so exhausting one tier does not affect the others.
//
// When cfg.Enabled is false, returns a passthrough handler that calls c.Next().
//
// Tier selection logic:
//  1. Health/ready/version endpoints: bypassed entirely (no rate limiting)
//  2. Paths ending with "/sync": sync tier (SyncMax)
//  3. POST/PUT/PATCH/DELETE methods: dispatch tier (DispatchMax)
//  4. All other requests: global tier (GlobalMax)
//
// Rate-limited responses return HTTP 429 with a structured JSON body and
// a Retry-After header indicating when the client may retry.
func RateLimiterMiddleware(cfg RateLimitConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	limitReached := newRateLimitReachedHandler(cfg.Window)

	// All tiers share the window, the storage backend and the 429 handler;
	// only the quota and the counter-key prefix differ.
	tier := func(prefix string, max int) fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        max,
			Expiration: cfg.Window,
			Storage:    cfg.Storage,
			KeyGenerator: func(c *fiber.Ctx) string {
				return prefix + ":" + c.IP()
			},
			LimitReached: limitReached,
		})
	}

	globalTier := tier("global", cfg.GlobalMax)
	syncTier := tier("sync", cfg.SyncMax)
	dispatchTier := tier("dispatch", cfg.DispatchMax)

	return func(c *fiber.Ctx) error {
		switch {
		case isHealthPath(c.Path()):
			return c.Next()
		case isSyncPath(c.Path()):
			return syncTier(c)
		case isDispatchMethod(c.Method()):
			return dispatchTier(c)
		default:
			return globalTier(c)
		}
	}
}

// rateLimitErrorResponse is the structured JSON body returned when a rate
// limit tier is exhausted. It follows the project's standard error envelope.
type rateLimitErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// newRateLimitReachedHandler returns a handler that is called when a rate limit
// tier is exhausted. It sets the Retry-After header using the configured window
// duration (in seconds) and returns HTTP 429 with a structured JSON body.
func newRateLimitReachedHandler(window time.Duration) fiber.Handler {
	retryAfterSeconds := strconv.Itoa(int(window.Seconds()))

	return func(c *fiber.Ctx) error {
		if c.GetRespHeader("Retry-After") == "" {
			c.Set("Retry-After", retryAfterSeconds)
		}

		return c.Status(fiber.StatusTooManyRequests).JSON(rateLimitErrorResponse{
			Code:    "DTF-0429",
			Title:   "Too Many Requests",
			Message: "Rate limit exceeded. Please retry after " + retryAfterSeconds + " seconds.",
		})
	}
}
