// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

import "time"

// Source API HTTP Client Configuration
const (
	// SourceHTTPTimeout is the per-request timeout for upstream page fetches.
	SourceHTTPTimeout = 30 * time.Second

	// SourceHTTPMaxIdleConns bounds the idle connection pool kept per upstream host.
	SourceHTTPMaxIdleConns = 10
)

// Circuit Breaker Configuration
const (
	CircuitBreakerMaxRequests uint32 = 3
	CircuitBreakerInterval           = 2 * time.Minute
	CircuitBreakerTimeout            = 30 * time.Second
	CircuitBreakerThreshold   uint32 = 15
)

// Circuit Breaker State Names
const (
	CircuitBreakerStateClosed   = "closed"
	CircuitBreakerStateOpen     = "open"
	CircuitBreakerStateHalfOpen = "half-open"
)

// PostgreSQL Pool Configuration
const (
	PostgresMaxOpenConns    = 25
	PostgresMaxIdleConns    = 10
	PostgresConnMaxLifetime = 5 * time.Minute
)

// Entry Batch Configuration
const (
	// EntryInsertBatchSize is the number of entries written per INSERT statement
	// during a sync. Page sizes above this are split into multiple statements.
	EntryInsertBatchSize = 500
)

// Health Check Configuration
const (
	HealthCheckTimeout = 5 * time.Second
)
