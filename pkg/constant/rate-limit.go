// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

import "time"

// Rate Limiting Defaults
const (
	// RateLimitDefaultEnabled indicates whether rate limiting is enabled by default.
	RateLimitDefaultEnabled = true

	// RateLimitDefaultGlobalMax is the default maximum number of requests per
	// window for the global (catch-all) rate limit tier.
	RateLimitDefaultGlobalMax = 100

	// RateLimitDefaultSyncMax is the default maximum number of requests per
	// window for the sync-trigger rate limit tier. Each trigger fans out into a
	// multi-page upstream walk, so this tier is the tightest.
	RateLimitDefaultSyncMax = 10

	// RateLimitDefaultDispatchMax is the default maximum number of requests per
	// window for the dispatch (create/write) rate limit tier.
	RateLimitDefaultDispatchMax = 50

	// RateLimitDefaultWindow is the default sliding window duration for all
	// rate limit tiers.
	RateLimitDefaultWindow = 60 * time.Second
)

// Rate Limiting Upper Bounds
const (
	// RateLimitMaxGlobal is the maximum allowed value for the global rate limit
	// tier. Values above this threshold indicate misconfiguration.
	RateLimitMaxGlobal = 10000

	// RateLimitMaxSync is the maximum allowed value for the sync-trigger rate
	// limit tier. Sync walks are resource-intensive, so this bound is lower.
	RateLimitMaxSync = 1000

	// RateLimitMaxDispatch is the maximum allowed value for the dispatch rate limit
	// tier. Write operations need a moderate upper bound to prevent abuse.
	RateLimitMaxDispatch = 5000

	// RateLimitMaxWindowSeconds is the maximum allowed sliding window length.
	// Longer windows make counters stale without improving protection.
	RateLimitMaxWindowSeconds = 3600
)
