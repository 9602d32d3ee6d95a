// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

// Page walk guards for multi-page aggregation against upstream sources.
const (
	// MaxPageWalk is the maximum number of pages a single aggregation walk may
	// fetch before it is aborted. A next-page cursor that keeps reappearing past
	// this bound indicates a broken or hostile upstream pager.
	MaxPageWalk = 10000

	// DefaultSourcePageLimit is the page size requested from upstream sources
	// when a feed does not configure its own.
	DefaultSourcePageLimit = 100

	// MaxSourcePageLimit is the maximum page size accepted for a feed's
	// upstream fetches.
	MaxSourcePageLimit = 1000
)
