// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

// HTTP Pagination Defaults
const (
	DefaultPaginationLimit    = 10
	DefaultPaginationPage     = 1
	DefaultMaxPaginationLimit = 100
)

// Order is the sort direction accepted by list endpoints.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)
