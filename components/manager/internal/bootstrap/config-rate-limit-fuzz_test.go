//go:build fuzz

// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package bootstrap

import (
	"strings"
	"testing"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// FuzzRateLimitConfig_Validate tests that the Config.Validate method never
// panics when given arbitrary integer values for rate limit configuration
// fields. The fuzzer generates random integers for GlobalMax, SyncMax,
// and DispatchMax. Validate must return either nil or an error -- never panic.
func FuzzRateLimitConfig_Validate(f *testing.F) {
	// Seed corpus: 7 entries across all required categories
	// Category 1 (Valid): default production values
	f.Add(100, 10, 50)
	// Category 2 (Empty/zero): all zeros should fail validation
	f.Add(0, 0, 0)
	// Category 3 (Negative): all negative should fail validation
	f.Add(-1, -1, -1)
	// Category 4 (Boundary): max int32
	f.Add(2147483647, 2147483647, 2147483647)
	// Category 5 (Boundary): min int32
	f.Add(-2147483648, -2147483648, -2147483648)
	// Category 6 (Mixed): one valid, others invalid
	f.Add(100, 0, -5)
	// Category 7 (Boundary): tier upper bounds
	f.Add(10000, 1000, 5000)

	f.Fuzz(func(t *testing.T, globalMax, syncMax, dispatchMax int) {
		// Create a minimally valid config (required fields populated) so
		// that only rate limit validation is exercised.
		cfg := validManagerConfig()
		cfg.RateLimitGlobal = globalMax
		cfg.RateLimitSync = syncMax
		cfg.RateLimitDispatch = dispatchMax

		// Must not panic -- either returns nil or an error
		err := cfg.Validate()

		// Verify consistency: any tier outside [1, max] must fail validation
		inBounds := globalMax >= 1 && globalMax <= constant.RateLimitMaxGlobal &&
			syncMax >= 1 && syncMax <= constant.RateLimitMaxSync &&
			dispatchMax >= 1 && dispatchMax <= constant.RateLimitMaxDispatch

		if !inBounds && err == nil {
			t.Fatalf("expected validation error for out-of-bounds rate limits: global=%d sync=%d dispatch=%d",
				globalMax, syncMax, dispatchMax)
		}

		// If all tiers are within bounds, rate limit validation should not
		// produce rate-limit-specific errors.
		if inBounds && err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "RATE_LIMIT") {
				t.Fatalf("unexpected rate limit validation error for in-bounds values: global=%d sync=%d dispatch=%d err=%v",
					globalMax, syncMax, dispatchMax, err)
			}
		}
	})
}

// FuzzRateLimitConfig_IndividualField tests that each rate limit field is
// independently validated when given arbitrary integer values. The fuzzer
// generates a random integer that is applied to each field one at a time.
func FuzzRateLimitConfig_IndividualField(f *testing.F) {
	// Seed corpus: 7 entries across all required categories
	// Category 1 (Valid): standard value
	f.Add(100)
	// Category 2 (Zero): boundary at zero
	f.Add(0)
	// Category 3 (Negative): simple negative
	f.Add(-1)
	// Category 4 (Boundary): above every tier's upper bound
	f.Add(1000000)
	// Category 5 (Boundary): minimum positive
	f.Add(1)
	// Category 6 (Boundary): large negative
	f.Add(-1000000)
	// Category 7 (Boundary): min int
	f.Add(-2147483648)

	f.Fuzz(func(t *testing.T, value int) {
		// Test each field independently
		fields := []struct {
			name    string
			envName string
			max     int
		}{
			{"global", "RATE_LIMIT_GLOBAL", constant.RateLimitMaxGlobal},
			{"sync", "RATE_LIMIT_SYNC", constant.RateLimitMaxSync},
			{"dispatch", "RATE_LIMIT_DISPATCH", constant.RateLimitMaxDispatch},
		}

		for _, field := range fields {
			cfg := validManagerConfig()

			switch field.name {
			case "global":
				cfg.RateLimitGlobal = value
			case "sync":
				cfg.RateLimitSync = value
			case "dispatch":
				cfg.RateLimitDispatch = value
			}

			// Must not panic
			err := cfg.Validate()

			inBounds := value >= 1 && value <= field.max

			if !inBounds && err == nil {
				t.Fatalf("expected validation error for %s=%d", field.name, value)
			}

			if inBounds && err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, field.envName) {
					t.Fatalf("unexpected rate limit error for valid %s=%d: %v", field.name, value, err)
				}
			}
		}
	})
}
