// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// FullJitter picks a uniformly random delay from [0, baseDelay), bounded by
// the producer reconnect ceiling. Randomizing over the whole window keeps
// publishers from hammering the broker in lockstep after an outage.
func FullJitter(baseDelay time.Duration) time.Duration {
	return FullJitterCapped(baseDelay, constant.ProducerMaxBackoff)
}

// FullJitterCapped is FullJitter with a caller-supplied ceiling. Source page
// fetches retry under a tighter ceiling than producer reconnects.
func FullJitterCapped(baseDelay, max time.Duration) time.Duration {
	window := baseDelay
	if window > max {
		window = max
	}

	if window <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(window)))
	if err != nil {
		// crypto/rand failure leaves us without entropy; half the window
		// still spaces retries out.
		return window / 2
	}

	return time.Duration(n.Int64())
}

// NextBackoff grows the current delay by the producer backoff factor,
// clamped at the reconnect ceiling.
func NextBackoff(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * constant.ProducerBackoffFactor)
	if next > constant.ProducerMaxBackoff {
		next = constant.ProducerMaxBackoff
	}

	return next
}
