// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"runtime/debug"

	"github.com/LerianStudio/lib-commons/v3/commons/log"
)

// Go runs fn on a new goroutine and recovers any panic, logging the panic
// value and stack trace instead of crashing the process.
func Go(logger log.Logger, fn func()) {
	go protect(logger, "", fn, nil)
}

// GoNamed is Go with a name included in the recovery log line, for telling
// long-lived goroutines apart.
func GoNamed(logger log.Logger, name string, fn func()) {
	go protect(logger, name, fn, nil)
}

// GoWithCleanup is Go with a cleanup hook invoked after a recovered panic.
// Use it for goroutines that hold resources or must trigger cancellation on
// failure; cleanup receives the recovered value.
func GoWithCleanup(logger log.Logger, fn func(), cleanup func(recovered any)) {
	go protect(logger, "", fn, cleanup)
}

func protect(logger log.Logger, name string, fn func(), cleanup func(recovered any)) {
	defer func() {
		if r := recover(); r != nil {
			if name != "" {
				logger.Errorf("Goroutine %q panic recovered: %v\nStack: %s", name, r, string(debug.Stack()))
			} else {
				logger.Errorf("Goroutine panic recovered: %v\nStack: %s", r, string(debug.Stack()))
			}

			if cleanup != nil {
				cleanup(r)
			}
		}
	}()

	fn()
}
