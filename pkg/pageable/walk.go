// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pageable

import (
	"context"
	"fmt"
	"iter"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// PageFetchFunc retrieves the page addressed by token. The zero token
// addresses the first page. Implementations are expected to perform exactly
// one upstream request per call.
type PageFetchFunc[E comparable] func(ctx context.Context, token PageToken) (*PagedCollection[E], error)

// Pages returns an iterator that walks a result set page by page, starting at
// the page addressed by start and following each page's next descriptor. It
// performs one fetch per yielded page and preserves server page order.
//
// The walk ends after the first page that announces no successor. A fetch
// error or a cancelled context is yielded once with a nil page, then the walk
// stops. A walk that would exceed MaxPageWalk pages stops with a wrapped
// ErrPageWalkLimitExceeded: an endlessly reappearing next descriptor is a
// broken upstream pager, not a large result set.
//
// Aggregating from an already-fetched first page costs no extra fetch: take
// its CurrentPageItems and walk from its NextPage token.
func Pages[E comparable](ctx context.Context, fetch PageFetchFunc[E], start PageToken) iter.Seq2[*PagedCollection[E], error] {
	return func(yield func(*PagedCollection[E], error) bool) {
		token := start

		for fetched := 0; ; fetched++ {
			if fetched >= constant.MaxPageWalk {
				yield(nil, fmt.Errorf("aborted after %d pages: %w", constant.MaxPageWalk, constant.ErrPageWalkLimitExceeded))
				return
			}

			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := fetch(ctx, token)
			if err != nil {
				yield(nil, err)
				return
			}

			if page == nil {
				yield(nil, fmt.Errorf("page fetch returned no page for token %q", token))
				return
			}

			if !yield(page, nil) {
				return
			}

			next, ok := page.NextPage()
			if !ok {
				return
			}

			token = next
		}
	}
}

// CollectAllPages walks the result set starting at the page addressed by
// start and returns every item in page order. Three pages cost exactly three
// fetches. On error the items aggregated so far are discarded.
func CollectAllPages[E comparable](ctx context.Context, fetch PageFetchFunc[E], start PageToken) ([]E, error) {
	var all []E

	for page, err := range Pages(ctx, fetch, start) {
		if err != nil {
			return nil, err
		}

		all = append(all, page.CurrentPageItems()...)
	}

	return all, nil
}
