// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package model

import (
	"github.com/LerianStudio/datafeed/pkg/pageable"
)

// Page is the envelope returned by listing endpoints. It mirrors the wire
// shape of pageable.PagedCollection so offset-paginated listings (feeds) and
// cursor-paginated listings (entries) respond with the same structure the
// sync worker consumes from upstream sources.
//
// swagger:model Page
//
// @Description Page is the envelope returned by listing endpoints: items plus paging descriptors and hypermedia links.
type Page struct {
	Items  any              `json:"items"`
	Paging *pageable.Paging `json:"paging,omitempty"`
	Links  pageable.Links   `json:"links,omitempty"`
} // @name Page

// NewPage assembles an envelope. A nil items slice is normalized to an empty
// one so the items field always serializes as a JSON array.
func NewPage(items any, paging *pageable.Paging, links pageable.Links) *Page {
	if items == nil {
		items = []any{}
	}

	return &Page{
		Items:  items,
		Paging: paging,
		Links:  links,
	}
}
