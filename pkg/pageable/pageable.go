// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

// Package pageable provides a mutable, ordered view over one page of a
// server-partitioned result set, together with the paging descriptor and
// navigation links the server attached to it. Multi-page aggregation is an
// explicit walk (see Pages and CollectAllPages); no method on a collection
// performs network access.
package pageable

import (
	"fmt"
	"hash/maphash"
	"iter"
	"maps"
	"slices"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// PagedCollection wraps the items of exactly one page. It exposes the full
// mutable-sequence contract over those items; mutations never touch the
// paging descriptor or links, so a heavily edited page still knows where its
// successor lives.
//
// A PagedCollection is not safe for concurrent use. Structural modification
// during iteration is detected on a best-effort basis and panics.
type PagedCollection[E comparable] struct {
	items   []E
	paging  *Paging
	links   Links
	version uint64
}

// NewPagedCollection creates an empty collection with no paging descriptor
// and no links, standing in for an empty first page.
func NewPagedCollection[E comparable]() *PagedCollection[E] {
	return &PagedCollection[E]{items: []E{}}
}

// NewPagedCollectionWithPaging creates a collection over one page of items
// with its paging descriptor. The items slice is adopted, not copied.
//
// Returns a wrapped ErrNilItems when items is nil: a page with no results
// must be an empty slice, never nil.
func NewPagedCollectionWithPaging[E comparable](items []E, paging *Paging) (*PagedCollection[E], error) {
	return NewPagedCollectionFull(items, paging, nil)
}

// NewPagedCollectionFull creates a collection over one page of items with its
// paging descriptor and navigation links. The items slice and links map are
// adopted, not copied.
func NewPagedCollectionFull[E comparable](items []E, paging *Paging, links Links) (*PagedCollection[E], error) {
	if items == nil {
		return nil, fmt.Errorf("paged collection items must not be nil: %w", constant.ErrNilItems)
	}

	return &PagedCollection[E]{items: items, paging: paging, links: links}, nil
}

// NextPage returns the descriptor of the page following this one. The second
// return reports whether the server announced one.
func (c *PagedCollection[E]) NextPage() (PageToken, bool) {
	return c.paging.NextPage()
}

// HasNextPage reports whether the server announced a page after this one.
func (c *PagedCollection[E]) HasNextPage() bool {
	return c.paging.HasNext()
}

// Paging returns the paging descriptor attached to this page, or nil when the
// response carried none.
func (c *PagedCollection[E]) Paging() *Paging {
	return c.paging
}

// Links returns the navigation links attached to this page, or nil when the
// response carried none. The returned map is live, not a copy.
func (c *PagedCollection[E]) Links() Links {
	return c.links
}

// CurrentPageItems returns the items of this page as a live slice: element
// writes through it are visible to the collection and vice versa.
func (c *PagedCollection[E]) CurrentPageItems() []E {
	return c.items
}

// CollectAll returns a copy of the items reachable without further fetching,
// which is exactly the current page. Aggregating a whole result set requires
// walking the remaining pages with Pages or CollectAllPages.
func (c *PagedCollection[E]) CollectAll() []E {
	return slices.Clone(c.items)
}

// Len returns the number of items on this page.
func (c *PagedCollection[E]) Len() int {
	return len(c.items)
}

// IsEmpty reports whether this page holds no items.
func (c *PagedCollection[E]) IsEmpty() bool {
	return len(c.items) == 0
}

// Contains reports whether v occurs on this page.
func (c *PagedCollection[E]) Contains(v E) bool {
	return slices.Contains(c.items, v)
}

// IndexOf returns the position of the first occurrence of v, or -1.
func (c *PagedCollection[E]) IndexOf(v E) int {
	return slices.Index(c.items, v)
}

// LastIndexOf returns the position of the last occurrence of v, or -1.
func (c *PagedCollection[E]) LastIndexOf(v E) int {
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i] == v {
			return i
		}
	}

	return -1
}

// Get returns the item at position i. Panics when i is out of range.
func (c *PagedCollection[E]) Get(i int) E {
	c.checkIndex(i)
	return c.items[i]
}

// Set replaces the item at position i and returns the previous value. An
// element write is not a structural modification, so running iterations are
// unaffected. Panics when i is out of range.
func (c *PagedCollection[E]) Set(i int, v E) E {
	c.checkIndex(i)

	prev := c.items[i]
	c.items[i] = v

	return prev
}

// Append adds items at the end of the page.
func (c *PagedCollection[E]) Append(vs ...E) {
	if len(vs) == 0 {
		return
	}

	c.items = append(c.items, vs...)
	c.version++
}

// Insert places v at position i, shifting later items right. i may equal
// Len(), which appends. Panics when i is out of range.
func (c *PagedCollection[E]) Insert(i int, v E) {
	if i < 0 || i > len(c.items) {
		panic(fmt.Sprintf("pageable: insert position %d out of range [0..%d]", i, len(c.items)))
	}

	c.items = slices.Insert(c.items, i, v)
	c.version++
}

// RemoveAt deletes the item at position i and returns it, shifting later
// items left. Panics when i is out of range.
func (c *PagedCollection[E]) RemoveAt(i int) E {
	c.checkIndex(i)

	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.version++

	return removed
}

// Remove deletes the first occurrence of v and reports whether one was found.
func (c *PagedCollection[E]) Remove(v E) bool {
	i := slices.Index(c.items, v)
	if i < 0 {
		return false
	}

	c.items = slices.Delete(c.items, i, i+1)
	c.version++

	return true
}

// RemoveAll deletes every occurrence of each given value and reports whether
// the page changed.
func (c *PagedCollection[E]) RemoveAll(vs ...E) bool {
	drop := make(map[E]struct{}, len(vs))
	for _, v := range vs {
		drop[v] = struct{}{}
	}

	return c.DeleteFunc(func(e E) bool {
		_, hit := drop[e]
		return hit
	}) > 0
}

// Retain keeps only occurrences of the given values, deleting everything
// else, and reports whether the page changed.
func (c *PagedCollection[E]) Retain(vs ...E) bool {
	keep := make(map[E]struct{}, len(vs))
	for _, v := range vs {
		keep[v] = struct{}{}
	}

	return c.DeleteFunc(func(e E) bool {
		_, hit := keep[e]
		return !hit
	}) > 0
}

// DeleteFunc removes every item for which del returns true, preserving the
// order of survivors, and returns how many were removed. This is the
// supported way to remove while traversing; removing from inside an All
// iteration panics instead.
func (c *PagedCollection[E]) DeleteFunc(del func(E) bool) int {
	before := len(c.items)

	c.items = slices.DeleteFunc(c.items, del)

	removed := before - len(c.items)
	if removed > 0 {
		c.version++
	}

	return removed
}

// Clear removes all items from the page. The paging descriptor and links are
// untouched.
func (c *PagedCollection[E]) Clear() {
	if len(c.items) == 0 {
		return
	}

	c.items = c.items[:0]
	c.version++
}

// All returns an iterator over index/item pairs in page order. Structural
// modification of the collection while the iteration is live panics; use
// DeleteFunc to remove during a traversal.
func (c *PagedCollection[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		v := c.version

		for i := 0; i < len(c.items); i++ {
			if c.version != v {
				panic("pageable: collection structurally modified during iteration")
			}

			if !yield(i, c.items[i]) {
				return
			}
		}
	}
}

// Sub returns the items in [i, j) as a capacity-clipped subslice. Element
// writes are shared with the collection in both directions; appends by the
// caller reallocate and detach instead of clobbering the page tail. Panics
// when the range is invalid.
func (c *PagedCollection[E]) Sub(i, j int) []E {
	if i < 0 || j < i || j > len(c.items) {
		panic(fmt.Sprintf("pageable: range [%d:%d] out of range [0..%d]", i, j, len(c.items)))
	}

	return c.items[i:j:j]
}

// ToSlice returns a copy of the page items.
func (c *PagedCollection[E]) ToSlice() []E {
	return slices.Clone(c.items)
}

// Equal reports whether two collections hold equal items in the same order,
// equal paging descriptors, and equal links. A nil links map and an empty one
// are distinct, mirroring the wire format where an absent node and an empty
// node differ.
func (c *PagedCollection[E]) Equal(other *PagedCollection[E]) bool {
	if c == nil || other == nil {
		return c == other
	}

	if !slices.Equal(c.items, other.items) {
		return false
	}

	if !c.paging.Equal(other.paging) {
		return false
	}

	if (c.links == nil) != (other.links == nil) {
		return false
	}

	return maps.Equal(c.links, other.links)
}

// Hash folds the three fields in declaration order with the 31 multiplier:
// items first, then the paging descriptor, then the links. Equal collections
// hash equally within a process; hashes are not stable across processes.
func (c *PagedCollection[E]) Hash() uint64 {
	h := uint64(1)
	for _, it := range c.items {
		h = h*31 + maphash.Comparable(collectionSeed, it)
	}

	h = h*31 + c.paging.hash()
	h = h*31 + c.links.hash()

	return h
}

func (c *PagedCollection[E]) checkIndex(i int) {
	if i < 0 || i >= len(c.items) {
		panic(fmt.Sprintf("pageable: index %d out of range [0..%d)", i, len(c.items)))
	}
}
