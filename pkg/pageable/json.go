package pageable

import (
	"encoding/json"
	"fmt"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// pageEnvelope is the wire shape of a page: an items node, an optional paging
// node, and an optional links node.
type pageEnvelope[E comparable] struct {
	Items  []E     `json:"items"`
	Paging *Paging `json:"paging,omitempty"`
	Links  Links   `json:"links,omitzero"`
}

// MarshalJSON encodes the collection as its page envelope. The items node is
// always present, as [] for an empty page. The paging node is omitted when
// nil. The links node is omitted when nil but kept as {} when empty,
// preserving the absent-versus-empty distinction Equal observes.
func (c *PagedCollection[E]) MarshalJSON() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []E{}
	}

	return json.Marshal(pageEnvelope[E]{Items: items, Paging: c.paging, Links: c.links})
}

// UnmarshalJSON decodes a page envelope in place, replacing the collection's
// contents. A missing or null items node is rejected with a wrapped
// ErrNilItems; an empty page must say "items": [].
func (c *PagedCollection[E]) UnmarshalJSON(data []byte) error {
	var env struct {
		Items  *[]E    `json:"items"`
		Paging *Paging `json:"paging"`
		Links  Links   `json:"links"`
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	if env.Items == nil {
		return fmt.Errorf("page envelope is missing its items node: %w", constant.ErrNilItems)
	}

	c.items = *env.Items
	c.paging = env.Paging
	c.links = env.Links
	c.version++

	return nil
}
