package pageable

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"hash/maphash"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// PageToken is an opaque descriptor addressing one page of a server-partitioned
// result set. Callers pass it back unchanged; only the issuing server assigns
// meaning to its contents. The zero value addresses the first page.
type PageToken string

// IsFirstPage reports whether the token addresses the first page of the
// result set, which the zero value does.
func (t PageToken) IsFirstPage() bool {
	return t == ""
}

// Links holds named navigation URIs attached to a page, keyed by relation
// (for example "self" or "next").
type Links map[string]string

// Cursor is the decoded form of a PageToken issued by this service.
type Cursor struct {
	ID         string `json:"id"`
	PointsNext bool   `json:"points_next"`
}

// EncodeCursor encodes a cursor into an opaque page token.
func EncodeCursor(id string, pointsNext bool) PageToken {
	serialized, _ := json.Marshal(Cursor{ID: id, PointsNext: pointsNext})
	return PageToken(base64.StdEncoding.EncodeToString(serialized))
}

// DecodeCursor decodes a page token issued by EncodeCursor.
func DecodeCursor(token PageToken) (Cursor, error) {
	decoded, err := base64.StdEncoding.DecodeString(string(token))
	if err != nil {
		return Cursor{}, fmt.Errorf("malformed page token: %w", constant.ErrInvalidPageCursor)
	}

	var cur Cursor

	if err := json.Unmarshal(decoded, &cur); err != nil {
		return Cursor{}, fmt.Errorf("malformed page token payload: %w", constant.ErrInvalidPageCursor)
	}

	return cur, nil
}

// Paging describes the position of one page inside a server-partitioned
// result set. Next and Prev carry the descriptors of the adjacent pages when
// the server reports them.
type Paging struct {
	Limit  int        `json:"limit" example:"100"`
	Offset int64      `json:"offset" example:"200"`
	Total  *int64     `json:"total,omitempty" example:"1042"`
	Next   *PageToken `json:"next,omitempty"`
	Prev   *PageToken `json:"prev,omitempty"`
}

// NextPage returns the descriptor of the following page. The second return
// reports whether the server announced one.
func (p *Paging) NextPage() (PageToken, bool) {
	if p == nil || p.Next == nil {
		return "", false
	}

	return *p.Next, true
}

// PrevPage returns the descriptor of the preceding page. The second return
// reports whether the server announced one.
func (p *Paging) PrevPage() (PageToken, bool) {
	if p == nil || p.Prev == nil {
		return "", false
	}

	return *p.Prev, true
}

// HasNext reports whether the server announced a following page.
func (p *Paging) HasNext() bool {
	_, ok := p.NextPage()
	return ok
}

// Equal reports whether two paging descriptors carry the same position,
// comparing pointer fields by pointed-to value.
func (p *Paging) Equal(other *Paging) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.Limit == other.Limit &&
		p.Offset == other.Offset &&
		ptrEqual(p.Total, other.Total) &&
		ptrEqual(p.Next, other.Next) &&
		ptrEqual(p.Prev, other.Prev)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

// collectionSeed keeps hashes stable within a process so values can key maps,
// while staying deliberately unstable across processes.
var collectionSeed = maphash.MakeSeed()

// hash folds the descriptor's fields with the 31 multiplier, nil pointers
// contributing zero.
func (p *Paging) hash() uint64 {
	if p == nil {
		return 0
	}

	h := uint64(1)
	h = h*31 + maphash.Comparable(collectionSeed, p.Limit)
	h = h*31 + maphash.Comparable(collectionSeed, p.Offset)
	h = h*31 + ptrHash(p.Total)
	h = h*31 + ptrHash(p.Next)
	h = h*31 + ptrHash(p.Prev)

	return h
}

func ptrHash[T comparable](p *T) uint64 {
	if p == nil {
		return 0
	}

	return maphash.Comparable(collectionSeed, *p)
}

// hash sums per-entry hashes so that map iteration order cannot influence the
// result. A nil map and an empty map both hash to zero.
func (l Links) hash() uint64 {
	var sum uint64

	for k, v := range l {
		sum += maphash.Comparable(collectionSeed, k)*31 + maphash.Comparable(collectionSeed, v)
	}

	return sum
}
