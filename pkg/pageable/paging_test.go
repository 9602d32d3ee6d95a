package pageable

import (
	"testing"

	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageToken_ZeroValueIsFirstPage(t *testing.T) {
	t.Parallel()

	var token PageToken

	assert.True(t, token.IsFirstPage())
	assert.False(t, PageToken("tok-2").IsFirstPage())
}

func TestEncodeDecodeCursor(t *testing.T) {
	t.Parallel()

	token := EncodeCursor("0197fa11-ca02-7b5b-8452-ffd3e1f69f7b", true)
	require.False(t, token.IsFirstPage())

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "0197fa11-ca02-7b5b-8452-ffd3e1f69f7b", decoded.ID)
	assert.True(t, decoded.PointsNext)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token PageToken
	}{
		{name: "not base64", token: "%%%not-base64%%%"},
		{name: "base64 but not json", token: "bm90LWpzb24="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeCursor(tt.token)

			require.Error(t, err)
			assert.ErrorIs(t, err, constant.ErrInvalidPageCursor)
		})
	}
}

func TestPaging_NextPrev(t *testing.T) {
	t.Parallel()

	next := PageToken("tok-next")
	prev := PageToken("tok-prev")

	tests := []struct {
		name     string
		paging   *Paging
		wantNext bool
		wantPrev bool
	}{
		{name: "nil paging", paging: nil},
		{name: "no tokens", paging: &Paging{Limit: 10}},
		{name: "next only", paging: &Paging{Limit: 10, Next: &next}, wantNext: true},
		{name: "prev only", paging: &Paging{Limit: 10, Prev: &prev}, wantPrev: true},
		{name: "both tokens", paging: &Paging{Limit: 10, Next: &next, Prev: &prev}, wantNext: true, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotNext, okNext := tt.paging.NextPage()
			assert.Equal(t, tt.wantNext, okNext)
			assert.Equal(t, tt.wantNext, tt.paging.HasNext())

			if tt.wantNext {
				assert.Equal(t, next, gotNext)
			}

			gotPrev, okPrev := tt.paging.PrevPage()
			assert.Equal(t, tt.wantPrev, okPrev)

			if tt.wantPrev {
				assert.Equal(t, prev, gotPrev)
			}
		})
	}
}

func TestPaging_Equal(t *testing.T) {
	t.Parallel()

	next := PageToken("tok-2")
	total := int64(42)

	tests := []struct {
		name string
		a    *Paging
		b    *Paging
		want bool
	}{
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "nil versus zero value", a: nil, b: &Paging{}, want: false},
		{name: "same fields", a: &Paging{Limit: 10, Offset: 20}, b: &Paging{Limit: 10, Offset: 20}, want: true},
		{name: "different limit", a: &Paging{Limit: 10}, b: &Paging{Limit: 25}, want: false},
		{name: "different offset", a: &Paging{Offset: 10}, b: &Paging{Offset: 0}, want: false},
		{
			name: "same token through different pointers",
			a:    &Paging{Next: &next},
			b:    &Paging{Next: func() *PageToken { v := PageToken("tok-2"); return &v }()},
			want: true,
		},
		{name: "token versus no token", a: &Paging{Next: &next}, b: &Paging{}, want: false},
		{name: "same total", a: &Paging{Total: &total}, b: &Paging{Total: func() *int64 { v := int64(42); return &v }()}, want: true},
		{name: "different total", a: &Paging{Total: &total}, b: &Paging{Total: func() *int64 { v := int64(7); return &v }()}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))

			if tt.want {
				assert.Equal(t, tt.a.hash(), tt.b.hash())
			}
		})
	}
}

func TestLinks_HashIgnoresInsertionOrder(t *testing.T) {
	t.Parallel()

	a := Links{}
	a["self"] = "/v1/feeds/x/entries"
	a["next"] = "/v1/feeds/x/entries?cursor=abc"
	a["prev"] = "/v1/feeds/x/entries?cursor=def"

	b := Links{}
	b["prev"] = "/v1/feeds/x/entries?cursor=def"
	b["next"] = "/v1/feeds/x/entries?cursor=abc"
	b["self"] = "/v1/feeds/x/entries"

	assert.Equal(t, a.hash(), b.hash())
}

func TestLinks_HashNilAndEmpty(t *testing.T) {
	t.Parallel()

	var nilLinks Links

	assert.Zero(t, nilLinks.hash())
	assert.Zero(t, Links{}.hash())
	assert.NotZero(t, Links{"self": "/x"}.hash())
}
