// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package http

import (
	"testing"

	"github.com/LerianStudio/datafeed/pkg/pageable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParameters(t *testing.T) {
	t.Run("empty params fall back to defaults", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{})
		require.NoError(t, err)

		assert.Equal(t, 10, result.Limit)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, "desc", result.SortOrder)
		assert.Empty(t, result.Name)
		assert.Empty(t, result.Status)
		assert.True(t, result.Cursor.IsFirstPage())
		assert.False(t, result.UseMetadata)
		assert.Nil(t, result.Metadata)
	})

	t.Run("snake_case filter params populate the header", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{
			"name":       "daily-balances",
			"status":     "synced",
			"limit":      "20",
			"page":       "2",
			"sort_order": "asc",
			"created_at": "2024-01-15",
		})
		require.NoError(t, err)

		assert.Equal(t, "daily-balances", result.Name)
		assert.Equal(t, "synced", result.Status)
		assert.Equal(t, 20, result.Limit)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, "asc", result.SortOrder)
		assert.Equal(t, "2024-01-15", result.CreatedAt.Format("2006-01-02"))
	})

	t.Run("legacy camelCase params still parse", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{
			"sortOrder": "asc",
			"createdAt": "2025-06-30",
		})
		require.NoError(t, err)

		assert.Equal(t, "asc", result.SortOrder)
		assert.Equal(t, "2025-06-30", result.CreatedAt.Format("2006-01-02"))
	})

	t.Run("snake_case wins when both spellings are sent", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{
			"sort_order": "asc",
			"sortOrder":  "desc",
		})
		require.NoError(t, err)

		assert.Equal(t, "asc", result.SortOrder)
	})

	t.Run("metadata params switch the header to metadata mode", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{
			"metadata.env": "prod",
		})
		require.NoError(t, err)

		assert.True(t, result.UseMetadata)
		require.NotNil(t, result.Metadata)
		assert.Equal(t, "prod", (*result.Metadata)["metadata.env"])
	})
}

func TestValidateParametersSortOrder(t *testing.T) {
	t.Run("any casing of asc and desc is accepted and lowercased", func(t *testing.T) {
		for _, order := range []string{"asc", "ASC", "Asc", "desc", "DESC", "Desc"} {
			result, err := ValidateParameters(map[string]string{"sort_order": order})
			require.NoError(t, err, "sort order %q", order)

			assert.Contains(t, []string{"asc", "desc"}, result.SortOrder)
		}
	})

	t.Run("anything else is rejected in either spelling", func(t *testing.T) {
		for _, params := range []map[string]string{
			{"sort_order": "sideways"},
			{"sortOrder": "sideways"},
		} {
			_, err := ValidateParameters(params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DTF-0014")
		}
	})
}

func TestValidateParametersBounds(t *testing.T) {
	rejected := []struct {
		name   string
		params map[string]string
	}{
		{name: "limit is not a number", params: map[string]string{"limit": "ten"}},
		{name: "limit is fractional", params: map[string]string{"limit": "10.5"}},
		{name: "limit is zero", params: map[string]string{"limit": "0"}},
		{name: "limit is negative", params: map[string]string{"limit": "-1"}},
		{name: "page is not a number", params: map[string]string{"page": "two"}},
		{name: "page is fractional", params: map[string]string{"page": "1.5"}},
		{name: "page is zero", params: map[string]string{"page": "0"}},
		{name: "page is negative", params: map[string]string{"page": "-5"}},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateParameters(tt.params)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "DTF-0004")
			assert.Nil(t, result)
		})
	}

	t.Run("positive limit and page pass", func(t *testing.T) {
		result, err := ValidateParameters(map[string]string{"limit": "25", "page": "100"})
		require.NoError(t, err)

		assert.Equal(t, 25, result.Limit)
		assert.Equal(t, 100, result.Page)
	})

	t.Run("limit above the configured cap is rejected", func(t *testing.T) {
		t.Setenv("MAX_PAGINATION_LIMIT", "100")

		_, err := ValidateParameters(map[string]string{"limit": "150"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DTF-0013")
	})
}

func TestValidateParametersCursor(t *testing.T) {
	t.Run("an encoded cursor round-trips into the header", func(t *testing.T) {
		cursor := pageable.EncodeCursor("0197fa13", true)

		result, err := ValidateParameters(map[string]string{"cursor": string(cursor)})
		require.NoError(t, err)

		assert.Equal(t, cursor, result.Cursor)
	})

	t.Run("garbage cursors are rejected before hitting storage", func(t *testing.T) {
		_, err := ValidateParameters(map[string]string{"cursor": "not-base64-at-all"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DTF-0004")
	})
}

func TestQueryHeaderPagination(t *testing.T) {
	header := &QueryHeader{
		Limit:     20,
		Page:      3,
		SortOrder: "asc",
		Cursor:    pageable.PageToken("opaque-token"),
	}

	t.Run("offset pagination drops the cursor", func(t *testing.T) {
		p := header.ToOffsetPagination()

		assert.Equal(t, Pagination{Limit: 20, Page: 3, SortOrder: "asc"}, p)
	})

	t.Run("cursor pagination drops the page number", func(t *testing.T) {
		p := header.ToCursorPagination()

		assert.Equal(t, Pagination{Limit: 20, Cursor: pageable.PageToken("opaque-token"), SortOrder: "asc"}, p)
	})
}

func TestNormalizeParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  map[string]string
		expect map[string]string
	}{
		{
			name:   "camelCase aliases are rewritten",
			input:  map[string]string{"sortOrder": "asc", "createdAt": "2024-01-15"},
			expect: map[string]string{"sort_order": "asc", "created_at": "2024-01-15"},
		},
		{
			name:   "snake_case passes through untouched",
			input:  map[string]string{"sort_order": "desc", "created_at": "2024-01-15"},
			expect: map[string]string{"sort_order": "desc", "created_at": "2024-01-15"},
		},
		{
			name:   "snake_case value survives a camelCase duplicate",
			input:  map[string]string{"sort_order": "asc", "sortOrder": "desc"},
			expect: map[string]string{"sort_order": "asc"},
		},
		{
			name:   "keys without an alias are untouched",
			input:  map[string]string{"limit": "10", "page": "1", "status": "synced", "name": "daily-balances"},
			expect: map[string]string{"limit": "10", "page": "1", "status": "synced", "name": "daily-balances"},
		},
		{
			name:   "metadata keys are untouched",
			input:  map[string]string{"metadata.env": "prod"},
			expect: map[string]string{"metadata.env": "prod"},
		},
		{
			name:   "empty input stays empty",
			input:  map[string]string{},
			expect: map[string]string{},
		},
		{
			name:   "aliased and plain keys mix",
			input:  map[string]string{"createdAt": "2024-06-01", "limit": "5", "sortOrder": "desc"},
			expect: map[string]string{"created_at": "2024-06-01", "limit": "5", "sort_order": "desc"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expect, normalizeParams(tt.input))
		})
	}
}
