// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestIsNilOrEmpty(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected bool
	}{
		{
			name:     "Nil pointer",
			input:    nil,
			expected: true,
		},
		{
			name:     "Empty string",
			input:    strPtr(""),
			expected: true,
		},
		{
			name:     "Whitespace only",
			input:    strPtr("   "),
			expected: true,
		},
		{
			name:     "Null string literal",
			input:    strPtr("null"),
			expected: true,
		},
		{
			name:     "Nil string literal",
			input:    strPtr("nil"),
			expected: true,
		},
		{
			name:     "Non-empty string",
			input:    strPtr("settlements"),
			expected: false,
		},
		{
			name:     "String with surrounding whitespace",
			input:    strPtr("  settlements  "),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNilOrEmpty(tt.input))
		})
	}
}

func TestValidateServerAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Valid host and port",
			input:    "localhost:8080",
			expected: "localhost:8080",
		},
		{
			name:     "Valid IP and port",
			input:    "127.0.0.1:3000",
			expected: "127.0.0.1:3000",
		},
		{
			name:     "Missing port",
			input:    "localhost",
			expected: "",
		},
		{
			name:     "Missing host",
			input:    ":8080",
			expected: "",
		},
		{
			name:     "Non-numeric port",
			input:    "localhost:abc",
			expected: "",
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateServerAddress(tt.input))
		})
	}
}

func TestValidateSourceURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "Valid https URL",
			input:    "https://api.example.com/v1/settlements",
			expected: true,
		},
		{
			name:     "Valid http URL",
			input:    "http://source.internal:8080/entries",
			expected: true,
		},
		{
			name:     "URL with surrounding whitespace",
			input:    "  https://api.example.com  ",
			expected: true,
		},
		{
			name:     "Missing scheme",
			input:    "api.example.com/v1",
			expected: false,
		},
		{
			name:     "Unsupported scheme",
			input:    "ftp://files.example.com",
			expected: false,
		},
		{
			name:     "Scheme without host",
			input:    "https://",
			expected: false,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSourceURL(tt.input))
		})
	}
}

func TestSafeInt64ToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected int
	}{
		{
			name:     "Zero",
			input:    0,
			expected: 0,
		},
		{
			name:     "Positive value",
			input:    42,
			expected: 42,
		},
		{
			name:     "Negative value",
			input:    -42,
			expected: -42,
		},
		{
			name:     "Max int64 clamps to max int",
			input:    math.MaxInt64,
			expected: math.MaxInt,
		},
		{
			name:     "Min int64 clamps to min int",
			input:    math.MinInt64,
			expected: math.MinInt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeInt64ToInt(tt.input))
		})
	}
}

func TestSafeIntToInt32(t *testing.T) {
	assert.Equal(t, int32(7), SafeIntToInt32(7))
	assert.Equal(t, int32(math.MaxInt32), SafeIntToInt32(math.MaxInt))
	assert.Equal(t, int32(math.MinInt32), SafeIntToInt32(math.MinInt))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "Shorter than max",
			input:    "connection refused",
			max:      256,
			expected: "connection refused",
		},
		{
			name:     "Exactly max",
			input:    "abc",
			max:      3,
			expected: "abc",
		},
		{
			name:     "Longer than max",
			input:    strings.Repeat("x", 300),
			max:      256,
			expected: strings.Repeat("x", 256),
		},
		{
			name:     "Zero max",
			input:    "anything",
			max:      0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateString(tt.input, tt.max))
		})
	}
}
