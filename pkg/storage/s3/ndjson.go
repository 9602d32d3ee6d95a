// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package s3storage

import (
	"bytes"
	"encoding/json"
)

// EncodeNDJSON renders items as newline-delimited JSON, one object per line.
// An empty set encodes to an empty document.
func EncodeNDJSON[T any](items []T) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)

	for i := range items {
		// Encode appends the newline separator itself.
		if err := enc.Encode(items[i]); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeNDJSON parses a newline-delimited JSON document back into items.
func DecodeNDJSON[T any](data []byte) ([]T, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var items []T

	for dec.More() {
		var item T
		if err := dec.Decode(&item); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
