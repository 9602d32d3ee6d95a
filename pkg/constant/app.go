// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package constant

const ApplicationName = "datafeed"

// DefaultPasswordPlaceholder is the placeholder value that must be replaced before production use.
const DefaultPasswordPlaceholder = "CHANGE_ME"

// RedactPlaceholder is the replacement value for masked credentials in connection strings.
const RedactPlaceholder = "REDACTED"

// MaxFeedNameLength is the maximum length accepted for a feed name.
const MaxFeedNameLength = 256

// MaxFeedDescriptionLength is the maximum length accepted for a feed description.
const MaxFeedDescriptionLength = 1024
