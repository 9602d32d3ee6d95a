// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"net/url"
	"strings"

	"github.com/LerianStudio/datafeed/pkg/constant"
)

// sensitiveQueryParams are query parameter names whose values are masked by
// RedactSourceURL. Source endpoints commonly pass credentials this way.
var sensitiveQueryParams = map[string]struct{}{
	"api_key":      {},
	"apikey":       {},
	"token":        {},
	"access_token": {},
	"secret":       {},
}

// RedactConnectionString masks credentials in a connection URI so it can be
// logged. The username and password are both replaced with a placeholder.
// Returns "[invalid-uri]" if parsing fails.
func RedactConnectionString(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "[invalid-uri]"
	}

	if u.User != nil {
		u.User = url.UserPassword(constant.RedactPlaceholder, constant.RedactPlaceholder)
	}

	return u.String()
}

// RedactSourceURL masks credentials embedded in a feed source URL, both in
// the userinfo section and in well-known sensitive query parameters.
// Returns "[invalid-uri]" if parsing fails.
func RedactSourceURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[invalid-uri]"
	}

	if u.User != nil {
		u.User = url.UserPassword(constant.RedactPlaceholder, constant.RedactPlaceholder)
	}

	q := u.Query()

	changed := false

	for name := range q {
		if _, ok := sensitiveQueryParams[strings.ToLower(name)]; ok {
			q.Set(name, constant.RedactPlaceholder)

			changed = true
		}
	}

	if changed {
		u.RawQuery = q.Encode()
	}

	return u.String()
}
