// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package sourceapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LerianStudio/datafeed/pkg"
	"github.com/LerianStudio/datafeed/pkg/constant"
	"github.com/LerianStudio/datafeed/pkg/model"
	"github.com/LerianStudio/datafeed/pkg/pageable"

	"github.com/LerianStudio/lib-commons/v3/commons"
	"github.com/LerianStudio/lib-commons/v3/commons/log"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v3/commons/opentelemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Client fetches one page of entries from an upstream paged API.
//
//go:generate mockgen --destination=client.mock.go --package=sourceapi --copyright_file=../../COPYRIGHT . Client
type Client interface {
	FetchPage(ctx context.Context, sourceURL, resource string, token pageable.PageToken, limit int) (*pageable.PagedCollection[model.FeedEntryPayload], error)
}

// HTTPClient is the HTTP implementation of the source Client. One circuit
// breaker per source host fast-fails fetches against a source that keeps
// erroring, and transient failures are retried with jittered backoff.
type HTTPClient struct {
	httpClient *http.Client
	breakers   *pkg.CircuitBreakerManager
}

// Compile-time interface satisfaction check.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a source API client.
func NewHTTPClient(logger log.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: constant.SourceHTTPTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: constant.SourceHTTPMaxIdleConns,
			},
		},
		breakers: pkg.NewCircuitBreakerManager(logger),
	}
}

// permanentStatusError marks HTTP statuses that a retry cannot fix.
type permanentStatusError struct {
	status int
	body   string
}

func (e *permanentStatusError) Error() string {
	return fmt.Sprintf("source returned status %d: %s", e.status, e.body)
}

// FetchPage GETs {sourceURL}/{resource}?cursor=...&limit=... and decodes the
// page envelope. 5xx responses and transport errors are retried up to
// SourceFetchMaxRetries attempts; 4xx responses and malformed envelopes fail
// immediately. All failures surface as ErrSourcePageFetch so the caller can
// map them uniformly.
func (c *HTTPClient) FetchPage(ctx context.Context, sourceURL, resource string, token pageable.PageToken, limit int) (*pageable.PagedCollection[model.FeedEntryPayload], error) {
	logger, tracer, reqId, _ := commons.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "client.sourceapi.fetch_page")
	defer span.End()

	span.SetAttributes(
		attribute.String("app.request.request_id", reqId),
		attribute.String("app.request.source_url", sourceURL),
		attribute.String("app.request.resource", resource),
		attribute.Int("app.request.limit", limit),
		attribute.Bool("app.request.first_page", token.IsFirstPage()),
	)

	pageURL, err := buildPageURL(sourceURL, resource, token, limit)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to build page URL", err)

		return nil, pkg.ValidateBusinessError(constant.ErrSourcePageFetch, "", err.Error())
	}

	host := hostOf(sourceURL)
	backoff := constant.SourceFetchInitialBackoff

	var lastErr error

	for attempt := 1; attempt <= constant.SourceFetchMaxRetries; attempt++ {
		if attempt > 1 {
			delay := pkg.FullJitterCapped(backoff, constant.SourceFetchMaxBackoff)
			logger.Warnf("Retrying page fetch from %s (attempt %d/%d) after %v: %v",
				host, attempt, constant.SourceFetchMaxRetries, delay, lastErr)

			select {
			case <-ctx.Done():
				libOpentelemetry.HandleSpanError(&span, "Page fetch canceled", ctx.Err())

				return nil, ctx.Err()
			case <-time.After(delay):
			}

			backoff *= 2
		}

		result, err := c.breakers.Execute(host, func() (any, error) {
			return c.doFetch(ctx, pageURL)
		})
		if err == nil {
			page := result.(*pageable.PagedCollection[model.FeedEntryPayload])

			span.SetAttributes(
				attribute.Int("app.response.items", page.Len()),
				attribute.Bool("app.response.has_next", page.HasNextPage()),
			)

			return page, nil
		}

		lastErr = err

		var permanent *permanentStatusError
		if errors.As(err, &permanent) {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Source rejected page request", err)

			return nil, pkg.ValidateBusinessError(constant.ErrSourcePageFetch, "", err.Error())
		}

		if errors.Is(err, constant.ErrNilItems) || errors.Is(err, constant.ErrInvalidPageCursor) {
			libOpentelemetry.HandleSpanBusinessErrorEvent(&span, "Source served a malformed page envelope", err)

			return nil, err
		}
	}

	libOpentelemetry.HandleSpanError(&span, "Page fetch exhausted retries", lastErr)

	return nil, pkg.ValidateBusinessError(constant.ErrSourcePageFetch, "", lastErr.Error())
}

// doFetch performs one page request and decodes the envelope.
func (c *HTTPClient) doFetch(ctx context.Context, pageURL string) (*pageable.PagedCollection[model.FeedEntryPayload], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("source returned status %d: %s", resp.StatusCode, truncateBody(body))
		}

		return nil, &permanentStatusError{status: resp.StatusCode, body: truncateBody(body)}
	}

	page := &pageable.PagedCollection[model.FeedEntryPayload]{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to decode page envelope: %w", err)
	}

	return page, nil
}

// buildPageURL assembles the page request URL. The cursor is omitted on the
// first page, matching what sources expect for an unanchored request.
func buildPageURL(sourceURL, resource string, token pageable.PageToken, limit int) (string, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid source url %q: %w", sourceURL, err)
	}

	joined := base.JoinPath(resource)

	query := joined.Query()
	query.Set("limit", fmt.Sprintf("%d", limit))

	if !token.IsFirstPage() {
		query.Set("cursor", string(token))
	}

	joined.RawQuery = query.Encode()

	return joined.String(), nil
}

func hostOf(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Host == "" {
		return sourceURL
	}

	return parsed.Host
}

// truncateBody bounds error payloads recorded from upstream responses.
func truncateBody(body []byte) string {
	const maxLen = 256

	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}

	return string(body)
}
