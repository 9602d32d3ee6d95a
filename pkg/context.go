// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package pkg

import (
	"context"

	"github.com/LerianStudio/lib-commons/v3/commons/log"
	// otel/trace is a structural dependency: this project-level wrapper returns trace.Tracer
	// directly; no lib-commons abstraction wraps the Tracer interface itself.
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type trackingContextKey string

// TrackingContextKey carries the logger and tracer seeded outside the HTTP
// middleware chain. The worker consumer runs without fiber, so message
// handlers get their tracking values through this key instead.
var TrackingContextKey = trackingContextKey("tracking_context")

// TrackingContextValue bundles the observability handles one context carries.
type TrackingContextValue struct {
	Tracer trace.Tracer
	Logger log.Logger
}

// NewLoggerFromContext extracts the Logger seeded by ContextWithLogger or
// ContextWithTracking. Returns a NoneLogger when the context carries none, so
// call sites never nil-check.
func NewLoggerFromContext(ctx context.Context) log.Logger {
	if tracking, ok := ctx.Value(TrackingContextKey).(*TrackingContextValue); ok &&
		tracking.Logger != nil {
		return tracking.Logger
	}

	return &log.NoneLogger{}
}

// NewTracerFromContext extracts the Tracer seeded by ContextWithTracer or
// ContextWithTracking, falling back to a noop tracer.
func NewTracerFromContext(ctx context.Context) trace.Tracer {
	if tracking, ok := ctx.Value(TrackingContextKey).(*TrackingContextValue); ok &&
		tracking.Tracer != nil {
		return tracking.Tracer
	}

	return noop.Tracer{}
}

// ContextWithLogger returns a context carrying the given Logger.
func ContextWithLogger(ctx context.Context, logger log.Logger) context.Context {
	tracking, _ := ctx.Value(TrackingContextKey).(*TrackingContextValue)
	if tracking == nil {
		tracking = &TrackingContextValue{}
	}

	tracking.Logger = logger

	return context.WithValue(ctx, TrackingContextKey, tracking)
}

// ContextWithTracer returns a context carrying the given trace.Tracer.
func ContextWithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	tracking, _ := ctx.Value(TrackingContextKey).(*TrackingContextValue)
	if tracking == nil {
		tracking = &TrackingContextValue{}
	}

	tracking.Tracer = tracer

	return context.WithValue(ctx, TrackingContextKey, tracking)
}

// ContextWithTracking seeds logger and tracer in one step. This is what the
// worker bootstrap hands to every message handler.
func ContextWithTracking(ctx context.Context, logger log.Logger, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, TrackingContextKey, &TrackingContextValue{
		Logger: logger,
		Tracer: tracer,
	})
}
