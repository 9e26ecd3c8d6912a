// Copyright 2022 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package tracecontext

import (
	"context"

	"github.com/rs/zerolog"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type TraceContext struct {
	TraceID  string
	SpanID   string
	ParentID string
}

// Extract returns the identifiers of the span held by ctx, or nil if there is no
// recording span.
func Extract(ctx context.Context) *TraceContext {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()

	if !spanCtx.IsValid() {
		return nil
	}

	tc := &TraceContext{
		TraceID: spanCtx.TraceID().String(),
		SpanID:  spanCtx.SpanID().String(),
	}

	if roSpan, ok := span.(sdktrace.ReadOnlySpan); ok && roSpan.Parent().IsValid() {
		tc.ParentID = roSpan.Parent().SpanID().String()
	}

	return tc
}

// Enrich adds the trace identifiers found in ctx to the given logger context.
func Enrich(ctx context.Context, lc zerolog.Context) zerolog.Context {
	tc := Extract(ctx)
	if tc == nil {
		return lc
	}

	lc = lc.Str("_trace_id", tc.TraceID).Str("_span_id", tc.SpanID)
	if len(tc.ParentID) != 0 {
		lc = lc.Str("_parent_id", tc.ParentID)
	}

	return lc
}
