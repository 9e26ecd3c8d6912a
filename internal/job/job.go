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

package job

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dadrus/o365nsg/internal/cache"
	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/directory"
	"github.com/dadrus/o365nsg/internal/securitygroup"
	"github.com/dadrus/o365nsg/internal/x/opentelemetry/tracecontext"
)

const (
	lastAppliedDigestKey = "last_applied_digest"
	tracerName           = "github.com/dadrus/o365nsg/internal/job"
)

type Result struct {
	ClientRequestID string `json:"client_request_id"`
	Groups          int    `json:"groups"`
	Descriptors     int    `json:"descriptors"`
	Rules           int    `json:"rules"`
	Skipped         bool   `json:"skipped"`
	Digest          string `json:"digest"`
}

type Job interface {
	Run(ctx context.Context) (*Result, error)
}

type job struct {
	collector       *Collector
	applier         securitygroup.Applier
	skipUnchanged   bool
	forceApplyAfter time.Duration
	state           cache.Cache
	metrics         *Metrics
	logger          zerolog.Logger
}

func New(
	conf *config.Configuration,
	fetcher directory.Fetcher,
	applier securitygroup.Applier,
	state cache.Cache,
	metrics *Metrics,
	logger zerolog.Logger,
) (Job, error) {
	collector, err := NewCollector(conf.Rules, fetcher)
	if err != nil {
		return nil, err
	}

	return &job{
		collector:       collector,
		applier:         applier,
		skipUnchanged:   conf.Job.SkipUnchanged,
		forceApplyAfter: conf.Job.ForceApplyAfter,
		state:           state,
		metrics:         metrics,
		logger:          logger,
	}, nil
}

func (j *job) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "update security group", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	ctx = tracecontext.Enrich(ctx, j.logger.With()).Logger().WithContext(ctx)

	res, err := j.run(ctx)

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		j.metrics.record(resultFailure, time.Since(start), 0)
	case res.Skipped:
		span.SetAttributes(attribute.Bool("o365nsg.skipped", true))
		j.metrics.record(resultSkipped, time.Since(start), 0)
	default:
		span.SetAttributes(
			attribute.Int("o365nsg.descriptors", res.Descriptors),
			attribute.Int("o365nsg.rules", res.Rules),
		)
		j.metrics.record(resultSuccess, time.Since(start), res.Rules)
	}

	return res, err
}

func (j *job) run(ctx context.Context) (*Result, error) {
	zerolog.Ctx(ctx).Info().Msg("Updating security group")

	result, descriptors, err := j.collector.Collect(ctx)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("_client_request_id", result.ClientRequestID).Logger()
	ctx = logger.WithContext(ctx)

	if j.unchanged(ctx, result.Digest) {
		result.Skipped = true

		logger.Info().Str("_digest", result.Digest).Msg("Rule set unchanged. Skipping update")

		return result, nil
	}

	applied, err := j.applier.Apply(ctx, descriptors)
	if err != nil {
		j.state.Delete(ctx, lastAppliedDigestKey)

		return nil, err
	}

	result.Rules = applied.Applied
	j.state.Set(ctx, lastAppliedDigestKey, result.Digest, j.forceApplyAfter)

	logger.Info().
		Int("_rules", applied.Applied).
		Int("_replaced", applied.Replaced).
		Int("_foreign", applied.Foreign).
		Msg("Security group updated")

	return result, nil
}

func (j *job) unchanged(ctx context.Context, digest string) bool {
	if !j.skipUnchanged {
		return false
	}

	lastDigest, err := j.state.Get(ctx, lastAppliedDigestKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNoCacheEntry) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to retrieve digest of last applied rule set")
		}

		return false
	}

	return lastDigest == digest
}
