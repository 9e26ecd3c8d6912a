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

package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/job"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const jobName = "security-group-update"

type Scheduler interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type scheduler struct {
	s      gocron.Scheduler
	l      zerolog.Logger
	cancel context.CancelFunc
}

// New creates a scheduler running the given job either on a cron schedule or, if
// an interval is configured, every interval. A tick is never started while the previous
// one is still running.
func New(conf config.ScheduleConfig, jb job.Job, logger zerolog.Logger) (Scheduler, error) {
	gs, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logAdapter{l: logger}),
	)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrInternal, "failed to create scheduler").
			CausedBy(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.WithContext(ctx)

	options := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, name string, err error) {
				logger.Error().Err(err).Str("_job", name).Msg("Security group update failed")
			}),
		),
	}

	if conf.RunOnStart {
		options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err = gs.NewJob(
		jobDefinition(conf),
		gocron.NewTask(func() error {
			_, err := jb.Run(ctx)

			return err
		}),
		options...,
	); err != nil {
		cancel()
		_ = gs.Shutdown()

		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "failed to schedule security group update").
			CausedBy(err)
	}

	return &scheduler{s: gs, l: logger, cancel: cancel}, nil
}

func jobDefinition(conf config.ScheduleConfig) gocron.JobDefinition {
	if conf.Interval > 0 {
		return gocron.DurationJob(conf.Interval)
	}

	return gocron.CronJob(conf.Cron, true)
}

func (s *scheduler) Start(_ context.Context) error {
	s.l.Info().Msg("Starting scheduler")

	s.s.Start()

	return nil
}

func (s *scheduler) Stop(_ context.Context) error {
	s.l.Info().Msg("Tearing down scheduler")

	s.cancel()

	return s.s.Shutdown()
}
