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
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/job"
	"github.com/dadrus/o365nsg/internal/o365nsg"
)

type jobFunc func(ctx context.Context) (*job.Result, error)

func (f jobFunc) Run(ctx context.Context) (*job.Result, error) { return f(ctx) }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestSchedulerExecutesJob(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc      string
		conf    config.ScheduleConfig
		minRuns int32
		err     error
	}{
		{
			uc:      "cron schedule with run on start",
			conf:    config.ScheduleConfig{Cron: "0 0 0 1 1 *", RunOnStart: true},
			minRuns: 1,
		},
		{
			uc:      "interval schedule",
			conf:    config.ScheduleConfig{Interval: 10 * time.Millisecond},
			minRuns: 3,
		},
		{
			uc:      "failing runs are rescheduled",
			conf:    config.ScheduleConfig{Interval: 10 * time.Millisecond, RunOnStart: true},
			minRuns: 2,
			err:     errors.New("test error"),
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			var runs atomic.Int32

			logs := &syncBuffer{}
			jb := jobFunc(func(_ context.Context) (*job.Result, error) {
				runs.Add(1)

				return &job.Result{}, tc.err
			})

			sched, err := New(tc.conf, jb, zerolog.New(logs))
			require.NoError(t, err)

			// WHEN
			require.NoError(t, sched.Start(t.Context()))

			// THEN
			assert.Eventually(t, func() bool { return runs.Load() >= tc.minRuns },
				2*time.Second, 5*time.Millisecond)

			require.NoError(t, sched.Stop(t.Context()))

			if tc.err != nil {
				assert.Contains(t, logs.String(), "Security group update failed")
				assert.Contains(t, logs.String(), `"_job":"security-group-update"`)
			}
		})
	}
}

func TestSchedulerDoesNotRunWithoutTrigger(t *testing.T) {
	t.Parallel()

	// GIVEN
	var runs atomic.Int32

	sched, err := New(
		config.ScheduleConfig{Cron: "0 0 0 1 1 *"},
		jobFunc(func(_ context.Context) (*job.Result, error) {
			runs.Add(1)

			return &job.Result{}, nil
		}),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	// WHEN
	require.NoError(t, sched.Start(t.Context()))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, sched.Stop(t.Context()))

	// THEN
	assert.Zero(t, runs.Load())
}

func TestSchedulerDoesNotOverlapRuns(t *testing.T) {
	t.Parallel()

	// GIVEN
	var (
		active  atomic.Int32
		overlap atomic.Bool
		runs    atomic.Int32
	)

	sched, err := New(
		config.ScheduleConfig{Interval: 5 * time.Millisecond, RunOnStart: true},
		jobFunc(func(_ context.Context) (*job.Result, error) {
			if active.Add(1) > 1 {
				overlap.Store(true)
			}

			time.Sleep(30 * time.Millisecond)
			active.Add(-1)
			runs.Add(1)

			return &job.Result{}, nil
		}),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	// WHEN
	require.NoError(t, sched.Start(t.Context()))
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, sched.Stop(t.Context()))

	// THEN
	assert.False(t, overlap.Load())
}

func TestSchedulerStopCancelsRunningJob(t *testing.T) {
	t.Parallel()

	// GIVEN
	started := make(chan struct{})
	canceled := make(chan struct{})

	sched, err := New(
		config.ScheduleConfig{Cron: "0 0 0 1 1 *", RunOnStart: true},
		jobFunc(func(ctx context.Context) (*job.Result, error) {
			close(started)
			<-ctx.Done()
			close(canceled)

			return nil, ctx.Err()
		}),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	require.NoError(t, sched.Start(t.Context()))
	<-started

	// WHEN
	err = sched.Stop(t.Context())

	// THEN
	require.NoError(t, err)

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("running job has not been canceled")
	}
}

func TestNewSchedulerWithInvalidSchedule(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc   string
		conf config.ScheduleConfig
	}{
		{uc: "malformed cron expression", conf: config.ScheduleConfig{Cron: "foo"}},
		{uc: "no cron expression and no interval", conf: config.ScheduleConfig{}},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// WHEN
			_, err := New(tc.conf, jobFunc(func(_ context.Context) (*job.Result, error) {
				return &job.Result{}, nil
			}), zerolog.Nop())

			// THEN
			require.ErrorIs(t, err, o365nsg.ErrConfiguration)
		})
	}
}

func TestLogAdapter(t *testing.T) {
	t.Parallel()

	// GIVEN
	logs := &syncBuffer{}
	adapter := logAdapter{l: zerolog.New(logs).Level(zerolog.TraceLevel)}

	// WHEN
	adapter.Debug("debug message", "name", "foo")
	adapter.Info("info message")
	adapter.Warn("warn message", "count", 1, "dangling")
	adapter.Error("error message")

	// THEN
	out := logs.String()
	assert.Contains(t, out, `{"level":"trace","_name":"foo","message":"debug message"}`)
	assert.Contains(t, out, `{"level":"debug","message":"info message"}`)
	assert.Contains(t, out, `{"level":"warn","_count":1,"message":"warn message"}`)
	assert.Contains(t, out, `{"level":"error","message":"error message"}`)
}
