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
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/job"
)

// Module is used on app bootstrap.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(newScheduler),
	fx.Invoke(registerHooks),
)

func newScheduler(conf *config.Configuration, jb job.Job, logger zerolog.Logger) (Scheduler, error) {
	return New(conf.Schedule, jb, logger)
}

func registerHooks(lifecycle fx.Lifecycle, scheduler Scheduler) {
	lifecycle.Append(fx.StartStopHook(scheduler.Start, scheduler.Stop))
}
