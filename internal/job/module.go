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
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/internal/cache"
	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/directory"
	"github.com/dadrus/o365nsg/internal/securitygroup"
)

// Module is used on app bootstrap.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(
		NewMetrics,
		newJob,
	),
)

type jobArgs struct {
	fx.In

	Config  *config.Configuration
	Fetcher directory.Fetcher
	Applier securitygroup.Applier
	Cache   cache.Cache
	Metrics *Metrics
	Logger  zerolog.Logger
}

func newJob(args jobArgs) (Job, error) {
	return New(args.Config, args.Fetcher, args.Applier, args.Cache, args.Metrics, args.Logger)
}
