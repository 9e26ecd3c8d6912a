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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/internal/config"
)

// RegistryModule provides the registerer and gatherer used by all collectors.
// nolint: gochecknoglobals
var RegistryModule = fx.Options(
	fx.Provide(NewRegistry),
)

// Module exposes the registry over http if enabled.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Invoke(registerHooks),
)

type hooksArgs struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     *config.Configuration
	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func registerHooks(args hooksArgs) {
	lcm := newLifecycleManager(args.Config.Metrics, args.Registerer, args.Gatherer, args.Logger)

	args.Lifecycle.Append(fx.StartStopHook(lcm.Start, lcm.Stop))
}

func newLifecycleManager(
	conf config.MetricsConfig,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) lifecycleManager {
	if !conf.Enabled {
		logger.Info().Msg("Metrics service disabled")

		return noopManager{}
	}

	return &serviceManager{
		address: conf.Address(),
		server:  newService(conf, reg, gatherer, logger),
		logger:  logger,
	}
}
