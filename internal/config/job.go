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

package config

import (
	"fmt"
	"time"
)

type JobConfig struct {
	SkipUnchanged   bool          `koanf:"skip_unchanged"`
	ForceApplyAfter time.Duration `koanf:"force_apply_after" validate:"gt=0s"`
}

type ScheduleConfig struct {
	Cron       string        `koanf:"cron"         validate:"required_without=Interval"`
	Interval   time.Duration `koanf:"interval"     validate:"gte=0s"`
	RunOnStart bool          `koanf:"run_on_start"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"    validate:"gt=0,lte=65535"`
	Path    string `koanf:"path"    validate:"required,startswith=/"`
}

func (c MetricsConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
