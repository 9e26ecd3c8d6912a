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
	"github.com/go-viper/mapstructure/v2"

	"github.com/dadrus/o365nsg/internal/config/parser"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/validation"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

type (
	EnvVarPrefix      string
	ConfigurationPath string
)

type Configuration struct {
	Log           LoggingConfig       `koanf:"log"`
	Directory     DirectoryConfig     `koanf:"directory"`
	Rules         RulesConfig         `koanf:"rules"`
	SecurityGroup SecurityGroupConfig `koanf:"security_group"`
	Job           JobConfig           `koanf:"job"`
	Schedule      ScheduleConfig      `koanf:"schedule"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Tracing       TracingConfig       `koanf:"tracing"`
}

func NewConfiguration(
	envPrefix EnvVarPrefix,
	configFile ConfigurationPath,
	validator validation.Validator,
) (*Configuration, error) {
	result := defaultConfig()

	err := parser.New(
		parser.WithDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		parser.WithDecodeHookFunc(mapstructure.StringToSliceHookFunc(",")),
		parser.WithDecodeHookFunc(logLevelDecodeHookFunc),
		parser.WithDecodeHookFunc(logFormatDecodeHookFunc),
		parser.WithDecodeHookFunc(byteSizeDecodeHookFunc),
		parser.WithConfigFile(string(configFile)),
		parser.WithEnvPrefix(string(envPrefix)),
		parser.WithConfigLookupDir("."),
		parser.WithConfigLookupDir("$HOME/.config"),
		parser.WithConfigLookupDir("/etc/o365nsg"),
		parser.WithConfigValidator(ValidateConfigSchema),
	).Load(result)
	if err != nil {
		return nil, err
	}

	if err = validator.ValidateStruct(result); err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "invalid configuration").
			CausedBy(err)
	}

	return result, nil
}
