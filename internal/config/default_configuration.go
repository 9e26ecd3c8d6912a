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
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

const (
	defaultDirectoryTimeout     = 30 * time.Second
	defaultMaxResponseSize      = 10 * bytesize.MB
	defaultPriorityBase         = 200
	defaultPriorityStep         = 5
	defaultSecurityGroupTimeout = 5 * time.Minute
	defaultForceApplyAfter      = time.Hour
	defaultMetricsPort          = 9000

	DefaultDescriptionTemplate = "{{ .Name }} is Required: {{ .Required | toString | title }}"
)

func defaultConfig() *Configuration {
	return &Configuration{
		Log: LoggingConfig{
			Level:  zerolog.InfoLevel,
			Format: LogTextFormat,
		},
		Directory: DirectoryConfig{
			BaseURL:         "https://endpoints.office.com",
			Instance:        "worldwide",
			Timeout:         defaultDirectoryTimeout,
			MaxResponseSize: defaultMaxResponseSize,
		},
		SecurityGroup: SecurityGroupConfig{
			Cloud:               "public",
			Credentials:         CredentialsConfig{Type: ManagedIdentityCredentials},
			RuleNamePrefix:      "o365-",
			DescriptionTemplate: DefaultDescriptionTemplate,
			Priority: PriorityConfig{
				Base: defaultPriorityBase,
				Step: defaultPriorityStep,
			},
			Timeout: defaultSecurityGroupTimeout,
		},
		Job: JobConfig{
			ForceApplyAfter: defaultForceApplyAfter,
		},
		Schedule: ScheduleConfig{
			Cron:       "0 */5 * * * *",
			RunOnStart: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    defaultMetricsPort,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			SpanProcessorType: SpanProcessorBatch,
		},
	}
}
