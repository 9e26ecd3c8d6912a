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
)

type DirectoryConfig struct {
	BaseURL         string            `koanf:"base_url"          validate:"required,url"`
	Instance        string            `koanf:"instance"          validate:"oneof=worldwide china usgovdod usgovgcchigh"`
	ServiceAreas    []string          `koanf:"service_areas"     validate:"dive,oneof=Common Exchange SharePoint Skype"`
	TenantName      string            `koanf:"tenant_name"`
	NoIPv6          bool              `koanf:"no_ipv6"`
	Timeout         time.Duration     `koanf:"timeout"           validate:"gt=0s"`
	MaxResponseSize bytesize.ByteSize `koanf:"max_response_size" validate:"gt=0"`
	Retry           RetryConfig       `koanf:"retry"`
}

// RetryConfig enables retries of the directory request if GiveUpAfter is set.
type RetryConfig struct {
	GiveUpAfter time.Duration `koanf:"give_up_after" validate:"gte=0s"`
	MaxDelay    time.Duration `koanf:"max_delay"     validate:"gte=0s"`
}

func (c RetryConfig) Enabled() bool { return c.GiveUpAfter > 0 }

type RulesConfig struct {
	StrictPorts   bool     `koanf:"strict_ports"`
	ExcludeRanges []string `koanf:"exclude_ranges" validate:"dive,cidr"`
}
