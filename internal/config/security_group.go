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

import "time"

type CredentialsType string

const (
	ManagedIdentityCredentials  CredentialsType = "managed_identity"
	WorkloadIdentityCredentials CredentialsType = "workload_identity"
	ClientSecretCredentials     CredentialsType = "client_secret"
	DefaultCredentials          CredentialsType = "default"
)

type SecurityGroupConfig struct {
	ID                  string            `koanf:"id"                   validate:"omitempty,startswith=/subscriptions/"`
	Cloud               string            `koanf:"cloud"                validate:"oneof=public china usgovernment"`
	Credentials         CredentialsConfig `koanf:"credentials"`
	RuleNamePrefix      string            `koanf:"rule_name_prefix"     validate:"required,max=40,rule_name_prefix"`
	DescriptionTemplate string            `koanf:"description_template" validate:"required"`
	Priority            PriorityConfig    `koanf:"priority"`
	RestrictPorts       bool              `koanf:"restrict_ports"`
	Timeout             time.Duration     `koanf:"timeout"              validate:"gt=0s"`
}

type CredentialsConfig struct {
	Type         CredentialsType `koanf:"type"          validate:"oneof=managed_identity workload_identity client_secret default"`
	ClientID     string          `koanf:"client_id"     validate:"required_if=Type client_secret"`
	TenantID     string          `koanf:"tenant_id"     validate:"required_if=Type client_secret"`
	ClientSecret string          `koanf:"client_secret" validate:"required_if=Type client_secret"`
}

type PriorityConfig struct {
	Base int `koanf:"base" validate:"gte=100,lte=4096"`
	Step int `koanf:"step" validate:"gte=1"`
}
