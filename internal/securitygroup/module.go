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

package securitygroup

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/internal/config"
)

// Module is used on app bootstrap.
// nolint: gochecknoglobals
var Module = fx.Options(
	fx.Provide(newApplier),
)

func newApplier(conf *config.Configuration, logger zerolog.Logger) (Applier, error) {
	logger.Info().
		Str("_security_group", conf.SecurityGroup.ID).
		Str("_cloud", conf.SecurityGroup.Cloud).
		Str("_credentials", string(conf.SecurityGroup.Credentials.Type)).
		Msg("Instantiating security group applier")

	return NewAzureApplier(conf.SecurityGroup)
}
