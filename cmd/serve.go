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

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/cmd/app"
	"github.com/dadrus/o365nsg/cmd/flags"
	"github.com/dadrus/o365nsg/internal/metrics"
	"github.com/dadrus/o365nsg/internal/scheduler"
)

func init() {
	RootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Updates the security group on the configured schedule until terminated",
		Example:      "o365nsg serve -c config.yaml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fxApp, err := app.New(cmd, fx.Options(scheduler.Module, metrics.Module))
			if err != nil {
				return err
			}

			fxApp.Run()

			return nil
		},
	}

	flags.RegisterGlobalFlags(cmd)

	return cmd
}
