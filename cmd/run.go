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
	"context"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/cmd/app"
	"github.com/dadrus/o365nsg/cmd/flags"
	"github.com/dadrus/o365nsg/internal/job"
)

func init() {
	RootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Updates the security group once and exits",
		Example:      "o365nsg run -c config.yaml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd)
		},
	}

	flags.RegisterGlobalFlags(cmd)

	return cmd
}

func runOnce(cmd *cobra.Command) error {
	var jb job.Job

	fxApp, err := app.New(cmd, fx.Populate(&jb))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err = fxApp.Start(ctx); err != nil {
		return err
	}

	defer fxApp.Stop(context.WithoutCancel(ctx)) // nolint: errcheck

	res, err := jb.Run(ctx)
	if err != nil {
		return err
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
}
