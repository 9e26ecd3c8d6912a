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

package rules

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/o365nsg/cmd/app"
	"github.com/dadrus/o365nsg/cmd/flags"
	"github.com/dadrus/o365nsg/internal/directory"
	"github.com/dadrus/o365nsg/internal/job"
	"github.com/dadrus/o365nsg/internal/logging"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/rules"
	"github.com/dadrus/o365nsg/internal/securitygroup"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type listing struct {
	Descriptors []rules.Descriptor             `json:"descriptors" yaml:"descriptors"`
	Rules       []securitygroup.RuleDefinition `json:"rules"       yaml:"rules"`
}

// NewListCommand represents the "rules list" command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "Lists the security rules derived from the current endpoint directory without applying them",
		Example:      "o365nsg rules list -c config.yaml -o yaml",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd)
		},
	}

	cmd.Flags().StringP(flags.Output, "o", outputText,
		fmt.Sprintf("Output format. One of: %s, %s, %s", outputText, outputJSON, outputYAML))

	return cmd
}

func listRules(cmd *cobra.Command) error {
	format, _ := cmd.Flags().GetString(flags.Output)
	if !slices.Contains([]string{outputText, outputJSON, outputYAML}, format) {
		return errorchain.NewWithMessagef(o365nsg.ErrArgument, "unsupported output format %s", format)
	}

	conf, err := app.LoadConfiguration(cmd)
	if err != nil {
		return err
	}

	logger := logging.NewLoggerWithWriter(conf.Log, cmd.ErrOrStderr())

	fetcher, err := directory.NewFetcher(conf.Directory)
	if err != nil {
		return err
	}

	collector, err := job.NewCollector(conf.Rules, fetcher)
	if err != nil {
		return err
	}

	builder, err := securitygroup.NewRuleBuilder(conf.SecurityGroup)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, descriptors, err := collector.Collect(logger.WithContext(ctx))
	if err != nil {
		return err
	}

	definitions, err := builder.Build(descriptors)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), format, listing{Descriptors: descriptors, Rules: definitions})
}

func write(out io.Writer, format string, result listing) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(result); err != nil {
			return err
		}

		return enc.Close()
	default:
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "SERVICE\tADDRESS\tPROTOCOL\tPORTS\tREQUIRED")

		for _, desc := range result.Descriptors {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n",
				desc.Name, desc.IPRange, desc.Protocol(), orAny(desc.PortRange), desc.Required)
		}

		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PRIORITY\tNAME\tDIRECTION\tPROTOCOL\tADDRESS\tPORTS")

		for _, def := range result.Rules {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				def.Priority, def.Name, def.Direction, def.Protocol, def.AddressPrefix,
				orAny(strings.Join(def.DestinationPortRanges, ",")))
		}

		return tw.Flush()
	}
}

func orAny(ports string) string {
	if len(ports) == 0 {
		return "*"
	}

	return ports
}
