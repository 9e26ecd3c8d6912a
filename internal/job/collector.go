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

package job

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/directory"
	"github.com/dadrus/o365nsg/internal/rules"
)

// Collector turns the current state of the endpoint directory into the list of
// descriptors rules are derived from.
type Collector struct {
	fetcher     directory.Fetcher
	filter      rules.Filter
	strictPorts bool
}

func NewCollector(conf config.RulesConfig, fetcher directory.Fetcher) (*Collector, error) {
	filter, err := rules.NewExclusionFilter(conf.ExcludeRanges)
	if err != nil {
		return nil, err
	}

	return &Collector{fetcher: fetcher, filter: filter, strictPorts: conf.StrictPorts}, nil
}

func (c *Collector) Collect(ctx context.Context) (*Result, []rules.Descriptor, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := c.fetcher.Fetch(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch endpoint directory")

		return nil, nil, err
	}

	result := &Result{ClientRequestID: resp.ClientRequestID}
	requestLogger := logger.With().Str("_client_request_id", resp.ClientRequestID).Logger()
	logger = &requestLogger

	groups, err := directory.Parse(resp.Body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse endpoint directory")

		return nil, nil, err
	}

	result.Groups = len(groups)

	descriptors, err := rules.Flatten(groups,
		rules.WithStrictPorts(c.strictPorts),
		rules.WithMissingPortsHandler(func(group directory.EndpointGroup) {
			logger.Warn().
				Int("_group_id", group.ID).
				Str("_group", group.ServiceAreaDisplayName).
				Msg("Endpoint group has neither tcp nor udp ports. Creating tcp rules for any port")
		}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create rule descriptors")

		return nil, nil, err
	}

	total := len(descriptors)
	descriptors = c.filter.Apply(descriptors)
	result.Descriptors = len(descriptors)
	result.Digest = rules.Digest(descriptors)

	logger.Info().
		Int("_groups", result.Groups).
		Int("_descriptors", result.Descriptors).
		Int("_excluded", total-result.Descriptors).
		Msg("Endpoint directory flattened")

	return result, descriptors, nil
}
