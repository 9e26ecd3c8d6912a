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
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/ccoveille/go-safecast"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/rules"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const (
	MinPriority = 100
	MaxPriority = 4096
)

// nolint: gochecknoglobals
var protocols = map[string]armnetwork.SecurityRuleProtocol{
	"TCP": armnetwork.SecurityRuleProtocolTCP,
	"UDP": armnetwork.SecurityRuleProtocolUDP,
}

// RuleBuilder turns descriptors into rule definitions. The descriptor at position i gets the
// priority base + step * i for both, the inbound and the outbound rule.
type RuleBuilder struct {
	prefix        string
	base          int
	step          int
	restrictPorts bool
	description   *descriptionTemplate
}

func NewRuleBuilder(conf config.SecurityGroupConfig) (*RuleBuilder, error) {
	if conf.Priority.Base < MinPriority || conf.Priority.Base > MaxPriority {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"priority base must be between %d and %d", MinPriority, MaxPriority)
	}

	if conf.Priority.Step < 1 {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "priority step must be positive")
	}

	if len(conf.RuleNamePrefix) == 0 {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "rule name prefix must not be empty")
	}

	tmpl, err := newDescriptionTemplate(conf.DescriptionTemplate)
	if err != nil {
		return nil, err
	}

	return &RuleBuilder{
		prefix:        conf.RuleNamePrefix,
		base:          conf.Priority.Base,
		step:          conf.Priority.Step,
		restrictPorts: conf.RestrictPorts,
		description:   tmpl,
	}, nil
}

// Prefix returns the name prefix identifying rules managed by this builder.
func (b *RuleBuilder) Prefix() string { return b.prefix }

func (b *RuleBuilder) Build(descriptors []rules.Descriptor) ([]RuleDefinition, error) {
	if len(descriptors) == 0 {
		return []RuleDefinition{}, nil
	}

	if last := b.base + b.step*(len(descriptors)-1); last > MaxPriority {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrPriorityExhausted,
			"%d descriptors require priorities up to %d, but the maximum is %d",
			len(descriptors), last, MaxPriority)
	}

	definitions := make([]RuleDefinition, 0, 2*len(descriptors)) //nolint:mnd

	for idx, desc := range descriptors {
		priority, err := safecast.ToInt32(b.base + b.step*idx)
		if err != nil {
			return nil, errorchain.NewWithMessage(o365nsg.ErrPriorityExhausted, "priority out of range").
				CausedBy(err)
		}

		description, err := b.description.Render(desc)
		if err != nil {
			return nil, err
		}

		ports := b.destinationPorts(desc)

		for _, direction := range []Direction{Inbound, Outbound} {
			definitions = append(definitions, RuleDefinition{
				Name:                  ruleName(b.prefix, desc.Name, desc.IPRange, direction, priority),
				Direction:             direction,
				Protocol:              string(protocols[desc.Protocol()]),
				AddressPrefix:         desc.IPRange,
				DestinationPortRanges: ports,
				Priority:              priority,
				Description:           description,
			})
		}
	}

	return definitions, nil
}

func (b *RuleBuilder) destinationPorts(desc rules.Descriptor) []string {
	if !b.restrictPorts || len(strings.TrimSpace(desc.PortRange)) == 0 {
		return nil
	}

	var ports []string

	for _, port := range strings.Split(desc.PortRange, ",") {
		if port = strings.TrimSpace(port); len(port) != 0 {
			ports = append(ports, port)
		}
	}

	return ports
}
