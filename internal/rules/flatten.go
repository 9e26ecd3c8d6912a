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
	"github.com/dadrus/o365nsg/internal/directory"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

type flattenOpts struct {
	strictPorts  bool
	missingPorts func(group directory.EndpointGroup)
}

type FlattenOption func(o *flattenOpts)

// WithStrictPorts makes Flatten fail for groups with ips, but without any port list.
func WithStrictPorts(strict bool) FlattenOption {
	return func(o *flattenOpts) {
		o.strictPorts = strict
	}
}

// WithMissingPortsHandler registers a callback invoked for every group with ips, but
// without any port list, if strict mode is disabled.
func WithMissingPortsHandler(handler func(group directory.EndpointGroup)) FlattenOption {
	return func(o *flattenOpts) {
		if handler != nil {
			o.missingPorts = handler
		}
	}
}

// Flatten creates one descriptor per group and ip, preserving the order of the groups and of
// the ips within a group. Groups without ips do not contribute any descriptors.
func Flatten(groups []directory.EndpointGroup, opts ...FlattenOption) ([]Descriptor, error) {
	options := flattenOpts{missingPorts: func(directory.EndpointGroup) {}}

	for _, opt := range opts {
		opt(&options)
	}

	var descriptors []Descriptor

	for _, group := range groups {
		if !group.HasIPs() {
			continue
		}

		var (
			isTCP     bool
			portRange string
		)

		switch {
		case group.TCPPorts != nil:
			isTCP, portRange = true, *group.TCPPorts
		case group.UDPPorts != nil:
			isTCP, portRange = false, *group.UDPPorts
		case options.strictPorts:
			return nil, errorchain.NewWithMessagef(o365nsg.ErrMissingPorts,
				"endpoint group %d (%s) has neither tcp nor udp ports", group.ID, group.ServiceAreaDisplayName)
		default:
			isTCP = true

			options.missingPorts(group)
		}

		for _, ip := range *group.IPs {
			descriptors = append(descriptors, Descriptor{
				Name:      group.ServiceAreaDisplayName,
				IPRange:   ip,
				PortRange: portRange,
				IsTCP:     isTCP,
				Required:  group.Required,
			})
		}
	}

	return descriptors, nil
}
