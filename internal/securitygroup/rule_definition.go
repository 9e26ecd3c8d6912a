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
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
)

type Direction string

const (
	Inbound  Direction = "Inbound"
	Outbound Direction = "Outbound"

	anyAddress = "*"
	anyPort    = "*"
)

// RuleDefinition is a single allow rule to be placed into the security group.
type RuleDefinition struct {
	Name                  string    `json:"name"                              yaml:"name"`
	Direction             Direction `json:"direction"                         yaml:"direction"`
	Protocol              string    `json:"protocol"                          yaml:"protocol"`
	AddressPrefix         string    `json:"address_prefix"                    yaml:"address_prefix"`
	DestinationPortRanges []string  `json:"destination_port_ranges,omitempty" yaml:"destination_port_ranges,omitempty"`
	Priority              int32     `json:"priority"                          yaml:"priority"`
	Description           string    `json:"description"                       yaml:"description"`
}

func (d RuleDefinition) toSecurityRule() *armnetwork.SecurityRule {
	props := &armnetwork.SecurityRulePropertiesFormat{
		Access:          to.Ptr(armnetwork.SecurityRuleAccessAllow),
		Direction:       to.Ptr(armnetwork.SecurityRuleDirection(d.Direction)),
		Protocol:        to.Ptr(armnetwork.SecurityRuleProtocol(d.Protocol)),
		Priority:        to.Ptr(d.Priority),
		Description:     to.Ptr(d.Description),
		SourcePortRange: to.Ptr(anyPort),
	}

	if d.Direction == Inbound {
		props.SourceAddressPrefix = to.Ptr(d.AddressPrefix)
		props.DestinationAddressPrefix = to.Ptr(anyAddress)
	} else {
		props.SourceAddressPrefix = to.Ptr(anyAddress)
		props.DestinationAddressPrefix = to.Ptr(d.AddressPrefix)
	}

	if len(d.DestinationPortRanges) == 0 {
		props.DestinationPortRange = to.Ptr(anyPort)
	} else {
		props.DestinationPortRanges = to.SliceOfPtrs(d.DestinationPortRanges...)
	}

	return &armnetwork.SecurityRule{
		Name:       to.Ptr(d.Name),
		Properties: props,
	}
}
