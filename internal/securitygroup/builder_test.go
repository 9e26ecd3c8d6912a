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
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/rules"
)

func testSecurityGroupConfig() config.SecurityGroupConfig {
	return config.SecurityGroupConfig{
		ID: "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg" +
			"/providers/Microsoft.Network/networkSecurityGroups/nsg",
		Cloud:               "public",
		RuleNamePrefix:      "o365-",
		DescriptionTemplate: config.DefaultDescriptionTemplate,
		Priority:            config.PriorityConfig{Base: 200, Step: 5},
	}
}

func exchangeDescriptors() []rules.Descriptor {
	return []rules.Descriptor{
		{Name: "Exchange", IPRange: "13.107.6.152/31", PortRange: "443", IsTCP: true, Required: true},
		{Name: "Exchange", IPRange: "13.107.9.152/31", PortRange: "443", IsTCP: true, Required: true},
	}
}

func TestRuleBuilderBuild(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc          string
		configure   func(conf *config.SecurityGroupConfig)
		descriptors []rules.Descriptor
		assert      func(t *testing.T, defs []RuleDefinition, err error)
	}{
		{
			uc:          "exchange descriptors with defaults",
			descriptors: exchangeDescriptors(),
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				require.Len(t, defs, 4)

				assert.Equal(t, RuleDefinition{
					Name:          "o365-exchange-13-107-6-152-31-in-200",
					Direction:     Inbound,
					Protocol:      "Tcp",
					AddressPrefix: "13.107.6.152/31",
					Priority:      200,
					Description:   "Exchange is Required: True",
				}, defs[0])
				assert.Equal(t, Outbound, defs[1].Direction)
				assert.Equal(t, int32(200), defs[1].Priority)
				assert.Equal(t, "o365-exchange-13-107-6-152-31-out-200", defs[1].Name)
				assert.Equal(t, int32(205), defs[2].Priority)
				assert.Equal(t, int32(205), defs[3].Priority)
				assert.Empty(t, defs[3].DestinationPortRanges)
			},
		},
		{
			uc:          "empty descriptor list",
			descriptors: nil,
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				assert.Empty(t, defs)
			},
		},
		{
			uc: "udp descriptor with restricted ports",
			configure: func(conf *config.SecurityGroupConfig) {
				conf.RestrictPorts = true
				conf.DescriptionTemplate = "{{ .Name | upper }} {{ .Protocol }} {{ .PortRange }}"
			},
			descriptors: []rules.Descriptor{
				{Name: "Skype", IPRange: "13.107.64.0/18", PortRange: "3478, 3479-3481", IsTCP: false},
			},
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				require.Len(t, defs, 2)
				assert.Equal(t, "Udp", defs[0].Protocol)
				assert.Equal(t, []string{"3478", "3479-3481"}, defs[0].DestinationPortRanges)
				assert.Equal(t, "SKYPE UDP 3478, 3479-3481", defs[0].Description)
			},
		},
		{
			uc: "restricted ports without port range",
			configure: func(conf *config.SecurityGroupConfig) {
				conf.RestrictPorts = true
			},
			descriptors: []rules.Descriptor{{Name: "Common", IPRange: "1.1.1.0/24", IsTCP: true}},
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				assert.Empty(t, defs[0].DestinationPortRanges)
			},
		},
		{
			uc: "priorities exhausted",
			configure: func(conf *config.SecurityGroupConfig) {
				conf.Priority.Base = 4093
			},
			descriptors: exchangeDescriptors(),
			assert: func(t *testing.T, _ []RuleDefinition, err error) {
				t.Helper()

				require.ErrorIs(t, err, o365nsg.ErrPriorityExhausted)
				assert.Contains(t, err.Error(), "4098")
			},
		},
		{
			uc: "last priority at platform maximum",
			configure: func(conf *config.SecurityGroupConfig) {
				conf.Priority.Base = 4091
			},
			descriptors: exchangeDescriptors(),
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				assert.Equal(t, int32(4096), defs[3].Priority)
			},
		},
		{
			uc: "long description is truncated",
			configure: func(conf *config.SecurityGroupConfig) {
				conf.DescriptionTemplate = `{{ repeat 200 "x" }}`
			},
			descriptors: exchangeDescriptors(),
			assert: func(t *testing.T, defs []RuleDefinition, err error) {
				t.Helper()

				require.NoError(t, err)
				assert.Len(t, defs[0].Description, maxDescriptionLength)
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			conf := testSecurityGroupConfig()
			if tc.configure != nil {
				tc.configure(&conf)
			}

			builder, err := NewRuleBuilder(conf)
			require.NoError(t, err)

			// WHEN
			defs, err := builder.Build(tc.descriptors)

			// THEN
			tc.assert(t, defs, err)
		})
	}
}

func TestRuleBuilderPrioritiesIncreaseByStep(t *testing.T) {
	t.Parallel()

	// GIVEN
	descriptors := make([]rules.Descriptor, 0, 100)
	for range 100 {
		descriptors = append(descriptors, rules.Descriptor{Name: "A", IPRange: "1.1.1.0/24", IsTCP: true})
	}

	builder, err := NewRuleBuilder(testSecurityGroupConfig())
	require.NoError(t, err)

	// WHEN
	defs, err := builder.Build(descriptors)

	// THEN
	require.NoError(t, err)
	require.Len(t, defs, 200)

	names := make(map[string]struct{}, len(defs))

	for idx, def := range defs {
		assert.Equal(t, int32(200+5*(idx/2)), def.Priority)

		names[def.Name] = struct{}{}
	}

	assert.Len(t, names, len(defs))
}

func TestRuleBuilderUsesDescriptorProtocol(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		isTCP    bool
		expected armnetwork.SecurityRuleProtocol
	}{
		{uc: "tcp", isTCP: true, expected: armnetwork.SecurityRuleProtocolTCP},
		{uc: "udp", isTCP: false, expected: armnetwork.SecurityRuleProtocolUDP},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			desc := rules.Descriptor{Name: "Teams", IPRange: "52.112.0.0/14", IsTCP: tc.isTCP}

			conf := testSecurityGroupConfig()
			conf.DescriptionTemplate = "{{ .Protocol }}"

			builder, err := NewRuleBuilder(conf)
			require.NoError(t, err)

			// WHEN
			defs, err := builder.Build([]rules.Descriptor{desc})

			// THEN
			require.NoError(t, err)
			require.Len(t, defs, 2)

			for _, def := range defs {
				assert.Equal(t, string(tc.expected), def.Protocol)
				assert.Equal(t, desc.Protocol(), def.Description)
				assert.True(t, strings.EqualFold(desc.Protocol(), def.Protocol))
			}
		})
	}
}

func TestNewRuleBuilderFails(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc        string
		configure func(conf *config.SecurityGroupConfig)
	}{
		{uc: "base below minimum", configure: func(conf *config.SecurityGroupConfig) { conf.Priority.Base = 99 }},
		{uc: "base above maximum", configure: func(conf *config.SecurityGroupConfig) { conf.Priority.Base = 4097 }},
		{uc: "zero step", configure: func(conf *config.SecurityGroupConfig) { conf.Priority.Step = 0 }},
		{uc: "empty prefix", configure: func(conf *config.SecurityGroupConfig) { conf.RuleNamePrefix = "" }},
		{uc: "invalid template", configure: func(conf *config.SecurityGroupConfig) {
			conf.DescriptionTemplate = "{{ .Name "
		}},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			conf := testSecurityGroupConfig()
			tc.configure(&conf)

			_, err := NewRuleBuilder(conf)

			require.ErrorIs(t, err, o365nsg.ErrConfiguration)
		})
	}
}

func TestRuleDefinitionToSecurityRule(t *testing.T) {
	t.Parallel()

	inbound := RuleDefinition{
		Name: "in", Direction: Inbound, Protocol: "Tcp", AddressPrefix: "1.1.1.0/24", Priority: 200,
		Description: "desc",
	}.toSecurityRule()

	assert.Equal(t, "in", *inbound.Name)
	assert.Equal(t, "1.1.1.0/24", *inbound.Properties.SourceAddressPrefix)
	assert.Equal(t, "*", *inbound.Properties.DestinationAddressPrefix)
	assert.Equal(t, "*", *inbound.Properties.SourcePortRange)
	assert.Equal(t, "*", *inbound.Properties.DestinationPortRange)
	assert.Nil(t, inbound.Properties.DestinationPortRanges)
	assert.Equal(t, int32(200), *inbound.Properties.Priority)
	assert.Equal(t, "Allow", string(*inbound.Properties.Access))
	assert.Equal(t, "Inbound", string(*inbound.Properties.Direction))

	outbound := RuleDefinition{
		Name: "out", Direction: Outbound, Protocol: "Udp", AddressPrefix: "1.1.1.0/24", Priority: 200,
		DestinationPortRanges: []string{"3478", "3479"},
	}.toSecurityRule()

	assert.Equal(t, "*", *outbound.Properties.SourceAddressPrefix)
	assert.Equal(t, "1.1.1.0/24", *outbound.Properties.DestinationAddressPrefix)
	assert.Nil(t, outbound.Properties.DestinationPortRange)
	require.Len(t, outbound.Properties.DestinationPortRanges, 2)
	assert.Equal(t, "3479", *outbound.Properties.DestinationPortRanges[1])
	assert.Equal(t, "Udp", string(*outbound.Properties.Protocol))
	assert.Equal(t, "Outbound", string(*outbound.Properties.Direction))
}
