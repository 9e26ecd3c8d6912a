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
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/rs/zerolog"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/rules"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const securityGroupResourceType = "Microsoft.Network/networkSecurityGroups"

type Result struct {
	// Applied is the number of rules created by this tool.
	Applied int
	// Replaced is the number of previously managed rules removed from the group.
	Replaced int
	// Foreign is the number of rules not managed by this tool, which were kept.
	Foreign int
}

type Applier interface {
	// Apply replaces all rules managed by this tool in the security group with the rules
	// derived from the given descriptors within one update.
	Apply(ctx context.Context, descriptors []rules.Descriptor) (*Result, error)
}

type applier struct {
	resourceGroup string
	name          string
	api           SecurityGroupsAPI
	builder       *RuleBuilder
	timeout       time.Duration
}

// NewAzureApplier creates an applier talking to the resource manager with credentials
// created from the given configuration.
func NewAzureApplier(conf config.SecurityGroupConfig) (Applier, error) {
	id, err := parseSecurityGroupID(conf.ID)
	if err != nil {
		return nil, err
	}

	cred, err := NewCredential(conf)
	if err != nil {
		return nil, err
	}

	opts, err := armClientOptions(conf.Cloud)
	if err != nil {
		return nil, err
	}

	api, err := NewSecurityGroupsAPI(id.SubscriptionID, cred, opts)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration,
			"failed to create security groups client").CausedBy(err)
	}

	return NewApplier(conf, api)
}

func NewApplier(conf config.SecurityGroupConfig, api SecurityGroupsAPI) (Applier, error) {
	id, err := parseSecurityGroupID(conf.ID)
	if err != nil {
		return nil, err
	}

	builder, err := NewRuleBuilder(conf)
	if err != nil {
		return nil, err
	}

	return &applier{
		resourceGroup: id.ResourceGroupName,
		name:          id.Name,
		api:           api,
		builder:       builder,
		timeout:       conf.Timeout,
	}, nil
}

func parseSecurityGroupID(value string) (*arm.ResourceID, error) {
	if len(value) == 0 {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "no security group id configured")
	}

	id, err := arm.ParseResourceID(value)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "invalid security group id").
			CausedBy(err)
	}

	if !strings.EqualFold(id.ResourceType.String(), securityGroupResourceType) {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"%s is not a network security group, but a %s", value, id.ResourceType.String())
	}

	return id, nil
}

func (a *applier) Apply(ctx context.Context, descriptors []rules.Descriptor) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("_resource_group", a.resourceGroup).
		Str("_security_group", a.name).
		Logger()

	definitions, err := a.builder.Build(descriptors)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to define security rules")

		return nil, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	group, err := a.api.Get(ctx, a.resourceGroup, a.name)
	if err != nil {
		logAzureError(logger, err, "Failed to retrieve security group")

		return nil, errorchain.NewWithMessage(o365nsg.ErrCommunication, "failed to retrieve security group").
			CausedBy(err)
	}

	result, err := a.merge(group, definitions)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to merge security rules")

		return nil, err
	}

	logger.Info().
		Int("_rules", result.Applied).
		Int("_replaced", result.Replaced).
		Int("_foreign", result.Foreign).
		Msg("Applying security rules")

	if _, err = a.api.CreateOrUpdate(ctx, a.resourceGroup, a.name, *group); err != nil {
		logAzureError(logger, err, "Failed to update security group")

		return nil, errorchain.NewWithMessage(o365nsg.ErrCommunication, "failed to update security group").
			CausedBy(err)
	}

	return result, nil
}

type priorityKey struct {
	direction Direction
	priority  int32
}

// merge replaces the managed rules of the group with the given definitions. Foreign rules are
// kept as long as they don't occupy a priority required by a definition.
func (a *applier) merge(group *armnetwork.SecurityGroup, definitions []RuleDefinition) (*Result, error) {
	if group.Properties == nil {
		group.Properties = &armnetwork.SecurityGroupPropertiesFormat{}
	}

	required := make(map[priorityKey]string, len(definitions))
	for _, def := range definitions {
		required[priorityKey{direction: def.Direction, priority: def.Priority}] = def.Name
	}

	result := &Result{Applied: len(definitions)}
	securityRules := make([]*armnetwork.SecurityRule, 0, len(group.Properties.SecurityRules)+len(definitions))

	for _, rule := range group.Properties.SecurityRules {
		if rule == nil {
			continue
		}

		var name string
		if rule.Name != nil {
			name = *rule.Name
		}

		if strings.HasPrefix(name, a.builder.Prefix()) {
			result.Replaced++

			continue
		}

		if rule.Properties != nil && rule.Properties.Direction != nil && rule.Properties.Priority != nil {
			key := priorityKey{
				direction: Direction(*rule.Properties.Direction),
				priority:  *rule.Properties.Priority,
			}

			if owner, conflicts := required[key]; conflicts {
				return nil, errorchain.NewWithMessagef(o365nsg.ErrPriorityConflict,
					"rule %q uses priority %d (%s) required by %s",
					name, key.priority, key.direction, owner)
			}
		}

		result.Foreign++

		securityRules = append(securityRules, rule)
	}

	for _, def := range definitions {
		securityRules = append(securityRules, def.toSecurityRule())
	}

	group.Properties.SecurityRules = securityRules

	return result, nil
}

func logAzureError(logger zerolog.Logger, err error, msg string) {
	event := logger.Error().Err(err)

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		event = event.Str("_error_code", respErr.ErrorCode).Int("_status", respErr.StatusCode)
	}

	event.Msg(msg)
}
