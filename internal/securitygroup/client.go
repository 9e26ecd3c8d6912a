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

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
)

// SecurityGroupsAPI is the subset of the network resource provider used to read and replace
// a security group.
type SecurityGroupsAPI interface {
	Get(ctx context.Context, resourceGroup, name string) (*armnetwork.SecurityGroup, error)
	CreateOrUpdate(
		ctx context.Context, resourceGroup, name string, group armnetwork.SecurityGroup,
	) (*armnetwork.SecurityGroup, error)
}

type securityGroupsClient struct {
	c *armnetwork.SecurityGroupsClient
}

func NewSecurityGroupsAPI(
	subscriptionID string,
	cred azcore.TokenCredential,
	opts *arm.ClientOptions,
) (SecurityGroupsAPI, error) {
	client, err := armnetwork.NewSecurityGroupsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}

	return &securityGroupsClient{c: client}, nil
}

func (s *securityGroupsClient) Get(
	ctx context.Context, resourceGroup, name string,
) (*armnetwork.SecurityGroup, error) {
	resp, err := s.c.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, err
	}

	return &resp.SecurityGroup, nil
}

func (s *securityGroupsClient) CreateOrUpdate(
	ctx context.Context, resourceGroup, name string, group armnetwork.SecurityGroup,
) (*armnetwork.SecurityGroup, error) {
	poller, err := s.c.BeginCreateOrUpdate(ctx, resourceGroup, name, group, nil)
	if err != nil {
		return nil, err
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &resp.SecurityGroup, nil
}
