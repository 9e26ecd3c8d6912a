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

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v6"
	"github.com/stretchr/testify/mock"
)

type securityGroupsAPIMock struct {
	mock.Mock
}

func (m *securityGroupsAPIMock) Get(
	ctx context.Context, resourceGroup, name string,
) (*armnetwork.SecurityGroup, error) {
	args := m.Called(ctx, resourceGroup, name)

	group, _ := args.Get(0).(*armnetwork.SecurityGroup)

	return group, args.Error(1)
}

func (m *securityGroupsAPIMock) CreateOrUpdate(
	ctx context.Context, resourceGroup, name string, group armnetwork.SecurityGroup,
) (*armnetwork.SecurityGroup, error) {
	args := m.Called(ctx, resourceGroup, name, group)

	result, _ := args.Get(0).(*armnetwork.SecurityGroup)

	return result, args.Error(1)
}
