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
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

func cloudConfiguration(name string) (cloud.Configuration, error) {
	switch name {
	case "", "public":
		return cloud.AzurePublic, nil
	case "china":
		return cloud.AzureChina, nil
	case "usgovernment":
		return cloud.AzureGovernment, nil
	default:
		return cloud.Configuration{}, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"unsupported cloud %s", name)
	}
}

// NewCredential creates the credential used to authenticate against the resource manager.
func NewCredential(conf config.SecurityGroupConfig) (azcore.TokenCredential, error) {
	cloudConf, err := cloudConfiguration(conf.Cloud)
	if err != nil {
		return nil, err
	}

	clientOpts := policy.ClientOptions{Cloud: cloudConf}
	creds := conf.Credentials

	var cred azcore.TokenCredential

	switch creds.Type {
	case config.ManagedIdentityCredentials, "":
		opts := &azidentity.ManagedIdentityCredentialOptions{ClientOptions: clientOpts}
		if len(creds.ClientID) != 0 {
			opts.ID = azidentity.ClientID(creds.ClientID)
		}

		cred, err = azidentity.NewManagedIdentityCredential(opts)
	case config.WorkloadIdentityCredentials:
		cred, err = azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
			ClientOptions: clientOpts,
			ClientID:      creds.ClientID,
			TenantID:      creds.TenantID,
		})
	case config.ClientSecretCredentials:
		cred, err = azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret,
			&azidentity.ClientSecretCredentialOptions{ClientOptions: clientOpts})
	case config.DefaultCredentials:
		cred, err = azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			ClientOptions: clientOpts,
			TenantID:      creds.TenantID,
		})
	default:
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"unsupported credentials type %s", creds.Type)
	}

	if err != nil {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"failed to create %s credentials", creds.Type).CausedBy(err)
	}

	return cred, nil
}

func armClientOptions(cloudName string) (*arm.ClientOptions, error) {
	cloudConf, err := cloudConfiguration(cloudName)
	if err != nil {
		return nil, err
	}

	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Cloud: cloudConf,
			Transport: &http.Client{
				Transport: otelhttp.NewTransport(http.DefaultTransport,
					otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
						return fmt.Sprintf("%s %s @security-group", req.Method, req.URL.Path)
					}),
				),
			},
		},
	}, nil
}
