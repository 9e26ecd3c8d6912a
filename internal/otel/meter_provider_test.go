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

package otel

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/x"
	"github.com/dadrus/o365nsg/internal/x/opentelemetry/exporters"
	"github.com/dadrus/o365nsg/internal/x/testsupport"
)

func TestInitMeterProvider(t *testing.T) {
	for _, tc := range []struct {
		uc         string
		conf       config.MetricsConfig
		setupMocks func(t *testing.T, lcMock *mockLifecycle)
		assert     func(t *testing.T, err error, reg *prometheus.Registry, logged string)
	}{
		{
			uc:   "disabled metrics",
			conf: config.MetricsConfig{Enabled: false},
			assert: func(t *testing.T, err error, reg *prometheus.Registry, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "metrics disabled")

				families, err := reg.Gather()
				require.NoError(t, err)
				assert.Empty(t, families)
			},
		},
		{
			uc:   "failing reader creation",
			conf: config.MetricsConfig{Enabled: true},
			setupMocks: func(t *testing.T, _ *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_METRICS_EXPORTER", "does_not_exist")
			},
			assert: func(t *testing.T, err error, _ *prometheus.Registry, _ string) {
				t.Helper()

				require.Error(t, err)
				require.ErrorIs(t, err, exporters.ErrUnsupportedMetricExporterType)
			},
		},
		{
			uc:   "instruments exposed through the prometheus registry",
			conf: config.MetricsConfig{Enabled: true},
			setupMocks: func(t *testing.T, lcMock *mockLifecycle) {
				t.Helper()

				lcMock.On("Append", mock.AnythingOfType("fx.Hook"))
			},
			assert: func(t *testing.T, err error, reg *prometheus.Registry, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "metrics initialized")

				families, err := reg.Gather()
				require.NoError(t, err)
				assert.NotEmpty(t, families)
			},
		},
		{
			uc:   "successful initialization without readers",
			conf: config.MetricsConfig{Enabled: true},
			setupMocks: func(t *testing.T, lcMock *mockLifecycle) {
				t.Helper()

				t.Setenv("OTEL_METRICS_EXPORTER", "none")
				lcMock.On("Append",
					mock.MatchedBy(func(hook fx.Hook) bool {
						return hook.OnStop(context.Background()) == nil
					}),
				)
			},
			assert: func(t *testing.T, err error, _ *prometheus.Registry, logged string) {
				t.Helper()

				require.NoError(t, err)
				assert.Contains(t, logged, "metrics initialized")
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			// GIVEN
			setupMocks := x.IfThenElse(
				tc.setupMocks != nil,
				tc.setupMocks,
				func(t *testing.T, _ *mockLifecycle) { t.Helper() })
			lcMock := &mockLifecycle{}
			tb := &testsupport.TestingLog{TB: t}
			logger := zerolog.New(zerolog.TestWriter{T: tb})
			reg := prometheus.NewRegistry()

			setupMocks(t, lcMock)

			// WHEN
			err := initMeterProvider(meterProviderArgs{
				Config:     &config.Configuration{Metrics: tc.conf},
				Resource:   resource.Default(),
				Registerer: reg,
				Logger:     logger,
				Lifecycle:  lcMock,
			})

			// THEN
			tc.assert(t, err, reg, tb.CollectedLog())
			lcMock.AssertExpectations(t)
		})
	}
}

func TestNewResource(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment=test")

	// WHEN
	res, err := newResource()

	// THEN
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "o365nsg", attrs["service.name"])
	assert.Equal(t, "test", attrs["deployment.environment"])
	assert.Contains(t, attrs, "service.version")
}
