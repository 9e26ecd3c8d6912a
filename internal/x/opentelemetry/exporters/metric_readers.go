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

package exporters

import (
	"context"
	"errors"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

var (
	ErrUnsupportedMetricExporterType = errors.New("unsupported metric exporter type")
	ErrFailedCreatingMetricExporter  = errors.New("failed creating metric exporter")
)

var metricReaders = &registry[metric.Reader]{ //nolint:gochecknoglobals
	names: map[string]FactoryFunc[metric.Reader]{
		"otlp": func(ctx context.Context, _ options) (metric.Reader, error) {
			exp, err := createOTLPMetricExporter(ctx)
			if err != nil {
				return nil, err
			}

			return metric.NewPeriodicReader(exp), nil
		},
		"prometheus": func(_ context.Context, opts options) (metric.Reader, error) {
			return otelprom.New(otelprom.WithRegisterer(opts.registerer))
		},
	},
}

// NewMetricReaders returns the metric readers named in the OTEL_METRICS_EXPORTER
// environment variable. Without that variable a prometheus reader is created, which
// exposes the OpenTelemetry instruments through the registry given by WithRegisterer.
// "none" anywhere in the list results in a single reader dropping all measurements.
func NewMetricReaders(ctx context.Context, opts ...Option) ([]metric.Reader, error) {
	exporterNames, ok := os.LookupEnv("OTEL_METRICS_EXPORTER")
	if !ok {
		return createMetricReaders(ctx, newOptions(opts...))
	}

	return createMetricReaders(ctx, newOptions(opts...), strings.Split(exporterNames, ",")...)
}

func createOTLPMetricExporter(ctx context.Context) (metric.Exporter, error) {
	val, ok := os.LookupEnv("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL")
	if !ok {
		val = envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "http/protobuf")
	}

	switch val {
	case "grpc":
		return otlpmetricgrpc.New(ctx)
	case "http/protobuf", "http/json":
		return otlpmetrichttp.New(ctx)
	default:
		return nil, errorchain.NewWithMessage(ErrUnsupportedOTLPProtocol, val)
	}
}

func createMetricReaders(ctx context.Context, opts options, names ...string) ([]metric.Reader, error) {
	if len(names) == 0 {
		names = []string{"prometheus"}
	}

	var readers []metric.Reader //nolint:prealloc

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "none" {
			return []metric.Reader{metric.NewPeriodicReader(noopMetricExporter{})}, nil
		}

		create, ok := metricReaders.load(name)
		if !ok {
			return nil, errorchain.NewWithMessage(ErrUnsupportedMetricExporterType, name)
		}

		reader, err := create(ctx, opts)
		if err != nil {
			return nil, errorchain.NewWithMessage(ErrFailedCreatingMetricExporter, name).CausedBy(err)
		}

		readers = append(readers, reader)
	}

	return readers, nil
}
