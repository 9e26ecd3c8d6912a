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

package job

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultSkipped = "skipped"
	resultFailure = "failure"
)

type Metrics struct {
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	appliedRules prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "o365nsg",
			Subsystem: "job",
			Name:      "runs_total",
			Help:      "Number of security group update runs by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "o365nsg",
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Duration of security group update runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		appliedRules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "o365nsg",
			Name:      "applied_rules",
			Help:      "Number of security rules created by the last successful update.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "o365nsg",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		metrics.runs, metrics.duration, metrics.appliedRules, metrics.lastSuccess,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}

	// make all result series visible from the start
	for _, result := range []string{resultSuccess, resultSkipped, resultFailure} {
		metrics.runs.WithLabelValues(result)
	}

	return metrics, nil
}

func (m *Metrics) record(result string, duration time.Duration, appliedRules int) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(duration.Seconds())

	if result == resultSuccess {
		m.appliedRules.Set(float64(appliedRules))
		m.lastSuccess.SetToCurrentTime()
	}
}
