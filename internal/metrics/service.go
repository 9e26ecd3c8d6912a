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

package metrics

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dadrus/o365nsg/internal/config"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = time.Minute
)

func newService(
	conf config.MetricsConfig,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(conf.Path,
		promhttp.InstrumentMetricHandler(
			reg,
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
				Registry: reg,
				ErrorLog: stdLogAdapter{l: logger},
			}),
		),
	)

	hc := alice.New(
		accessLog(logger),
		recovery,
		methodFilter(http.MethodGet),
	).Then(mux)

	return &http.Server{
		Handler:      hc,
		Addr:         conf.Address(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     newStdLogger(logger),
	}
}

func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			start := time.Now()
			req = req.WithContext(logger.WithContext(req.Context()))

			metrics := httpsnoop.CaptureMetrics(next, rw, req)

			logger.Debug().
				Str("_http_method", req.Method).
				Str("_http_path", req.URL.Path).
				Str("_client_ip", req.RemoteAddr).
				Int("_http_status_code", metrics.Code).
				Int64("_body_bytes_sent", metrics.Written).
				Int64("_tx_duration_ms", time.Since(start).Milliseconds()).
				Msg("Metrics request served")
		})
	}
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zerolog.Ctx(req.Context()).Error().Msg(fmt.Sprintf("%v\n%s", rec, debug.Stack()))

				rw.WriteHeader(http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(rw, req)
	})
}

func methodFilter(method string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if req.Method != method {
				rw.WriteHeader(http.StatusMethodNotAllowed)

				return
			}

			next.ServeHTTP(rw, req)
		})
	}
}
