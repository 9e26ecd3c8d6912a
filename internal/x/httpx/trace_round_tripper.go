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

package httpx

import (
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/rs/zerolog"
)

type traceRoundTripper struct {
	t http.RoundTripper
}

// NewTraceRoundTripper logs every request at debug level and dumps requests and responses
// if the logger in the request context is configured for trace level.
func NewTraceRoundTripper(rt http.RoundTripper) http.RoundTripper {
	return &traceRoundTripper{t: rt}
}

func (t *traceRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := zerolog.Ctx(req.Context())
	tracing := logger.GetLevel() == zerolog.TraceLevel

	if tracing {
		if dump, err := httputil.DumpRequestOut(req, req.ContentLength != 0); err != nil {
			logger.Trace().Err(err).Msg("Failed dumping out request")
		} else {
			logger.Trace().Msg("Outbound Request: \n" + string(dump))
		}
	}

	start := time.Now()

	resp, err := t.t.RoundTrip(req)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("_method", req.Method).
			Str("_url", req.URL.Redacted()).
			Dur("_duration", time.Since(start)).
			Msg("Failed sending request")

		return nil, err
	}

	logger.Debug().
		Str("_method", req.Method).
		Str("_url", req.URL.Redacted()).
		Int("_status", resp.StatusCode).
		Dur("_duration", time.Since(start)).
		Msg("Request sent")

	if tracing {
		if dump, err := httputil.DumpResponse(resp, resp.ContentLength != 0); err != nil {
			logger.Trace().Err(err).Msg("Failed dumping response")
		} else {
			logger.Trace().Msg("Inbound Response: \n" + string(dump))
		}
	}

	return resp, nil
}
