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

package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ybbus/httpretry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dadrus/o365nsg/internal/config"
	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
	"github.com/dadrus/o365nsg/internal/x/httpx"
)

const (
	minRetryDelay     = 500 * time.Millisecond
	defaultRetryDelay = 10 * time.Second
)

// Response is the raw endpoint list together with the correlation id used to request it.
type Response struct {
	ClientRequestID string
	Body            []byte
}

type Fetcher interface {
	Fetch(ctx context.Context) (*Response, error)
}

type fetcher struct {
	endpoint     *url.URL
	query        url.Values
	client       *http.Client
	maxBodyBytes int64
}

func NewFetcher(conf config.DirectoryConfig) (Fetcher, error) {
	endpoint, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration,
			"invalid endpoint directory base url").CausedBy(err)
	}

	endpoint = endpoint.JoinPath("endpoints", conf.Instance)

	query := url.Values{}
	if len(conf.ServiceAreas) != 0 {
		query.Set("ServiceAreas", strings.Join(conf.ServiceAreas, ","))
	}

	if len(conf.TenantName) != 0 {
		query.Set("TenantName", conf.TenantName)
	}

	if conf.NoIPv6 {
		query.Set("NoIPv6", "true")
	}

	return &fetcher{
		endpoint:     endpoint,
		query:        query,
		client:       newClient(conf),
		maxBodyBytes: int64(conf.MaxResponseSize),
	}, nil
}

func newClient(conf config.DirectoryConfig) *http.Client {
	client := &http.Client{
		Transport: otelhttp.NewTransport(
			httpx.NewTraceRoundTripper(http.DefaultTransport),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return fmt.Sprintf("%s %s %s @endpoint-directory", req.Proto, req.Method, req.URL.Path)
			}),
		),
		Timeout: conf.Timeout,
	}

	if !conf.Retry.Enabled() {
		return client
	}

	maxDelay := conf.Retry.MaxDelay
	if maxDelay == 0 {
		maxDelay = defaultRetryDelay
	}

	client.Timeout += conf.Retry.GiveUpAfter

	return httpretry.NewCustomClient(client,
		httpretry.WithMaxRetryCount(retryCount(minRetryDelay, maxDelay, conf.Retry.GiveUpAfter)),
		httpretry.WithBackoffPolicy(httpretry.ExponentialBackoff(minRetryDelay, maxDelay, 0)),
	)
}

// retryCount returns the number of exponentially growing delays fitting into giveUpAfter.
func retryCount(minDelay, maxDelay, giveUpAfter time.Duration) int {
	var (
		count int
		total time.Duration
	)

	for delay := minDelay; total+delay <= giveUpAfter; count++ {
		total += delay
		delay = min(2*delay, maxDelay) //nolint:mnd
	}

	return max(count, 1)
}

func (f *fetcher) Fetch(ctx context.Context) (*Response, error) {
	clientRequestID := uuid.New().String()

	query := url.Values{}
	for key, values := range f.query {
		query[key] = values
	}

	query.Set("clientrequestid", clientRequestID)

	endpoint := *f.endpoint
	endpoint.RawQuery = query.Encode()

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("_client_request_id", clientRequestID).
		Str("_endpoint", endpoint.String()).
		Msg("Fetching endpoint directory")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrInternal, "failed creating request").
			CausedBy(err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		var clientErr *url.Error
		if errors.As(err, &clientErr) && clientErr.Timeout() {
			return nil, errorchain.
				NewWithMessage(o365nsg.ErrCommunicationTimeout, "request to endpoint directory timed out").
				CausedBy(err)
		}

		return nil, errorchain.
			NewWithMessage(o365nsg.ErrCommunication, "request to endpoint directory failed").
			CausedBy(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrCommunication,
			"unexpected response code: %v", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrInternal,
			"failed reading endpoint directory response").CausedBy(err)
	}

	if int64(len(body)) > f.maxBodyBytes {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrMalformedResponse,
			"endpoint directory response exceeds %d bytes", f.maxBodyBytes)
	}

	return &Response{ClientRequestID: clientRequestID, Body: body}, nil
}
