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
	"bufio"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type roundTripperMock struct {
	mock.Mock
}

func (m *roundTripperMock) RoundTrip(req *http.Request) (*http.Response, error) {
	args := m.Called(req)

	resp, _ := args.Get(0).(*http.Response)

	return resp, args.Error(1)
}

func TestTraceRoundTripperRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		logLevel zerolog.Level
		err      error
		assert   func(t *testing.T, logs string)
	}{
		{
			uc:       "info log level",
			logLevel: zerolog.InfoLevel,
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Empty(t, logs)
			},
		},
		{
			uc:       "debug log level without error",
			logLevel: zerolog.DebugLevel,
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Request sent")
				assert.Contains(t, logs, `"_status":200`)
				assert.Contains(t, logs, `"_method":"GET"`)
				assert.NotContains(t, logs, "Outbound Request")
			},
		},
		{
			uc:       "debug log level with error",
			logLevel: zerolog.DebugLevel,
			err:      errors.New("test error"),
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Failed sending request")
				assert.Contains(t, logs, "test error")
			},
		},
		{
			uc:       "trace log level without error",
			logLevel: zerolog.TraceLevel,
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Outbound Request")
				assert.Contains(t, logs, "Foobar")
				assert.Contains(t, logs, "Inbound Response")
				assert.Contains(t, logs, `{ \"bar\": \"foo\" }`)
			},
		},
		{
			uc:       "trace log level with error",
			logLevel: zerolog.TraceLevel,
			err:      errors.New("test error"),
			assert: func(t *testing.T, logs string) {
				t.Helper()

				assert.Contains(t, logs, "Outbound Request")
				assert.Contains(t, logs, "Failed sending request")
				assert.NotContains(t, logs, "Inbound Response")
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			logs := &strings.Builder{}
			logger := zerolog.New(logs).Level(tc.logLevel)

			ctx := logger.WithContext(context.Background())

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://foo.bar?baz=foo",
				strings.NewReader("Foobar"))
			require.NoError(t, err)

			rawResponse := `HTTP/1.1 200 OK
Content-Type: application/json
Content-Length: 16

{ "bar": "foo" }
`
			resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(rawResponse)), req)
			require.NoError(t, err)

			defer resp.Body.Close()

			rt := &roundTripperMock{}
			if tc.err != nil {
				rt.On("RoundTrip", req).Return(nil, tc.err)
			} else {
				rt.On("RoundTrip", req).Return(resp, nil)
			}

			// WHEN
			result, err := NewTraceRoundTripper(rt).RoundTrip(req)

			// THEN
			if tc.err == nil {
				require.NoError(t, err)
				require.Equal(t, resp, result)
			} else {
				require.Error(t, err)
			}

			rt.AssertExpectations(t)
			tc.assert(t, logs.String())
		})
	}
}
