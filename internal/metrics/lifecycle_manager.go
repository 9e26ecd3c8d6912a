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
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

type Server interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

type lifecycleManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type noopManager struct{}

func (noopManager) Start(context.Context) error { return nil }
func (noopManager) Stop(context.Context) error  { return nil }

type serviceManager struct {
	address string
	server  Server
	logger  zerolog.Logger

	ln net.Listener
}

func (m *serviceManager) Start(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", m.address)
	if err != nil {
		return errorchain.NewWithMessagef(o365nsg.ErrInternal,
			"could not create listener for metrics service on %s", m.address).
			CausedBy(err)
	}

	m.ln = ln

	go func() {
		m.logger.Info().Str("_address", ln.Addr().String()).Msg("Metrics service starts listening")

		if err := m.server.Serve(ln); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				m.logger.Error().Err(err).Msg("Metrics service terminated")
			} else {
				m.logger.Info().Msg("Metrics service stopped")
			}
		}
	}()

	return nil
}

func (m *serviceManager) Stop(ctx context.Context) error {
	m.logger.Info().Msg("Tearing down metrics service")

	err := m.server.Shutdown(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Graceful shutdown failed")
	}

	return err
}

// Address returns the address the service is listening on, once started.
func (m *serviceManager) Address() string {
	if m.ln == nil {
		return m.address
	}

	return m.ln.Addr().String()
}
