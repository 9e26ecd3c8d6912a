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
	stdlog "log"

	"github.com/rs/zerolog"
)

type stdLogAdapter struct {
	l zerolog.Logger
}

func newStdLogger(logger zerolog.Logger) *stdlog.Logger {
	return stdlog.New(stdLogAdapter{l: logger}, "", 0)
}

func (a stdLogAdapter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[0 : n-1]
	}

	a.l.Error().Msg(string(p))

	return n, nil
}

// Println makes the adapter usable as promhttp error logger.
func (a stdLogAdapter) Println(v ...any) {
	a.l.Error().Msg(fmt.Sprint(v...))
}
