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

package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"
)

// logAdapter routes the internal scheduler log into zerolog. Its chatty info messages
// are demoted to debug.
type logAdapter struct {
	l zerolog.Logger
}

func (a logAdapter) Debug(msg string, args ...any) { a.log(a.l.Trace(), msg, args) }

func (a logAdapter) Info(msg string, args ...any) { a.log(a.l.Debug(), msg, args) }

func (a logAdapter) Warn(msg string, args ...any) { a.log(a.l.Warn(), msg, args) }

func (a logAdapter) Error(msg string, args ...any) { a.log(a.l.Error(), msg, args) }

func (a logAdapter) log(evt *zerolog.Event, msg string, args []any) {
	for idx := 0; idx+1 < len(args); idx += 2 {
		evt = evt.Interface(fmt.Sprintf("_%v", args[idx]), args[idx+1])
	}

	evt.Msg(msg)
}
