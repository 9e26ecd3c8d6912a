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

package logging

import "github.com/rs/zerolog"

// SyslogLevel defines syslog severities as used by the gelf "level" field.
type SyslogLevel int8

const (
	Emergency SyslogLevel = iota
	Alert
	Critical
	Error
	Warning
	Notice
	Informational
	Debugging
)

//nolint:gochecknoglobals
var syslogLevels = map[zerolog.Level]SyslogLevel{
	zerolog.TraceLevel: Debugging,
	zerolog.DebugLevel: Debugging,
	zerolog.InfoLevel:  Informational,
	zerolog.WarnLevel:  Warning,
	zerolog.ErrorLevel: Error,
	zerolog.FatalLevel: Critical,
	zerolog.PanicLevel: Alert,
}

func toSyslogLevel(level zerolog.Level) SyslogLevel {
	if syslogLevel, ok := syslogLevels[level]; ok {
		return syslogLevel
	}

	return Emergency
}
