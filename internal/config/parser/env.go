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

package parser

import (
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const literalUnderscore = `\:\`

// toKey converts e.g. SECURITY__GROUP_PRIORITY_BASE to security_group.priority.base. A single
// underscore separates nesting levels, a double one stands for an underscore in the key.
func toKey(prefix, envVar string) string {
	key := strings.ToLower(strings.TrimPrefix(envVar, prefix))
	key = strings.ReplaceAll(key, "__", literalUnderscore)
	key = strings.ReplaceAll(key, "_", ".")

	return strings.ReplaceAll(key, literalUnderscore, "_")
}

func toTypedValue(val string) any {
	var parsed map[string]any

	// let the yaml parser guess the type (bool, int, float, string)
	if err := yaml.Unmarshal([]byte("val: "+val), &parsed); err != nil {
		return val
	}

	return parsed["val"]
}

func koanfFromEnv(prefix string) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	if len(prefix) == 0 {
		return parser, nil
	}

	err := parser.Load(env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(key, val string) (string, any) {
			return toKey(prefix, key), toTypedValue(val)
		},
	}), nil)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration,
			"failed to parse environment variables to config").CausedBy(err)
	}

	return parser, nil
}
