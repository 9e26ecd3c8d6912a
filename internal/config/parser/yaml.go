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
	"os"

	"github.com/drone/envsubst/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

func readConfigFile(configFile string) ([]byte, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"failed to read config file %s", configFile).CausedBy(err)
	}

	// ${VAR} references in the file are replaced by the values of the corresponding
	// environment variables
	substituted, err := envsubst.Eval(string(raw), os.Getenv)
	if err != nil {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"failed to substitute environment variables in %s", configFile).CausedBy(err)
	}

	return []byte(substituted), nil
}

func koanfFromYaml(configFile string, contents []byte) (*koanf.Koanf, error) {
	parser := koanf.New(".")

	if err := parser.Load(rawbytes.Provider(contents), yaml.Parser()); err != nil {
		return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
			"failed to load yaml config from %s", configFile).CausedBy(err)
	}

	return parser, nil
}
