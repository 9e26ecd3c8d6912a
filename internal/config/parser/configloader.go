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
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

type ConfigLoader interface {
	Load(config any) error
}

// New creates a loader, which merges the given config struct (defaults), the config file
// and the environment variables in that order.
func New(options ...Option) ConfigLoader {
	loader := &configLoader{o: opts{defaultConfigFileName: "config.yaml"}}

	for _, opt := range options {
		opt(&loader.o)
	}

	return loader
}

type configLoader struct {
	o opts
}

func (c *configLoader) Load(config any) error {
	parser, err := koanfFromStruct(config)
	if err != nil {
		return err
	}

	configFile, err := c.configFile()
	if err != nil {
		return err
	}

	if len(configFile) != 0 {
		contents, err := readConfigFile(configFile)
		if err != nil {
			return err
		}

		if c.o.validate != nil {
			if err = c.o.validate(contents); err != nil {
				return err
			}
		}

		fromFile, err := koanfFromYaml(configFile, contents)
		if err != nil {
			return err
		}

		if err = parser.Merge(fromFile); err != nil {
			return errorchain.NewWithMessage(o365nsg.ErrConfiguration, "failed to merge config file").
				CausedBy(err)
		}
	}

	fromEnv, err := koanfFromEnv(c.o.envPrefix)
	if err != nil {
		return err
	}

	if err = parser.Merge(fromEnv); err != nil {
		return errorchain.NewWithMessage(o365nsg.ErrConfiguration, "failed to merge environment config").
			CausedBy(err)
	}

	if err = parser.UnmarshalWithConf("", config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(c.o.decodeHooks...),
			Result:           config,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return errorchain.NewWithMessage(o365nsg.ErrConfiguration, "failed to decode configuration").
			CausedBy(err)
	}

	return nil
}

func (c *configLoader) configFile() (string, error) {
	if len(c.o.configFile) != 0 {
		if _, err := os.Stat(c.o.configFile); err != nil {
			return "", errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
				"cannot access config file %s", c.o.configFile).CausedBy(err)
		}

		return c.o.configFile, nil
	}

	for _, dir := range c.o.configLookupDirs {
		filePath := filepath.Join(dir, c.o.defaultConfigFileName)

		_, err := os.Stat(filePath)
		if err == nil {
			return filePath, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
				"cannot access config file %s", filePath).CausedBy(err)
		}
	}

	return "", nil
}
