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

package config

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/maps"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/validation"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
	"github.com/dadrus/o365nsg/schema"
)

var ruleNamePrefixPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`) //nolint:gochecknoglobals

func ValidateConfigSchema(contents []byte) error {
	var conf map[string]any

	if err := yaml.NewDecoder(bytes.NewReader(contents)).Decode(&conf); err != nil {
		// an empty file is a valid configuration
		if errors.Is(err, io.EOF) {
			return nil
		}

		return errorchain.NewWithMessage(o365nsg.ErrConfiguration,
			"failed to parse config").CausedBy(err)
	}

	compiledSchema, err := compileSchema("config.schema.json", string(schema.ConfigSchema))
	if err != nil {
		return errorchain.NewWithMessage(o365nsg.ErrConfiguration,
			"failed to compile JSON schema").CausedBy(err)
	}

	maps.IntfaceKeysToStrings(conf)

	if err = compiledSchema.Validate(conf); err != nil {
		return errorchain.New(o365nsg.ErrConfiguration).CausedBy(err)
	}

	return nil
}

func compileSchema(url, schemaContent string) (*jsonschema.Schema, error) {
	configSchema, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaContent))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(url, configSchema); err != nil {
		return nil, err
	}

	return compiler.Compile(url)
}

// ruleNamePrefixValidator ensures the prefix can start an Azure security rule name.
type ruleNamePrefixValidator struct{}

func (ruleNamePrefixValidator) Tag() string { return "rule_name_prefix" }

func (ruleNamePrefixValidator) Validate(fl validator.FieldLevel) bool {
	return ruleNamePrefixPattern.MatchString(fl.Field().String())
}

func (ruleNamePrefixValidator) MessageTemplate() string {
	return "{0} must start with a letter or a digit and may only contain letters, digits, '_', '.' and '-'"
}

func (ruleNamePrefixValidator) Translate(ut ut.Translator, fe validator.FieldError) string {
	msg, err := ut.T(fe.Tag(), fe.Field())
	if err != nil {
		return fe.Error()
	}

	return msg
}

func NewValidator() (validation.Validator, error) {
	return validation.NewValidator(
		validation.WithTagValidator(ruleNamePrefixValidator{}),
		validation.WithErrorTranslator(ruleNamePrefixValidator{}),
	)
}
