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

package validation

import (
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lowerCaseValidator struct{}

func (lowerCaseValidator) Tag() string { return "lowercase_only" }

func (lowerCaseValidator) Validate(fl validator.FieldLevel) bool {
	return strings.ToLower(fl.Field().String()) == fl.Field().String()
}

func (lowerCaseValidator) MessageTemplate() string { return "{0} must be lower case" }

func (lowerCaseValidator) Translate(ut ut.Translator, fe validator.FieldError) string {
	msg, _ := ut.T("lowercase_only", fe.Field())

	return msg
}

func TestValidatorValidateStruct(t *testing.T) {
	t.Parallel()

	type nested struct {
		Name string `koanf:"name" validate:"required,lowercase_only"`
	}

	type config struct {
		Timeout time.Duration `koanf:"timeout"     validate:"gt=1s"`
		Count   int           `mapstructure:"count" validate:"gte=1"`
		Nested  nested        `koanf:"nested"`
	}

	val, err := NewValidator(
		WithTagValidator(lowerCaseValidator{}),
		WithErrorTranslator(lowerCaseValidator{}),
	)
	require.NoError(t, err)

	for _, tc := range []struct {
		uc     string
		config config
		assert func(t *testing.T, err error)
	}{
		{
			uc:     "valid config",
			config: config{Timeout: 2 * time.Second, Count: 1, Nested: nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.NoError(t, err)
			},
		},
		{
			uc:     "duration too small",
			config: config{Timeout: time.Second, Count: 1, Nested: nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Equal(t, "'timeout' must be greater than 1s", err.Error())
			},
		},
		{
			uc:     "number too small",
			config: config{Timeout: 2 * time.Second, Nested: nested{Name: "foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Equal(t, "'count' must be 1 or greater", err.Error())
			},
		},
		{
			uc:     "custom tag validator",
			config: config{Timeout: 2 * time.Second, Count: 1, Nested: nested{Name: "Foo"}},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Equal(t, "'name' must be lower case", err.Error())
			},
		},
		{
			uc:     "multiple errors",
			config: config{},
			assert: func(t *testing.T, err error) {
				t.Helper()

				require.Error(t, err)
				assert.Contains(t, err.Error(), "'name' is a required field")
				assert.Contains(t, err.Error(), "'count' must be 1 or greater")
				assert.Contains(t, err.Error(), "'timeout' must be greater than 1s")
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			tc.assert(t, val.ValidateStruct(&tc.config))
		})
	}
}

func TestValidatorValidateStructWithNonStruct(t *testing.T) {
	t.Parallel()

	val, err := NewValidator()
	require.NoError(t, err)

	err = val.ValidateStruct("foo")

	require.Error(t, err)
	assert.NotEmpty(t, err.Error())
}
