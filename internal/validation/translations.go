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
	"reflect"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var durationType = reflect.TypeOf(time.Duration(0)) //nolint:gochecknoglobals

// registerDurationTranslations overrides the default translations of the numeric
// comparison tags for time.Duration fields, which would otherwise render the bound
// as a plain nanoseconds number.
func registerDurationTranslations(validate *validator.Validate, trans ut.Translator) error {
	for tag, text := range map[string]string{
		"gt":  "{0} must be greater than {1}",
		"gte": "{0} must be {1} or greater",
		"lt":  "{0} must be less than {1}",
		"lte": "{0} must be {1} or less",
	} {
		defaultTranslate := defaultTranslationFunc(tag)

		if err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag+"-duration", text, false)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				if fe.Type() != durationType {
					return defaultTranslate(ut, fe)
				}

				translation, err := ut.T(tag+"-duration", fe.Field(), fe.Param())
				if err != nil {
					return fe.Error()
				}

				return translation
			},
		); err != nil {
			return err
		}
	}

	return nil
}

func defaultTranslationFunc(tag string) validator.TranslationFunc {
	return func(ut ut.Translator, fe validator.FieldError) string {
		var (
			translation string
			err         error
		)

		switch fe.Kind() {
		case reflect.String:
			translation, err = ut.T(tag+"-string", fe.Field(), fe.Param())
		case reflect.Slice, reflect.Map, reflect.Array:
			translation, err = ut.T(tag+"-items", fe.Field(), fe.Param())
		default:
			translation, err = ut.T(tag+"-number", fe.Field(), fe.Param())
		}

		if err != nil {
			return fe.Error()
		}

		return translation
	}
}
