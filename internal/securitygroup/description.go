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

package securitygroup

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/rules"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

const maxDescriptionLength = 140

type descriptionTemplate struct {
	t *template.Template
}

func newDescriptionTemplate(val string) (*descriptionTemplate, error) {
	tmpl, err := template.New("description").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(val)
	if err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrConfiguration, "failed to parse description template").
			CausedBy(err)
	}

	return &descriptionTemplate{t: tmpl}, nil
}

func (t *descriptionTemplate) Render(desc rules.Descriptor) (string, error) {
	var buf bytes.Buffer

	if err := t.t.Execute(&buf, desc); err != nil {
		return "", errorchain.NewWithMessagef(o365nsg.ErrInternal,
			"failed to render description for %s", desc.Name).CausedBy(err)
	}

	description := []rune(buf.String())
	if len(description) > maxDescriptionLength {
		description = description[:maxDescriptionLength]
	}

	return string(description), nil
}
