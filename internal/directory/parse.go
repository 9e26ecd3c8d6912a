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

package directory

import (
	"github.com/goccy/go-json"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

// Parse decodes the raw response of the directory service.
func Parse(data []byte) ([]EndpointGroup, error) {
	var groups []EndpointGroup

	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, errorchain.NewWithMessage(o365nsg.ErrMalformedResponse,
			"failed to decode endpoint directory response").CausedBy(err)
	}

	return groups, nil
}
