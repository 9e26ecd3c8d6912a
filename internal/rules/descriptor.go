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

package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Descriptor describes a single allow rule derived from an endpoint group and one of its ip ranges.
type Descriptor struct {
	Name      string `json:"name"       yaml:"name"`
	IPRange   string `json:"ip_range"   yaml:"ip_range"`
	PortRange string `json:"port_range" yaml:"port_range"`
	IsTCP     bool   `json:"is_tcp"     yaml:"is_tcp"`
	Required  bool   `json:"required"   yaml:"required"`
}

func (d Descriptor) Protocol() string {
	if d.IsTCP {
		return "TCP"
	}

	return "UDP"
}

// Digest calculates a hash over the ordered list of descriptors. Two lists have the same digest
// only if they would result in the same set of security rules.
func Digest(descriptors []Descriptor) string {
	hash := sha256.New()

	for _, desc := range descriptors {
		for _, value := range []string{
			desc.Name, desc.IPRange, desc.PortRange,
			strconv.FormatBool(desc.IsTCP), strconv.FormatBool(desc.Required),
		} {
			hash.Write([]byte(strconv.Itoa(len(value))))
			hash.Write([]byte(":"))
			hash.Write([]byte(value))
		}

		hash.Write([]byte{'\n'})
	}

	return hex.EncodeToString(hash.Sum(nil))
}
