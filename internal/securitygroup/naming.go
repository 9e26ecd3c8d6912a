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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

const (
	maxRuleNameLength = 80
	nameDigestLength  = 8
)

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`) //nolint:gochecknoglobals

// ruleName creates a name unique within one set of rules, as the priority is unique per
// direction. Names exceeding the maximum length allowed by Azure are shortened and made
// unique again by a digest of the full name.
func ruleName(prefix, name, ipRange string, direction Direction, priority int32) string {
	normalizedName := invalidNameChars.ReplaceAllString(strcase.ToKebab(name), "-")
	normalizedIP := strings.NewReplacer("/", "-", ":", "-", ".", "-").Replace(ipRange)
	dir := "in"

	if direction == Outbound {
		dir = "out"
	}

	fullName := fmt.Sprintf("%s%s-%s-%s-%d", prefix, normalizedName, normalizedIP, dir, priority)
	if len(fullName) <= maxRuleNameLength {
		return fullName
	}

	hash := sha256.Sum256([]byte(fullName))
	suffix := hex.EncodeToString(hash[:])[:nameDigestLength]

	return fullName[:maxRuleNameLength-nameDigestLength-1] + "-" + suffix
}
