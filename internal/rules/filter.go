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
	"net"
	"strings"

	"github.com/yl2chen/cidranger"

	"github.com/dadrus/o365nsg/internal/o365nsg"
	"github.com/dadrus/o365nsg/internal/x/errorchain"
)

type Filter interface {
	Apply(descriptors []Descriptor) []Descriptor
}

type noopFilter struct{}

func (noopFilter) Apply(descriptors []Descriptor) []Descriptor { return descriptors }

type exclusionFilter struct {
	r cidranger.Ranger
}

// NewExclusionFilter creates a filter dropping all descriptors with an ip range fully covered
// by one of the given networks.
func NewExclusionFilter(cidrs []string) (Filter, error) {
	if len(cidrs) == 0 {
		return noopFilter{}, nil
	}

	ranger := cidranger.NewPCTrieRanger()

	for _, cidr := range cidrs {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, errorchain.NewWithMessagef(o365nsg.ErrConfiguration,
				"invalid exclusion range %s", cidr).CausedBy(err)
		}

		if err = ranger.Insert(cidranger.NewBasicRangerEntry(*ipNet)); err != nil {
			return nil, errorchain.NewWithMessagef(o365nsg.ErrInternal,
				"failed to register exclusion range %s", cidr).CausedBy(err)
		}
	}

	return &exclusionFilter{r: ranger}, nil
}

func (f *exclusionFilter) Apply(descriptors []Descriptor) []Descriptor {
	result := make([]Descriptor, 0, len(descriptors))

	for _, desc := range descriptors {
		if !f.excluded(desc.IPRange) {
			result = append(result, desc)
		}
	}

	return result
}

func (f *exclusionFilter) excluded(ipRange string) bool {
	ipNet := toIPNet(ipRange)
	if ipNet == nil {
		// invalid ranges are kept and rejected by the security group later on
		return false
	}

	ones, _ := ipNet.Mask.Size()

	entries, err := f.r.ContainingNetworks(ipNet.IP)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		network := entry.Network()
		if excludedOnes, _ := network.Mask.Size(); excludedOnes <= ones {
			return true
		}
	}

	return false
}

func toIPNet(ipRange string) *net.IPNet {
	if !strings.Contains(ipRange, "/") {
		ip := net.ParseIP(ipRange)
		if ip == nil {
			return nil
		}

		bits := 8 * net.IPv6len //nolint:mnd
		if ip.To4() != nil {
			ip, bits = ip.To4(), 8*net.IPv4len //nolint:mnd
		}

		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}
	}

	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return nil
	}

	return ipNet
}
