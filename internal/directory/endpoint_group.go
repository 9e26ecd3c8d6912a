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

// EndpointGroup is a single entry of the endpoint list published by the directory service.
// Absent port and ip lists are nil.
type EndpointGroup struct {
	ID                     int       `json:"id"`
	ServiceArea            string    `json:"serviceArea"`
	ServiceAreaDisplayName string    `json:"serviceAreaDisplayName"`
	URLs                   []string  `json:"urls,omitempty"`
	IPs                    *[]string `json:"ips,omitempty"`
	TCPPorts               *string   `json:"tcpPorts,omitempty"`
	UDPPorts               *string   `json:"udpPorts,omitempty"`
	ExpressRoute           bool      `json:"expressRoute"`
	Category               string    `json:"category"`
	Required               bool      `json:"required"`
	Notes                  string    `json:"notes,omitempty"`
}

func (g EndpointGroup) HasIPs() bool { return g.IPs != nil && len(*g.IPs) != 0 }
