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

package validate

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadrus/o365nsg/cmd/flags"
	"github.com/dadrus/o365nsg/internal/o365nsg"
)

func newTestCommand(t *testing.T, confFile string) *cobra.Command {
	t.Helper()

	cmd := NewValidateConfigCommand()
	flags.RegisterGlobalFlags(cmd)

	if len(confFile) != 0 {
		err := cmd.ParseFlags([]string{"--" + flags.Config, confFile})
		require.NoError(t, err)
	}

	return cmd
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		confFile string
		expError error
	}{
		{uc: "no config provided", expError: ErrNoConfigFile},
		{uc: "not existing config", confFile: "doesnotexist.yaml", expError: os.ErrNotExist},
		{uc: "invalid description template", confFile: "test_data/invalid-template-config.yaml", expError: o365nsg.ErrConfiguration},
		{uc: "valid config", confFile: "test_data/config.yaml"},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			cmd := newTestCommand(t, tc.confFile)

			// WHEN
			err := validateConfig(cmd)

			// THEN
			if tc.expError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRunValidateConfigCommand(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		confFile string
		expError string
	}{
		{uc: "invalid config", confFile: "doesnotexist.yaml", expError: "no such file or directory"},
		{uc: "valid config", confFile: "test_data/config.yaml"},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			cmd := newTestCommand(t, tc.confFile)

			buf := bytes.NewBuffer([]byte{})
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			// WHEN
			err := cmd.RunE(cmd, []string{})

			// THEN
			if len(tc.expError) != 0 {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expError)
			} else {
				require.NoError(t, err)
				assert.Contains(t, buf.String(), "Configuration is valid")
			}
		})
	}
}
