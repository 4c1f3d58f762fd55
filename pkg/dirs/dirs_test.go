/* Copyright 2025 Notevault Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dirs

import (
	"path/filepath"
	"testing"

	"github.com/notevault/notevault/pkg/assert"
)

func TestDirs(t *testing.T) {
	t.Setenv(envConfigHome, "")
	t.Setenv(envDataHome, "")
	Reload()

	assert.NotEqual(t, Home, "", "home is empty")
	assert.Equal(t, ConfigHome, filepath.Join(Home, ".config"), "ConfigHome mismatch")
	assert.Equal(t, DataHome, filepath.Join(Home, ".local", "share"), "DataHome mismatch")
}

func TestCustomDirs(t *testing.T) {
	testCases := []struct {
		envKey   string
		envVal   string
		got      *string
		expected string
	}{
		{
			envKey:   envConfigHome,
			envVal:   "/custom/config",
			got:      &ConfigHome,
			expected: "/custom/config",
		},
		{
			envKey:   envDataHome,
			envVal:   "/custom/data",
			got:      &DataHome,
			expected: "/custom/data",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.envKey, func(t *testing.T) {
			t.Setenv(tc.envKey, tc.envVal)
			Reload()

			assert.Equal(t, *tc.got, tc.expected, "result mismatch")
		})
	}
}
