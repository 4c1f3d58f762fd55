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

package permissions

import (
	"fmt"
	"testing"

	"github.com/notevault/notevault/pkg/assert"
	"github.com/pkg/errors"
)

func strPtr(s string) *string {
	return &s
}

func TestParseGrant(t *testing.T) {
	testCases := []struct {
		stored       *string
		unrestricted bool
		expected     []Capability
	}{
		{stored: nil, unrestricted: true, expected: Capabilities},
		{stored: strPtr(""), unrestricted: true, expected: Capabilities},
		{stored: strPtr("all"), unrestricted: true, expected: Capabilities},
		{stored: strPtr("none"), unrestricted: false, expected: []Capability{}},
		{stored: strPtr("edit"), unrestricted: false, expected: []Capability{Edit}},
		{stored: strPtr("edit, share"), unrestricted: false, expected: []Capability{Edit, Share}},
		{stored: strPtr("share,delete,edit"), unrestricted: false, expected: []Capability{Delete, Edit, Share}},
		{stored: strPtr("undeleted,editor"), unrestricted: false, expected: []Capability{}},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("case %d", idx), func(t *testing.T) {
			g := ParseGrant(tc.stored)

			assert.Equal(t, g.IsUnrestricted(), tc.unrestricted, "unrestricted mismatch")
			assert.DeepEqual(t, g.List(), tc.expected, "capabilities mismatch")
		})
	}
}

func TestGrantAllowsExactTags(t *testing.T) {
	g := ParseGrant(strPtr("undeleted"))

	assert.Equal(t, g.Allows(Delete), false, "substring must not match")
	assert.Equal(t, g.Allows(Edit), false, "edit mismatch")
}

func TestParseGrantInput(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "all", expected: "all"},
		{input: "", expected: "none"},
		{input: "none", expected: "none"},
		{input: "edit", expected: "edit"},
		{input: " share , edit ", expected: "edit,share"},
		{input: "edit,,delete", expected: "delete,edit"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			g, err := ParseGrantInput(tc.input)
			if err != nil {
				t.Fatal(err)
			}

			assert.Equal(t, g.String(), tc.expected, "result mismatch")
		})
	}

	t.Run("unknown tag", func(t *testing.T) {
		_, err := ParseGrantInput("edit,publish")

		assert.Equal(t, errors.Cause(err), ErrUnknownCapability, "error mismatch")
	})
}

func TestGrantString(t *testing.T) {
	assert.Equal(t, Unrestricted().String(), "all", "unrestricted mismatch")
	assert.Equal(t, CapabilitySet().String(), "none", "empty mismatch")
	assert.Equal(t, CapabilitySet(Share, Delete).String(), "delete,share", "set mismatch")
}
