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
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Capability is a named action a user either holds or lacks
type Capability string

const (
	// Edit allows changing a note's title, content or folder
	Edit Capability = "edit"
	// Delete allows trashing and permanently deleting notes
	Delete Capability = "delete"
	// Share allows issuing share links
	Share Capability = "share"
)

const (
	// AllPermissions is the stored value for an unrestricted user
	AllPermissions = "all"
	// NoPermissions is the stored value for an empty capability set
	NoPermissions = "none"
)

// Capabilities lists every known capability
var Capabilities = []Capability{Edit, Delete, Share}

// ErrUnknownCapability is returned when parsing an unrecognized capability tag
var ErrUnknownCapability = errors.New("unknown capability")

func isKnown(c Capability) bool {
	for _, k := range Capabilities {
		if k == c {
			return true
		}
	}

	return false
}

// Grant is the parsed permissions of a user. It is either unrestricted or a
// set of capabilities.
type Grant struct {
	unrestricted bool
	caps         map[Capability]bool
}

// Unrestricted returns a grant that allows every capability
func Unrestricted() Grant {
	return Grant{unrestricted: true}
}

// CapabilitySet returns a grant that allows exactly the given capabilities
func CapabilitySet(caps ...Capability) Grant {
	g := Grant{caps: map[Capability]bool{}}
	for _, c := range caps {
		g.caps[c] = true
	}

	return g
}

// ParseGrant parses the permissions stored on a user record. A missing value
// or the "all" sentinel is unrestricted. Tags are matched exactly and
// unrecognized tags are ignored.
func ParseGrant(stored *string) Grant {
	if stored == nil {
		return Unrestricted()
	}

	s := strings.TrimSpace(*stored)
	if s == "" || s == AllPermissions {
		return Unrestricted()
	}

	g := CapabilitySet()
	for _, tag := range strings.Split(s, ",") {
		c := Capability(strings.TrimSpace(tag))
		if isKnown(c) {
			g.caps[c] = true
		}
	}

	return g
}

// ParseGrantInput strictly parses a comma separated capability list supplied
// by an administrator. "all" grants everything, while "none" or an empty
// string grants nothing.
func ParseGrantInput(input string) (Grant, error) {
	s := strings.TrimSpace(input)
	if s == AllPermissions {
		return Unrestricted(), nil
	}

	g := CapabilitySet()
	if s == "" || s == NoPermissions {
		return g, nil
	}

	for _, tag := range strings.Split(s, ",") {
		c := Capability(strings.TrimSpace(tag))
		if c == "" {
			continue
		}
		if !isKnown(c) {
			return Grant{}, errors.Wrapf(ErrUnknownCapability, "%q", string(c))
		}

		g.caps[c] = true
	}

	return g, nil
}

// IsUnrestricted reports whether the grant allows every capability
func (g Grant) IsUnrestricted() bool {
	return g.unrestricted
}

// Allows reports whether the grant includes the given capability
func (g Grant) Allows(c Capability) bool {
	if g.unrestricted {
		return true
	}

	return g.caps[c]
}

// List returns the granted capabilities in a stable order
func (g Grant) List() []Capability {
	if g.unrestricted {
		return append([]Capability{}, Capabilities...)
	}

	ret := []Capability{}
	for c := range g.caps {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })

	return ret
}

// String returns the storage form of the grant
func (g Grant) String() string {
	if g.unrestricted {
		return AllPermissions
	}

	caps := g.List()
	if len(caps) == 0 {
		return NoPermissions
	}

	tags := make([]string, len(caps))
	for i, c := range caps {
		tags[i] = string(c)
	}

	return strings.Join(tags, ",")
}
