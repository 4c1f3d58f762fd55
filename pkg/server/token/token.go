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

// Package token generates the opaque tokens handed out as share links
package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

// shareIDBytes random bytes encode to an 8 character url-safe token
const shareIDBytes = 6

// ShareIDLength is the length of a share token
const ShareIDLength = 8

// generateRandom generates a url-safe token from the given number of random bytes
func generateRandom(numBytes int) (string, error) {
	b := make([]byte, numBytes)

	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewShareID generates a short opaque token for a share link
func NewShareID() (string, error) {
	val, err := generateRandom(shareIDBytes)
	if err != nil {
		return "", errors.Wrap(err, "generating share id")
	}

	return val, nil
}
