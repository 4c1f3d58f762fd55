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

// Package crypt generates random secrets and derives password verifiers
package crypt

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters for folder password verifiers
const (
	verifierTime    = 1
	verifierMemory  = 19 * 1024
	verifierThreads = 1
	verifierKeyLen  = 32
)

// GetRandomBytes generates a cryptographically secure pseudorandom numbers of the
// given size in byte
func GetRandomBytes(numBytes int) ([]byte, error) {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "reading random bits")
	}

	return b, nil
}

// GetRandomStr generates a cryptographically secure pseudorandom numbers of the
// given size in byte, encoded in url-safe base64
func GetRandomStr(numBytes int) (string, error) {
	b, err := GetRandomBytes(numBytes)
	if err != nil {
		return "", errors.Wrap(err, "generating random bits")
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// DeriveVerifier derives a fixed-length hex digest from a secret and a salt.
// The same pair always yields the same digest.
func DeriveVerifier(secret, salt string) string {
	key := argon2.IDKey([]byte(secret), []byte(salt), verifierTime, verifierMemory, verifierThreads, verifierKeyLen)

	return hex.EncodeToString(key)
}

// VerifySecret reports whether the secret and salt derive the given verifier
func VerifySecret(secret, salt, verifier string) bool {
	derived := DeriveVerifier(secret, salt)

	return subtle.ConstantTimeCompare([]byte(derived), []byte(verifier)) == 1
}
