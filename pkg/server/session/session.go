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

// Package session signs and verifies the credentials handed to signed-in
// users
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/pkg/errors"
)

// Sign issues a credential referencing the given server-side session. The
// session key travels as the token id and is only trusted after the
// signature is verified.
func Sign(s database.Session, userUUID string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.Key,
		Subject:   userUUID,
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	if !s.LastUsedAt.IsZero() {
		claims.IssuedAt = jwt.NewNumericDate(s.LastUsedAt)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing credential")
	}

	return signed, nil
}

// Parse verifies the credential and returns the session key it references.
// Malformed, tampered or credentials expired as of now yield ok == false.
func Parse(credential string, secret []byte, now time.Time) (key string, ok bool) {
	if credential == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !tok.Valid {
		return "", false
	}

	if claims.ID == "" {
		return "", false
	}

	return claims.ID, true
}
