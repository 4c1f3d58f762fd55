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

package session

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notevault/notevault/pkg/assert"
	"github.com/notevault/notevault/pkg/server/database"
)

var testSecret = []byte("session-test-secret")

func TestSignParse(t *testing.T) {
	s := database.Session{
		Key:       "Vvgm3eBXfXGEFWERI7faiRJ3DAzJw+7DdT9J1LEyNfI=",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	credential, err := Sign(s, "0f5f0054-d23f-4be1-b5fb-57673109e9cb", testSecret)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid", func(t *testing.T) {
		key, ok := Parse(credential, testSecret, time.Now())

		assert.Equal(t, ok, true, "ok mismatch")
		assert.Equal(t, key, s.Key, "key mismatch")
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, ok := Parse(credential, []byte("another-secret"), time.Now())

		assert.Equal(t, ok, false, "ok mismatch")
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(credential, ".")
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		_, ok := Parse(tampered, testSecret, time.Now())

		assert.Equal(t, ok, false, "ok mismatch")
	})

	t.Run("malformed", func(t *testing.T) {
		for _, c := range []string{"", "InvalidFormat", "a.b.c", "dXNlcjpzZWNyZXQ="} {
			_, ok := Parse(c, testSecret, time.Now())

			assert.Equal(t, ok, false, fmt.Sprintf("ok mismatch for %q", c))
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := database.Session{Key: "expired-key", ExpiresAt: time.Now().Add(-time.Minute)}
		c, err := Sign(expired, "uuid", testSecret)
		if err != nil {
			t.Fatal(err)
		}

		_, ok := Parse(c, testSecret, time.Now())
		assert.Equal(t, ok, false, "ok mismatch")
	})

	t.Run("checked against the given time", func(t *testing.T) {
		_, ok := Parse(credential, testSecret, s.ExpiresAt.Add(time.Minute))
		assert.Equal(t, ok, false, "ok mismatch after expiry")

		past := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
		old := database.Session{Key: "old-key", ExpiresAt: past.Add(time.Hour)}
		c, err := Sign(old, "uuid", testSecret)
		if err != nil {
			t.Fatal(err)
		}

		key, ok := Parse(c, testSecret, past)
		assert.Equal(t, ok, true, "ok mismatch before expiry")
		assert.Equal(t, key, "old-key", "key mismatch")
	})

	t.Run("unsigned", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			ID:        "forged",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		c, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}

		_, ok := Parse(c, testSecret, time.Now())
		assert.Equal(t, ok, false, "ok mismatch")
	})
}
