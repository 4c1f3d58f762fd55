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

package context

import (
	"context"
	"testing"

	"github.com/notevault/notevault/pkg/assert"
	"github.com/notevault/notevault/pkg/server/database"
)

func TestUser(t *testing.T) {
	t.Run("with user", func(t *testing.T) {
		user := database.User{UUID: "0f5f0054-d23f-4be1-b5fb-57673109e9cb", Username: "alice"}
		ctx := WithUser(context.Background(), &user)

		got := User(ctx)
		assert.Equal(t, got, &user, "user mismatch")
	})

	t.Run("without user", func(t *testing.T) {
		got := User(context.Background())
		assert.Equal(t, got == nil, true, "user should be nil")
	})
}
