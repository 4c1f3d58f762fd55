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

package presenters

import (
	"time"

	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/permissions"
)

// UserSummary is a user as listed to administrators
type UserSummary struct {
	UUID        string     `json:"uuid"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Permissions string     `json:"permissions"`
	IsAdmin     bool       `json:"is_admin"`
	NoteCount   int64      `json:"note_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// PresentUserSummaries presents users for administrators
func PresentUserSummaries(users []app.UserSummary, e *permissions.Evaluator) []UserSummary {
	ret := []UserSummary{}

	for _, u := range users {
		ret = append(ret, UserSummary{
			UUID:        u.UUID,
			Username:    u.Username,
			Role:        u.Role,
			Permissions: permissions.ParseGrant(u.Permissions).String(),
			IsAdmin:     e.IsAdmin(u.User),
			NoteCount:   u.NoteCount,
			CreatedAt:   FormatTS(u.CreatedAt),
			LastLoginAt: formatTSPtr(u.LastLoginAt),
		})
	}

	return ret
}

// User is the signed in user
type User struct {
	UUID        string   `json:"uuid"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
}

// PresentUser presents the signed in user with the capabilities they hold
func PresentUser(user database.User, e *permissions.Evaluator) User {
	caps := []string{}
	for _, c := range permissions.Capabilities {
		if e.Can(user, c) {
			caps = append(caps, string(c))
		}
	}

	return User{
		UUID:        user.UUID,
		Username:    user.Username,
		Role:        user.Role,
		Permissions: caps,
		IsAdmin:     e.IsAdmin(user),
	}
}
