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

package controllers

import (
	"net/http"
	"testing"

	"github.com/notevault/notevault/pkg/assert"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/presenters"
	"github.com/notevault/notevault/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminUsers(t *testing.T) {
	a, _, server := newTestServer(t)
	admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")
	user := testutils.SetupUserData(a.DB, "alice", "pass1234")
	mustCreateNote(t, a, user, app.CreateNoteParams{Title: "one"})
	mustCreateNote(t, a, user, app.CreateNoteParams{Title: "two"})

	t.Run("admin", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/v1/admin/users", "")
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var got []presenters.UserSummary
		testutils.MustDecodeJSON(t, res, &got)

		counts := map[string]int64{}
		for _, u := range got {
			counts[u.Username] = u.NoteCount
		}
		assert.Equal(t, len(got), 2, "user count mismatch")
		assert.Equal(t, counts["alice"], int64(2), "note count mismatch")
		assert.Equal(t, counts["admin"], int64(0), "note count mismatch")
	})

	t.Run("regular user", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/v1/admin/users", "")
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusForbidden, "")
	})
}

func TestAdminUpdatePermissions(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		stored   string
	}{
		{"edit,share", http.StatusOK, "edit,share"},
		{"all", http.StatusOK, "all"},
		{"none", http.StatusOK, "none"},
		{"edit,admin", http.StatusBadRequest, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			a, _, server := newTestServer(t)
			admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")
			user := testutils.SetupUserData(a.DB, "alice", "pass1234")

			dat := testutils.MustMarshalJSON(t, updatePermissionsPayload{Permissions: tc.input})
			req := testutils.MakeReq(server.URL, "PATCH", "/api/v1/admin/users/"+user.UUID+"/permissions", dat)
			res := testutils.HTTPAuthDo(t, a.DB, req, admin)

			assert.StatusCodeEquals(t, res, tc.expected, "")

			var userRecord database.User
			testutils.MustExec(t, a.DB.First(&userRecord, user.ID), "finding user")
			if tc.stored == "" {
				assert.Equal(t, userRecord.Permissions == nil, true, "permissions should not change")
			} else {
				assert.Equal(t, *userRecord.Permissions, tc.stored, "permissions mismatch")
			}
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		a, _, server := newTestServer(t)
		admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")

		req := testutils.MakeReq(server.URL, "PATCH", "/api/v1/admin/users/"+testutils.MustUUID(t)+"/permissions", `{"permissions": "all"}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestAdminResetPassword(t *testing.T) {
	a, _, server := newTestServer(t)
	admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")
	user := testutils.SetupUserData(a.DB, "alice", "pass1234")
	testutils.SetupSession(a.DB, user)

	t.Run("too short", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "PATCH", "/api/v1/admin/users/"+user.UUID+"/password", `{"password": "short"}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
	})

	t.Run("success", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "PATCH", "/api/v1/admin/users/"+user.UUID+"/password", `{"password": "newpass1234"}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

		var userRecord database.User
		testutils.MustExec(t, a.DB.First(&userRecord, user.ID), "finding user")
		passwordErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password), []byte("newpass1234"))
		assert.Equal(t, passwordErr, nil, "Password mismatch")

		var sessionCount int64
		testutils.MustExec(t, a.DB.Model(&database.Session{}).Where("user_id = ?", user.ID).Count(&sessionCount), "counting sessions")
		assert.Equal(t, sessionCount, int64(0), "sessions should be revoked")
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Run("another user", func(t *testing.T) {
		a, _, server := newTestServer(t)
		admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		mustCreateFolder(t, a, user, app.CreateFolderParams{Name: "work"})
		mustCreateNote(t, a, user, app.CreateNoteParams{Title: "one"})
		mustCreateNote(t, a, admin, app.CreateNoteParams{Title: "admin's"})

		req := testutils.MakeReq(server.URL, "DELETE", "/api/v1/admin/users/"+user.UUID, "")
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

		var userCount, noteCount, folderCount int64
		testutils.MustExec(t, a.DB.Model(&database.User{}).Count(&userCount), "counting users")
		testutils.MustExec(t, a.DB.Model(&database.Note{}).Count(&noteCount), "counting notes")
		testutils.MustExec(t, a.DB.Model(&database.Folder{}).Count(&folderCount), "counting folders")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
		assert.Equal(t, noteCount, int64(1), "note count mismatch")
		assert.Equal(t, folderCount, int64(0), "folder count mismatch")
	})

	t.Run("self", func(t *testing.T) {
		a, _, server := newTestServer(t)
		admin := testutils.SetupAdminData(a.DB, "admin", "pass1234")

		req := testutils.MakeReq(server.URL, "DELETE", "/api/v1/admin/users/"+admin.UUID, "")
		res := testutils.HTTPAuthDo(t, a.DB, req, admin)

		assert.StatusCodeEquals(t, res, http.StatusForbidden, "")

		var userCount int64
		testutils.MustExec(t, a.DB.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})
}
