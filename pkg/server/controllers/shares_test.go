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
	"time"

	"github.com/notevault/notevault/pkg/assert"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/presenters"
	"github.com/notevault/notevault/pkg/server/testutils"
)

func mustIssueShareReq(t *testing.T, a *app.App, serverURL string, user database.User, noteUUID, payload string) string {
	req := testutils.MakeReq(serverURL, "POST", "/api/v1/notes/"+noteUUID+"/share", payload)
	res := testutils.HTTPAuthDo(t, a.DB, req, user)

	assert.StatusCodeEquals(t, res, http.StatusCreated, "")

	var body map[string]string
	testutils.MustDecodeJSON(t, res, &body)

	return body["share_id"]
}

func TestIssueShare(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a, mockClock, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})

		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": 2, "burn_after_read": true, "password": "pw"}`)

		var noteRecord database.Note
		testutils.MustExec(t, a.DB.First(&noteRecord, note.ID), "finding note")
		assert.Equal(t, *noteRecord.ShareID, shareID, "share id mismatch")
		assert.Equal(t, noteRecord.ShareBurnAfterRead, true, "burn flag mismatch")
		assert.Equal(t, noteRecord.ShareExpireAt.Equal(mockClock.Now().Add(48*time.Hour)), true, "expiry mismatch")
	})

	t.Run("negative days never expire", func(t *testing.T) {
		a, _, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})

		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": -3}`)

		var noteRecord database.Note
		testutils.MustExec(t, a.DB.First(&noteRecord, note.ID), "finding note")
		assert.Equal(t, *noteRecord.ShareID, shareID, "share id mismatch")
		assert.Equal(t, noteRecord.ShareExpireAt == nil, true, "share_expire_at should be empty")
	})

	t.Run("trashed note", func(t *testing.T) {
		a, mockClock, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})
		testutils.MustExec(t, a.DB.Model(&note).Update("deleted_at", mockClock.Now()), "trashing note")

		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": 1}`)

		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, ""))
		assert.StatusCodeEquals(t, res, http.StatusOK, "")
	})

	testCases := []struct {
		name     string
		perms    string
		payload  string
		expected int
	}{
		{"without share capability", "edit,delete", `{"days": 1}`, http.StatusForbidden},
		{"malformed payload", "all", `{"days": "soon"}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _, server := newTestServer(t)
			user := testutils.SetupUserData(a.DB, "alice", "pass1234")
			testutils.SetupUserPermissions(t, a.DB, &user, tc.perms)
			note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})

			req := testutils.MakeReq(server.URL, "POST", "/api/v1/notes/"+note.UUID+"/share", tc.payload)
			res := testutils.HTTPAuthDo(t, a.DB, req, user)

			assert.StatusCodeEquals(t, res, tc.expected, "")

			var noteRecord database.Note
			testutils.MustExec(t, a.DB.First(&noteRecord, note.ID), "finding note")
			assert.Equal(t, noteRecord.ShareID == nil, true, "share should not be issued")
		})
	}
}

func TestRedeemShare(t *testing.T) {
	t.Run("anonymous read", func(t *testing.T) {
		a, _, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe", Content: "flour"})
		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": 1}`)

		for i := 0; i < 2; i++ {
			req := testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, "")
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusOK, "")

			var got presenters.PublicNote
			testutils.MustDecodeJSON(t, res, &got)
			assert.Equal(t, got.Title, "recipe", "title mismatch")
			assert.Equal(t, got.Content, "flour", "content mismatch")
		}
	})

	t.Run("password", func(t *testing.T) {
		a, _, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})
		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"password": "open sesame"}`)

		for _, path := range []string{"/api/v1/shares/" + shareID, "/api/v1/shares/" + shareID + "?pwd=wrong"} {
			req := testutils.MakeReq(server.URL, "GET", path, "")
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, http.StatusLocked, path)

			var body errorBody
			testutils.MustDecodeJSON(t, res, &body)
			assert.Equal(t, body.NeedPwd, true, "needPwd mismatch")
		}

		req := testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID+"?pwd=open%20sesame", "")
		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusOK, "")
	})

	t.Run("burn after read", func(t *testing.T) {
		a, _, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "secret"})
		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"burn_after_read": true}`)

		req := testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, "")
		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		req = testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, "")
		res = testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")

		var noteRecord database.Note
		testutils.MustExec(t, a.DB.First(&noteRecord, note.ID), "finding note")
		assert.Equal(t, noteRecord.ShareID == nil, true, "share should be consumed")
		assert.Equal(t, noteRecord.DeletedAt == nil, true, "note should survive")
	})

	t.Run("expired", func(t *testing.T) {
		a, mockClock, server := newTestServer(t)
		user := testutils.SetupUserData(a.DB, "alice", "pass1234")
		note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})
		shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": 1}`)

		mockClock.Advance(25 * time.Hour)

		req := testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, "")
		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusGone, "")
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, server := newTestServer(t)

		req := testutils.MakeReq(server.URL, "GET", "/api/v1/shares/zzzzzzzz", "")
		res := testutils.HTTPDo(t, req)
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestRevokeShare(t *testing.T) {
	a, _, server := newTestServer(t)
	user := testutils.SetupUserData(a.DB, "alice", "pass1234")
	note := mustCreateNote(t, a, user, app.CreateNoteParams{Title: "recipe"})
	shareID := mustIssueShareReq(t, a, server.URL, user, note.UUID, `{"days": 1}`)

	req := testutils.MakeReq(server.URL, "DELETE", "/api/v1/notes/"+note.UUID+"/share", "")
	res := testutils.HTTPAuthDo(t, a.DB, req, user)
	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	req = testutils.MakeReq(server.URL, "GET", "/api/v1/shares/"+shareID, "")
	res = testutils.HTTPDo(t, req)
	assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
}
