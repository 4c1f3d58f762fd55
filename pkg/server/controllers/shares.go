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

	"github.com/gorilla/mux"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/context"
	"github.com/notevault/notevault/pkg/server/presenters"
)

// NewShares creates a new Shares controller.
func NewShares(app *app.App) *Shares {
	return &Shares{
		app: app,
	}
}

// Shares is a share link controller.
type Shares struct {
	app *app.App
}

// issueSharePayload is the body of a share request. Days of zero or less
// issue a link that does not expire.
type issueSharePayload struct {
	Days          int     `json:"days"`
	BurnAfterRead bool    `json:"burn_after_read"`
	Password      *string `json:"password"`
}

// Create issues a share link for a note, replacing any previous one
func (s *Shares) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var params issueSharePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	shareID, err := s.app.IssueShare(*user, mux.Vars(r)["noteUUID"], app.IssueShareParams{
		Days:          params.Days,
		BurnAfterRead: params.BurnAfterRead,
		Password:      params.Password,
	})
	if err != nil {
		handleJSONError(w, err, "issuing share")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"share_id": shareID,
	})
}

// Delete revokes the share link of a note
func (s *Shares) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	if err := s.app.RevokeShare(*user, mux.Vars(r)["noteUUID"]); err != nil {
		handleJSONError(w, err, "revoking share")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type redeemShareQuery struct {
	Password string `schema:"pwd"`
}

// Show redeems a share link. No authentication is required.
func (s *Shares) Show(w http.ResponseWriter, r *http.Request) {
	var q redeemShareQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	note, err := s.app.RedeemShare(mux.Vars(r)["shareID"], q.Password)
	if err != nil {
		handleJSONError(w, err, "redeeming share")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentPublicNote(note))
}
