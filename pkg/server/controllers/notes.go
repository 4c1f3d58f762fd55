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

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gorilla/mux"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/context"
	"github.com/notevault/notevault/pkg/server/database"
	mw "github.com/notevault/notevault/pkg/server/middleware"
	"github.com/notevault/notevault/pkg/server/operations"
	"github.com/notevault/notevault/pkg/server/presenters"
	"github.com/pkg/errors"
)

// NewNotes creates a new Notes controller.
func NewNotes(app *app.App) *Notes {
	return &Notes{
		app: app,
	}
}

// Notes is a notes controller.
type Notes struct {
	app *app.App
}

type listNotesQuery struct {
	Type     string `schema:"type"`
	FolderID string `schema:"folderId"`
	Query    string `schema:"q"`
}

// Index lists the notes of the signed in user matching the filter
func (n *Notes) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var q listNotesQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	kind, err := app.ParseNoteFilterKind(q.Type)
	if err != nil {
		handleJSONError(w, err, "parsing filter")
		return
	}

	notes, err := n.app.ListNotes(*user, app.NoteFilter{
		Kind:           kind,
		FolderUUID:     q.FolderID,
		FolderPassword: r.Header.Get(mw.FolderPasswordHeader),
		Query:          q.Query,
	})
	if err != nil {
		handleJSONError(w, err, "listing notes")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentNotes(notes))
}

func (n *Notes) findNote(w http.ResponseWriter, noteUUID string, user *database.User) (database.Note, bool) {
	note, ok, err := operations.GetNote(n.app.DB, noteUUID, user)
	if err != nil {
		handleJSONError(w, err, "finding note")
		return note, false
	}
	if !ok {
		handleJSONError(w, app.ErrNotFound, "note not found")
		return note, false
	}

	return note, true
}

// Show shows a single note owned by the signed in user
func (n *Notes) Show(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	note, ok := n.findNote(w, mux.Vars(r)["noteUUID"], user)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentNote(note))
}

type createNotePayload struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	FolderUUID  *string `json:"folder_uuid"`
	IsEncrypted bool    `json:"is_encrypted"`
}

func (p createNotePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&p.FolderUUID, is.UUID),
	)
}

// maxTitleLength is the maximum length of a note title in characters
const maxTitleLength = 500

// Create creates a note
func (n *Notes) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var params createNotePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}
	if err := params.Validate(); err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	note, err := n.app.CreateNote(*user, app.CreateNoteParams{
		Title:       params.Title,
		Content:     params.Content,
		FolderUUID:  params.FolderUUID,
		IsEncrypted: params.IsEncrypted,
	})
	if err != nil {
		handleJSONError(w, err, "creating note")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentNote(note))
}

type updateNotePayload struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	FolderUUID  *string `json:"folder_uuid"`
	IsEncrypted *bool   `json:"is_encrypted"`
}

func (p updateNotePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&p.FolderUUID, is.UUID),
	)
}

// Update updates a note. An empty folder_uuid moves the note to the root.
func (n *Notes) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	noteUUID := mux.Vars(r)["noteUUID"]

	var params updateNotePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}
	if err := params.Validate(); err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	err := n.app.UpdateNote(*user, noteUUID, app.UpdateNoteParams{
		Title:       params.Title,
		Content:     params.Content,
		FolderUUID:  params.FolderUUID,
		IsEncrypted: params.IsEncrypted,
	})
	if err != nil {
		handleJSONError(w, err, "updating note")
		return
	}

	note, ok := n.findNote(w, noteUUID, user)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentNote(note))
}

type deleteNoteQuery struct {
	Type string `schema:"type"`
}

// Delete moves a note to the trash, or removes it for good with type=hard
func (n *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var q deleteNoteQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	noteUUID := mux.Vars(r)["noteUUID"]

	var err error
	switch q.Type {
	case "hard":
		err = n.app.HardDeleteNote(*user, noteUUID)
	case "", "soft":
		err = n.app.SoftDeleteNote(*user, noteUUID)
	default:
		err = errors.Wrapf(app.ErrInvalidPayload, "unknown delete type %s", q.Type)
	}
	if err != nil {
		handleJSONError(w, err, "deleting note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore brings a note back from the trash
func (n *Notes) Restore(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	if err := n.app.RestoreNote(*user, mux.Vars(r)["noteUUID"]); err != nil {
		handleJSONError(w, err, "restoring note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
