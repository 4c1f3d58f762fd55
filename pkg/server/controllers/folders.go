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
	"github.com/notevault/notevault/pkg/server/presenters"
)

// maxFolderNameLength is the maximum length of a folder name in characters
const maxFolderNameLength = 100

// NewFolders creates a new Folders controller.
func NewFolders(app *app.App) *Folders {
	return &Folders{
		app: app,
	}
}

// Folders is a folders controller.
type Folders struct {
	app *app.App
}

// Index lists the folders of the signed in user
func (f *Folders) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	folders, err := f.app.GetFolders(*user)
	if err != nil {
		handleJSONError(w, err, "getting folders")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentFolders(folders))
}

type createFolderPayload struct {
	Name       string  `json:"name"`
	ParentUUID *string `json:"parent_uuid"`
	Password   *string `json:"password"`
}

func (p createFolderPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, maxFolderNameLength)),
		validation.Field(&p.ParentUUID, is.UUID),
	)
}

// Create creates a folder
func (f *Folders) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var params createFolderPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}
	if err := params.Validate(); err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	folder, err := f.app.CreateFolder(*user, app.CreateFolderParams{
		Name:       params.Name,
		ParentUUID: params.ParentUUID,
		Password:   params.Password,
	})
	if err != nil {
		handleJSONError(w, err, "creating folder")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentFolder(folder))
}

type folderPasswordPayload struct {
	Password string `json:"password"`
}

// Verify checks the password of an encrypted folder
func (f *Folders) Verify(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	var params folderPasswordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	if err := f.app.VerifyFolderPassword(*user, mux.Vars(r)["folderUUID"], params.Password); err != nil {
		handleJSONError(w, err, "verifying folder password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unlock removes the encryption of a folder
func (f *Folders) Unlock(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	if err := f.app.UnlockFolder(*user, mux.Vars(r)["folderUUID"]); err != nil {
		handleJSONError(w, err, "unlocking folder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete deletes a folder. Its notes move to the root and its children are
// promoted to the top level.
func (f *Folders) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	if err := f.app.DeleteFolder(*user, mux.Vars(r)["folderUUID"]); err != nil {
		handleJSONError(w, err, "deleting folder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
