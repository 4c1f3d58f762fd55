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
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/notevault/notevault/pkg/server/presenters"
)

// NewAdmin creates a new Admin controller.
func NewAdmin(app *app.App) *Admin {
	return &Admin{
		app: app,
	}
}

// Admin is a controller for user administration. Its routes are only
// reachable by administrators.
type Admin struct {
	app *app.App
}

// Users lists every user with their note count
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.app.ListUsers()
	if err != nil {
		handleJSONError(w, err, "listing users")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUserSummaries(users, a.app.Evaluator()))
}

type updatePermissionsPayload struct {
	Permissions string `json:"permissions"`
}

// UpdatePermissions replaces the capabilities of a user
func (a *Admin) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var params updatePermissionsPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	target, err := a.app.GetUserByUUID(mux.Vars(r)["userUUID"])
	if err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	grant, err := a.app.UpdateUserPermissions(*target, params.Permissions)
	if err != nil {
		handleJSONError(w, err, "updating permissions")
		return
	}

	log.WithFields(log.Fields{
		"admin_id":    context.User(r.Context()).ID,
		"user_id":     target.ID,
		"permissions": grant.String(),
	}).Info("permissions updated")

	respondJSON(w, http.StatusOK, updatePermissionsPayload{
		Permissions: grant.String(),
	})
}

type resetPasswordPayload struct {
	Password string `json:"password"`
}

// ResetPassword sets a new password for a user and signs them out everywhere
func (a *Admin) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var params resetPasswordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	target, err := a.app.GetUserByUUID(mux.Vars(r)["userUUID"])
	if err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	if err := a.app.UpdateUserPassword(*target, params.Password); err != nil {
		handleJSONError(w, err, "resetting password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes a user along with their notes, folders and sessions
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := context.User(r.Context())

	if err := a.app.DeleteUserAsAdmin(*admin, mux.Vars(r)["userUUID"]); err != nil {
		handleJSONError(w, err, "deleting user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
