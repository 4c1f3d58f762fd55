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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/context"
	"github.com/notevault/notevault/pkg/server/database"
	mw "github.com/notevault/notevault/pkg/server/middleware"
	"github.com/notevault/notevault/pkg/server/presenters"
	pkgErrors "github.com/pkg/errors"
)

// maxUsernameLength is the maximum length of a username in characters
const maxUsernameLength = 60

// NewUsers creates a new Users controller.
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller.
type Users struct {
	app *app.App
}

// SessionResponse is the response for a successful sign in
type SessionResponse struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// respondWithSession sets the credential cookie and writes the credential
// in the body for API clients
func (u *Users) respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session, user database.User) {
	credential, err := u.app.SignCredential(*session, user)
	if err != nil {
		handleJSONError(w, err, "signing credential")
		return
	}

	setSessionCookie(w, credential, session.ExpiresAt)

	respondJSON(w, statusCode, SessionResponse{
		Key:       credential,
		ExpiresAt: presenters.FormatTS(session.ExpiresAt),
	})
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the form before an account is created
func (f RegistrationForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required.Error(app.ErrUsernameRequired.Public()), validation.Length(1, maxUsernameLength)),
		validation.Field(&f.Password, validation.Required.Error(app.ErrPasswordRequired.Public())),
	)
}

// Create handles register
func (u *Users) Create(w http.ResponseWriter, r *http.Request) {
	if u.app.DisableRegistration {
		handleJSONError(w, app.ErrRegistrationDisabled, "registration disabled")
		return
	}

	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if err := form.Validate(); err != nil {
		handleJSONError(w, err, "validating payload")
		return
	}

	user, err := u.app.CreateUser(form.Username, form.Password, database.RoleUser)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	u.respondWithSession(w, http.StatusCreated, session, user)
}

// LoginForm is the form data for log in
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (u *Users) login(form LoginForm) (*database.Session, *database.User, error) {
	if form.Username == "" {
		return nil, nil, app.ErrUsernameRequired
	}
	if form.Password == "" {
		return nil, nil, app.ErrPasswordRequired
	}

	user, err := u.app.Authenticate(form.Username, form.Password)
	if err != nil {
		// If the user is not found, treat it as invalid login
		if err == app.ErrNotFound {
			return nil, nil, app.ErrLoginInvalid
		}

		return nil, nil, err
	}

	s, err := u.app.SignIn(user)
	if err != nil {
		return nil, nil, err
	}

	return s, user, nil
}

// Login handles login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, user, err := u.login(form)
	if err != nil {
		handleJSONError(w, err, "logging in user")
		return
	}

	u.respondWithSession(w, http.StatusOK, session, *user)
}

func (u *Users) logout(r *http.Request) (bool, error) {
	credential, err := mw.GetCredential(r)
	if err != nil {
		return false, pkgErrors.Wrap(err, "getting credentials")
	}

	if credential == "" {
		return false, nil
	}

	if err = u.app.DeleteSession(credential); err != nil {
		return false, pkgErrors.Wrap(err, "deleting session")
	}

	return true, nil
}

// Logout handles logout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	ok, err := u.logout(r)
	if err != nil {
		handleJSONError(w, err, "logging out")
		return
	}

	if ok {
		unsetSessionCookie(w)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me shows the signed in user
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrLoginRequired, "No authenticated user found")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUser(*user, u.app.Evaluator()))
}
