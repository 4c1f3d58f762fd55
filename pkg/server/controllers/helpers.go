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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/schema"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/log"
	mw "github.com/notevault/notevault/pkg/server/middleware"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseRequestData decodes the JSON body of the request into v. An empty
// body leaves v untouched.
func parseRequestData(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Debug("decoding request body")
		return app.ErrInvalidPayload
	}

	return nil
}

// parseQuery decodes the query string of the request into v
func parseQuery(r *http.Request, v interface{}) error {
	if err := queryDecoder.Decode(v, r.URL.Query()); err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Debug("decoding query")
		return app.ErrInvalidPayload
	}

	return nil
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type publicError interface {
	Public() string
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrLoginRequired), errors.Is(err, app.ErrLoginInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrForbidden), errors.Is(err, app.ErrRegistrationDisabled),
		errors.Is(err, app.ErrCannotDeleteSelf):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrFolderNotFound),
		errors.Is(err, app.ErrShareNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrDepthExceeded), errors.Is(err, app.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, app.ErrFolderLocked), errors.Is(err, app.ErrFolderPasswordIncorrect),
		errors.Is(err, app.ErrSharePasswordRequired):
		return http.StatusLocked
	case errors.Is(err, app.ErrShareExpired):
		return http.StatusGone
	case errors.Is(err, app.ErrInvalidPayload), errors.Is(err, app.ErrInvalidFilter),
		errors.Is(err, app.ErrInvalidPermissions),
		errors.Is(err, app.ErrUsernameRequired), errors.Is(err, app.ErrPasswordRequired),
		errors.Is(err, app.ErrPasswordTooShort), errors.Is(err, app.ErrFolderNameRequired):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError responds with the status and body matching the error.
// Unexpected errors are logged with the given message.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}

	statusCode := errorStatus(err)
	if statusCode == http.StatusInternalServerError {
		mw.DoError(w, msg, err, statusCode)
		return
	}

	body := map[string]interface{}{
		"error": http.StatusText(statusCode),
	}
	var pe publicError
	if errors.As(err, &pe) {
		body["error"] = pe.Public()
	}

	switch {
	case errors.Is(err, app.ErrFolderLocked), errors.Is(err, app.ErrFolderPasswordIncorrect):
		body["isLocked"] = true
	case errors.Is(err, app.ErrSharePasswordRequired):
		body["needPwd"] = true
	}

	respondJSON(w, statusCode, body)
}

func setSessionCookie(w http.ResponseWriter, credential string, expires time.Time) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    credential,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	expire := time.Now().Add(time.Hour * -24 * 30)
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Expires:  expire,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.SetCookie(w, &cookie)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]interface{}{
		"error": http.StatusText(http.StatusNotFound),
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"error": http.StatusText(http.StatusMethodNotAllowed),
	})
}
