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

package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
)

// SessionCookieName is the name of the cookie holding the credential
const SessionCookieName = "id"

// ErrMalformedAuthHeader is an error for an Authorization header that is not a bearer credential
var ErrMalformedAuthHeader = errors.New("malformed authorization header")

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "reading cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthHeader
	}

	return parts[1], nil
}

// GetCredential extracts a session key from the request from the request header
func GetCredential(r *http.Request) (string, error) {
	sessionKey, err := getSessionKeyFromCookie(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from cookie")
	}
	if sessionKey == "" {
		sessionKey, err = getSessionKeyFromAuth(r)
		if err != nil {
			return "", errors.Wrap(err, "getting session key from Authorization header")
		}
	}

	return sessionKey, nil
}

// RespondJSONError writes a JSON error body with the given status
func RespondJSONError(w http.ResponseWriter, statusCode int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ErrorWrap(err, "encoding error response")
	}
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Bearer realm="notevault"`)
	RespondJSONError(w, http.StatusUnauthorized, map[string]interface{}{
		"error": http.StatusText(http.StatusUnauthorized),
	})
}

// RespondForbidden responds with forbidden
func RespondForbidden(w http.ResponseWriter) {
	RespondJSONError(w, http.StatusForbidden, map[string]interface{}{
		"error": http.StatusText(http.StatusForbidden),
	})
}

// DoError logs the error and responds with the given status code with a generic status text
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	RespondJSONError(w, statusCode, map[string]interface{}{
		"error": http.StatusText(statusCode),
	})
}

// NotSupported is the handler for the route that is no longer supported
func NotSupported(w http.ResponseWriter, r *http.Request) {
	RespondJSONError(w, http.StatusGone, map[string]interface{}{
		"error": "API version is not supported",
	})
}
