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
	"net/http"

	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/context"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
)

// Auth is an authentication middleware. Requests without a valid credential
// are rejected as unauthorized.
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := AuthWithSession(a, r)
		if err != nil {
			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly is an authentication middleware that only lets administrators through
func AdminOnly(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return Auth(a, func(w http.ResponseWriter, r *http.Request) {
		user := context.User(r.Context())
		if user == nil || !a.Evaluator().IsAdmin(*user) {
			RespondForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AuthWithSession performs user authentication with session. A missing or
// malformed credential is not an error.
func AuthWithSession(a *app.App, r *http.Request) (*database.User, bool, error) {
	credential, err := GetCredential(r)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Debug("ignoring malformed credential")
		return nil, false, nil
	}
	if credential == "" {
		return nil, false, nil
	}

	user, err := a.ResolveCaller(credential)
	if err != nil {
		return nil, false, pkgErrors.Wrap(err, "resolving caller")
	}
	if user == nil {
		return nil, false, nil
	}

	return user, true, nil
}
