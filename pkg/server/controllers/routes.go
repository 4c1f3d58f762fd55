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
	mw "github.com/notevault/notevault/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/register", c.Users.Create, true},
		{"POST", "/signin", c.Users.Login, true},
		{"POST", "/signout", c.Users.Logout, true},
		{"GET", "/me", mw.Auth(a, c.Users.Me), true},

		{"GET", "/notes", mw.Auth(a, c.Notes.Index), true},
		{"POST", "/notes", mw.Auth(a, c.Notes.Create), true},
		{"GET", "/notes/{noteUUID}", mw.Auth(a, c.Notes.Show), true},
		{"PATCH", "/notes/{noteUUID}", mw.Auth(a, c.Notes.Update), true},
		{"DELETE", "/notes/{noteUUID}", mw.Auth(a, c.Notes.Delete), true},
		{"POST", "/notes/{noteUUID}/restore", mw.Auth(a, c.Notes.Restore), true},
		{"POST", "/notes/{noteUUID}/share", mw.Auth(a, c.Shares.Create), true},
		{"DELETE", "/notes/{noteUUID}/share", mw.Auth(a, c.Shares.Delete), true},

		{"GET", "/shares/{shareID}", c.Shares.Show, true},

		{"GET", "/folders", mw.Auth(a, c.Folders.Index), true},
		{"POST", "/folders", mw.Auth(a, c.Folders.Create), true},
		{"POST", "/folders/{folderUUID}/verify", mw.Auth(a, c.Folders.Verify), true},
		{"POST", "/folders/{folderUUID}/unlock", mw.Auth(a, c.Folders.Unlock), true},
		{"DELETE", "/folders/{folderUUID}", mw.Auth(a, c.Folders.Delete), true},

		{"GET", "/admin/users", mw.AdminOnly(a, c.Admin.Users), true},
		{"PATCH", "/admin/users/{userUUID}/permissions", mw.AdminOnly(a, c.Admin.UpdatePermissions), true},
		{"PATCH", "/admin/users/{userUUID}/password", mw.AdminOnly(a, c.Admin.ResetPassword), true},
		{"DELETE", "/admin/users/{userUUID}", mw.AdminOnly(a, c.Admin.DeleteUser), true},

		{"GET", "/health", c.Health.Index, false},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.PathPrefix("/api/v1").HandlerFunc(notFound)
	// Any other API version is unsupported
	router.PathPrefix("/api").Handler(mw.ApplyLimit(mw.NotSupported, true, app.AppEnv))

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return mw.Global(router, app.CORSOrigins), nil
}
