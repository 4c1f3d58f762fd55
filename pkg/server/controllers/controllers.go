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
	"github.com/notevault/notevault/pkg/server/app"
)

// Controllers is a group of controllers
type Controllers struct {
	Users   *Users
	Notes   *Notes
	Folders *Folders
	Shares  *Shares
	Admin   *Admin
	Health  *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	c.Users = NewUsers(app)
	c.Notes = NewNotes(app)
	c.Folders = NewFolders(app)
	c.Shares = NewShares(app)
	c.Admin = NewAdmin(app)
	c.Health = NewHealth(app)

	return &c
}
