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

// Package permissions decides what a user may do
package permissions

import (
	"errors"

	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Evaluator derives capabilities from stored user records. The super user
// is the username configured as an administrator regardless of its role.
type Evaluator struct {
	db        *gorm.DB
	superUser string
}

// NewEvaluator returns a new evaluator
func NewEvaluator(db *gorm.DB, superUser string) *Evaluator {
	return &Evaluator{
		db:        db,
		superUser: superUser,
	}
}

// IsAdmin checks if the given user is an administrator
func (e *Evaluator) IsAdmin(user database.User) bool {
	if user.Role == database.RoleAdmin {
		return true
	}

	return e.superUser != "" && user.Username == e.superUser
}

// Can checks if the given user holds the capability
func (e *Evaluator) Can(user database.User, c Capability) bool {
	if e.IsAdmin(user) {
		return true
	}

	return ParseGrant(user.Permissions).Allows(c)
}

// HasCapability loads the user of the given id and checks the capability.
// A user that cannot be loaded holds no capability.
func (e *Evaluator) HasCapability(userID int, c Capability) bool {
	var user database.User
	err := e.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.WithFields(log.Fields{
			"user_id":    userID,
			"capability": string(c),
		}).Warn("capability check for unknown user")
		return false
	} else if err != nil {
		log.ErrorWrap(pkgErrors.Wrap(err, "finding user"), "capability check failed")
		return false
	}

	return e.Can(user, c)
}

// ViewNote checks if the given user can view the given note
func ViewNote(user *database.User, note database.Note) bool {
	if user == nil {
		return false
	}
	if note.UserID == 0 {
		return false
	}

	return note.UserID == user.ID
}
