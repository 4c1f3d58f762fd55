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

package app

import (
	"errors"
	"strings"

	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/helpers"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/notevault/notevault/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// minPasswordLength is the minimum length of an account password
const minPasswordLength = 8

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now().UTC()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user with the given role. New users hold every
// capability until an administrator restricts them.
func (a *App) CreateUser(username, password, role string) (database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return database.User{}, ErrUsernameRequired
	}
	if err := validatePassword(password); err != nil {
		return database.User{}, err
	}

	if role == "" {
		role = database.RoleUser
	}
	if role != database.RoleUser && role != database.RoleAdmin {
		return database.User{}, pkgErrors.Errorf("invalid role '%s'", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return pkgErrors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateUsername
		}

		if err := tx.Create(&user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateUsername
			}

			return pkgErrors.Wrap(err, "saving user")
		}

		return nil
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(username, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// GetUserByUUID finds the user of the given uuid
func (a *App) GetUserByUUID(uuid string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("uuid = ?", uuid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// GetUserByUsername finds the user of the given username
func (a *App) GetUserByUsername(username string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	return &user, nil
}

// UpdateUserPassword replaces the password of the given user and signs the
// user out everywhere
func (a *App) UpdateUserPassword(user database.User, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
			return pkgErrors.Wrap(err, "updating password")
		}

		return a.DeleteUserSessions(tx, user.ID)
	})
}

// UpdateUserPermissions replaces the stored permissions of the given user
// with a comma separated capability list, "all" or "none"
func (a *App) UpdateUserPermissions(user database.User, input string) (permissions.Grant, error) {
	grant, err := permissions.ParseGrantInput(input)
	if err != nil {
		return permissions.Grant{}, ErrInvalidPermissions
	}

	if err := a.DB.Model(&user).Update("permissions", grant.String()).Error; err != nil {
		return permissions.Grant{}, pkgErrors.Wrap(err, "updating permissions")
	}

	return grant, nil
}

// UserSummary is a user with the number of notes it owns
type UserSummary struct {
	database.User
	NoteCount int64
}

// ListUsers returns every user with its note count, newest first
func (a *App) ListUsers() ([]UserSummary, error) {
	users := []database.User{}
	if err := a.DB.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding users")
	}

	type noteCount struct {
		UserID int
		Count  int64
	}
	counts := []noteCount{}
	if err := a.DB.Model(&database.Note{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&counts).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "counting notes")
	}

	countByUser := map[int]int64{}
	for _, c := range counts {
		countByUser[c.UserID] = c.Count
	}

	ret := make([]UserSummary, len(users))
	for i, u := range users {
		ret[i] = UserSummary{User: u, NoteCount: countByUser[u.ID]}
	}

	return ret, nil
}

// RemoveUser deletes the given user with all of its notes, folders and sessions
func (a *App) RemoveUser(user database.User) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Note{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting notes")
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Folder{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting folders")
		}
		if err := a.DeleteUserSessions(tx, user.ID); err != nil {
			return err
		}
		if err := tx.Delete(&database.User{}, user.ID).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting user")
		}

		return nil
	})
}

// DeleteUserAsAdmin deletes the user of the given uuid on behalf of an
// administrator, who cannot delete their own account
func (a *App) DeleteUserAsAdmin(admin database.User, targetUUID string) error {
	if admin.UUID == targetUUID {
		return ErrCannotDeleteSelf
	}

	target, err := a.GetUserByUUID(targetUUID)
	if err != nil {
		return err
	}

	return a.RemoveUser(*target)
}
