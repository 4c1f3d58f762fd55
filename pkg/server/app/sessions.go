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
	"time"

	"github.com/notevault/notevault/pkg/server/crypt"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/session"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionLifetime is how long a session stays valid after sign in
const sessionLifetime = 24 * 100 * time.Hour

// CreateSession returns a new session for the user of the given id
func (a *App) CreateSession(userID int) (database.Session, error) {
	key, err := crypt.GetRandomStr(32)
	if err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "generating key")
	}

	now := a.Clock.Now().UTC()
	s := database.Session{
		UserID:     userID,
		Key:        key,
		LastUsedAt: now,
		ExpiresAt:  now.Add(sessionLifetime),
	}

	if err := a.DB.Save(&s).Error; err != nil {
		return database.Session{}, pkgErrors.Wrap(err, "saving session")
	}

	return s, nil
}

// SignCredential returns the signed credential for the given session
func (a *App) SignCredential(s database.Session, user database.User) (string, error) {
	return session.Sign(s, user.UUID, a.SessionSecret)
}

// ResolveCaller returns the user behind the given credential. Malformed,
// tampered or expired credentials and revoked sessions resolve to nil
// without an error.
func (a *App) ResolveCaller(credential string) (*database.User, error) {
	now := a.Clock.Now()
	key, ok := session.Parse(credential, a.SessionSecret, now)
	if !ok {
		return nil, nil
	}

	var s database.Session
	err := a.DB.Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding session")
	}

	if s.ExpiresAt.Before(now) {
		return nil, nil
	}

	var user database.User
	err = a.DB.Where("id = ?", s.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user from session")
	}

	return &user, nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It effectively
// invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting sessions")
	}

	return nil
}

// DeleteSession deletes the session referenced by the given credential
func (a *App) DeleteSession(credential string) error {
	key, ok := session.Parse(credential, a.SessionSecret, a.Clock.Now())
	if !ok {
		return nil
	}

	if err := a.DB.Where("key = ?", key).Delete(&database.Session{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting the session")
	}

	return nil
}
