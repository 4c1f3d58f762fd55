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

	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/helpers"
	"github.com/notevault/notevault/pkg/server/permissions"
	"github.com/notevault/notevault/pkg/server/token"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// shareIDAttempts is the number of share ids tried before giving up on collisions
const shareIDAttempts = 3

// IssueShareParams is the parameters for sharing a note
type IssueShareParams struct {
	// Days is the lifetime of the link. Zero or less means the link does not expire.
	Days          int
	BurnAfterRead bool
	// Password is stored and compared verbatim
	Password *string
}

// SharedNote is the part of a note visible through a share link
type SharedNote struct {
	Title       string
	Content     string
	IsEncrypted bool
	CreatedAt   time.Time
}

// IssueShare creates a share link for a note owned by the given user and
// returns its id. Any previous link of the note stops working.
func (a *App) IssueShare(user database.User, noteUUID string, p IssueShareParams) (string, error) {
	if err := a.requireCapability(user, permissions.Share); err != nil {
		return "", err
	}
	var note database.Note
	err := a.DB.Where("user_id = ? AND uuid = ?", user.ID, noteUUID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	} else if err != nil {
		return "", pkgErrors.Wrap(err, "finding note")
	}

	var expireAt *time.Time
	if p.Days > 0 {
		t := a.Clock.Now().UTC().Add(time.Duration(p.Days) * 24 * time.Hour)
		expireAt = &t
	}

	for i := 0; i < shareIDAttempts; i++ {
		shareID, err := token.NewShareID()
		if err != nil {
			return "", pkgErrors.Wrap(err, "generating share id")
		}

		err = a.DB.Model(&database.Note{}).
			Where("id = ?", note.ID).
			Updates(map[string]interface{}{
				"share_id":              shareID,
				"share_pwd":             helpers.NilIfBlank(p.Password),
				"share_expire_at":       expireAt,
				"share_burn_after_read": p.BurnAfterRead,
			}).Error
		if err == nil {
			return shareID, nil
		}
		if !database.IsUniqueViolation(err) {
			return "", pkgErrors.Wrap(err, "saving share")
		}
	}

	return "", pkgErrors.New("could not generate a unique share id")
}

func clearedShare() map[string]interface{} {
	return map[string]interface{}{
		"share_id":              nil,
		"share_pwd":             nil,
		"share_expire_at":       nil,
		"share_burn_after_read": false,
	}
}

// RevokeShare removes the share link of a note owned by the given user
func (a *App) RevokeShare(user database.User, noteUUID string) error {
	if err := a.DB.Model(&database.Note{}).
		Where("user_id = ? AND uuid = ?", user.ID, noteUUID).
		Updates(clearedShare()).Error; err != nil {
		return pkgErrors.Wrap(err, "revoking share")
	}

	return nil
}

// RedeemShare returns the shared note behind the given share id. It needs no
// signed-in user. A burn-after-read link is consumed by the first successful
// redemption.
func (a *App) RedeemShare(shareID, password string) (SharedNote, error) {
	if shareID == "" {
		return SharedNote{}, ErrShareNotFound
	}

	var note database.Note
	err := a.DB.Where("share_id = ?", shareID).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SharedNote{}, ErrShareNotFound
	} else if err != nil {
		return SharedNote{}, pkgErrors.Wrap(err, "finding shared note")
	}

	if note.ShareExpireAt != nil && a.Clock.Now().After(*note.ShareExpireAt) {
		return SharedNote{}, ErrShareExpired
	}

	if note.SharePwd != nil && *note.SharePwd != password {
		return SharedNote{}, ErrSharePasswordRequired
	}

	if note.ShareBurnAfterRead {
		// Only the redemption that clears the id may read the note
		result := a.DB.Model(&database.Note{}).
			Where("id = ? AND share_id = ?", note.ID, shareID).
			Updates(clearedShare())
		if err := result.Error; err != nil {
			return SharedNote{}, pkgErrors.Wrap(err, "burning share")
		}
		if result.RowsAffected == 0 {
			return SharedNote{}, ErrShareNotFound
		}
	}

	return SharedNote{
		Title:       note.Title,
		Content:     note.Content,
		IsEncrypted: note.IsEncrypted,
		CreatedAt:   note.CreatedAt,
	}, nil
}
