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

	"github.com/notevault/notevault/pkg/server/crypt"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/helpers"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// folderSaltLength is the number of random bytes in a folder password salt
const folderSaltLength = 16

// CreateFolderParams is the parameters for creating a folder
type CreateFolderParams struct {
	Name       string
	ParentUUID *string
	// Password encrypts the folder. It can only be set at creation.
	Password *string
}

// getUserFolder finds a folder owned by the given user
func getUserFolder(db *gorm.DB, userID int, folderUUID string) (database.Folder, error) {
	var folder database.Folder
	err := db.Where("user_id = ? AND uuid = ?", userID, folderUUID).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return folder, ErrFolderNotFound
	} else if err != nil {
		return folder, pkgErrors.Wrap(err, "finding folder")
	}

	return folder, nil
}

// CreateFolder creates a folder for the given user. A folder can only be
// nested under a root folder.
func (a *App) CreateFolder(user database.User, p CreateFolderParams) (database.Folder, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return database.Folder{}, ErrFolderNameRequired
	}

	parentUUID := helpers.NilIfBlank(p.ParentUUID)
	if parentUUID != nil {
		parent, err := getUserFolder(a.DB, user.ID, *parentUUID)
		if err != nil {
			return database.Folder{}, err
		}
		if parent.ParentUUID != nil {
			return database.Folder{}, ErrDepthExceeded
		}
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Folder{}, err
	}

	folder := database.Folder{
		UUID:       uuid,
		UserID:     user.ID,
		Name:       name,
		ParentUUID: parentUUID,
	}
	folder.CreatedAt = a.Clock.Now().UTC()

	if password := helpers.NilIfBlank(p.Password); password != nil {
		salt, err := crypt.GetRandomStr(folderSaltLength)
		if err != nil {
			return database.Folder{}, pkgErrors.Wrap(err, "generating salt")
		}

		verifier := crypt.DeriveVerifier(*password, salt)

		folder.IsEncrypted = true
		folder.Salt = &salt
		folder.PasswordHash = &verifier
	}

	if err := a.DB.Create(&folder).Error; err != nil {
		return database.Folder{}, pkgErrors.Wrap(err, "inserting folder")
	}

	return folder, nil
}

// GetFolders returns the folders of the given user in the order of creation
func (a *App) GetFolders(user database.User) ([]database.Folder, error) {
	folders := []database.Folder{}
	if err := a.DB.Where("user_id = ?", user.ID).Order("created_at ASC, id ASC").Find(&folders).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding folders")
	}

	return folders, nil
}

func verifyFolder(folder database.Folder, password string) error {
	if !folder.IsEncrypted {
		return nil
	}
	if folder.PasswordHash == nil || folder.Salt == nil {
		return ErrFolderPasswordIncorrect
	}

	if !crypt.VerifySecret(password, *folder.Salt, *folder.PasswordHash) {
		return ErrFolderPasswordIncorrect
	}

	return nil
}

// VerifyFolderPassword checks the password of a folder owned by the given
// user. An unencrypted folder always verifies.
func (a *App) VerifyFolderPassword(user database.User, folderUUID, password string) error {
	folder, err := getUserFolder(a.DB, user.ID, folderUUID)
	if err != nil {
		return err
	}

	return verifyFolder(folder, password)
}

// CheckFolderAccess gates access to the notes of a folder. An encrypted
// folder requires its password.
func (a *App) CheckFolderAccess(user database.User, folderUUID, password string) error {
	folder, err := getUserFolder(a.DB, user.ID, folderUUID)
	if err != nil {
		return err
	}

	if folder.IsEncrypted && password == "" {
		return ErrFolderLocked
	}

	return verifyFolder(folder, password)
}

// UnlockFolder removes the encryption of a folder owned by the given user
func (a *App) UnlockFolder(user database.User, folderUUID string) error {
	if err := a.DB.Model(&database.Folder{}).
		Where("user_id = ? AND uuid = ?", user.ID, folderUUID).
		Updates(map[string]interface{}{
			"is_encrypted":  false,
			"password_hash": nil,
			"salt":          nil,
		}).Error; err != nil {
		return pkgErrors.Wrap(err, "unlocking folder")
	}

	return nil
}

// DeleteFolder deletes a folder owned by the given user. Notes in the folder
// are moved out of it and child folders become root folders.
func (a *App) DeleteFolder(user database.User, folderUUID string) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.Note{}).
			Where("user_id = ? AND folder_uuid = ?", user.ID, folderUUID).
			Update("folder_uuid", nil).Error; err != nil {
			return pkgErrors.Wrap(err, "detaching notes")
		}

		if err := tx.Model(&database.Folder{}).
			Where("user_id = ? AND parent_uuid = ?", user.ID, folderUUID).
			Update("parent_uuid", nil).Error; err != nil {
			return pkgErrors.Wrap(err, "promoting child folders")
		}

		if err := tx.Where("user_id = ? AND uuid = ?", user.ID, folderUUID).
			Delete(&database.Folder{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting folder")
		}

		return nil
	})
}
