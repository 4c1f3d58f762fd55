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
	"strings"
	"time"

	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/helpers"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/notevault/notevault/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// TrashRetention is how long a trashed note is kept before it is purged
const TrashRetention = 48 * time.Hour

// NoteFilterKind is the kind of a note listing
type NoteFilterKind string

const (
	// FilterAll lists active notes
	FilterAll NoteFilterKind = "all"
	// FilterTrash lists trashed notes
	FilterTrash NoteFilterKind = "trash"
	// FilterShared lists active notes with a live share link
	FilterShared NoteFilterKind = "shared"
	// FilterFolder lists active notes in a folder
	FilterFolder NoteFilterKind = "folder"
	// FilterRoot lists active notes outside any folder
	FilterRoot NoteFilterKind = "root"
	// FilterSearch lists active, unencrypted notes matching a query
	FilterSearch NoteFilterKind = "search"
)

// NoteFilter selects the notes to list
type NoteFilter struct {
	Kind NoteFilterKind
	// FolderUUID and FolderPassword are used by FilterFolder
	FolderUUID     string
	FolderPassword string
	// Query is used by FilterSearch
	Query string
}

// ParseNoteFilterKind parses the kind of a note listing. An empty kind lists
// all active notes.
func ParseNoteFilterKind(s string) (NoteFilterKind, error) {
	switch k := NoteFilterKind(s); k {
	case "":
		return FilterAll, nil
	case FilterAll, FilterTrash, FilterShared, FilterFolder, FilterRoot, FilterSearch:
		return k, nil
	default:
		return "", ErrInvalidFilter
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func orderNotes(conn *gorm.DB) *gorm.DB {
	return conn.Order("notes.created_at DESC, notes.id DESC")
}

func (a *App) notesQuery(user database.User, f NoteFilter) (*gorm.DB, error) {
	conn := a.DB.Where("notes.user_id = ?", user.ID)

	if f.Kind == FilterTrash {
		return conn.Where("notes.deleted_at IS NOT NULL"), nil
	}

	conn = conn.Where("notes.deleted_at IS NULL")

	switch f.Kind {
	case FilterAll:
	case FilterShared:
		conn = conn.Where("notes.share_id IS NOT NULL")
	case FilterRoot:
		conn = conn.Where("notes.folder_uuid IS NULL")
	case FilterFolder:
		if f.FolderUUID == "" {
			return nil, ErrFolderNotFound
		}
		if err := a.CheckFolderAccess(user, f.FolderUUID, f.FolderPassword); err != nil {
			return nil, err
		}

		conn = conn.Where("notes.folder_uuid = ?", f.FolderUUID)
	case FilterSearch:
		conn = conn.Where("notes.is_encrypted = ?", false)

		if q := strings.TrimSpace(f.Query); q != "" {
			pattern := likePattern(q)
			conn = conn.Where("(notes.title LIKE ? ESCAPE '\\' OR notes.content LIKE ? ESCAPE '\\')", pattern, pattern)
		}
	default:
		return nil, ErrInvalidFilter
	}

	return conn, nil
}

// ListNotes returns the notes of the given user matching the filter, newest
// first. Listing the trash purges notes past the retention window first.
func (a *App) ListNotes(user database.User, f NoteFilter) ([]database.Note, error) {
	if f.Kind == "" {
		f.Kind = FilterAll
	}

	if f.Kind == FilterTrash {
		if _, err := a.reapTrash(user.ID); err != nil {
			return nil, pkgErrors.Wrap(err, "purging trash")
		}
	}

	conn, err := a.notesQuery(user, f)
	if err != nil {
		return nil, err
	}

	notes := []database.Note{}
	if err := orderNotes(conn).Find(&notes).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding notes")
	}

	return notes, nil
}

// reapTrash permanently deletes the notes of the given user that have been
// in the trash for longer than the retention window
func (a *App) reapTrash(userID int) (int64, error) {
	cutoff := a.Clock.Now().UTC().Add(-TrashRetention)

	result := a.DB.Where("user_id = ? AND deleted_at IS NOT NULL AND deleted_at < ?", userID, cutoff).
		Delete(&database.Note{})
	if err := result.Error; err != nil {
		return 0, pkgErrors.Wrap(err, "deleting expired notes")
	}

	if result.RowsAffected > 0 {
		log.WithFields(log.Fields{
			"user_id": userID,
			"count":   result.RowsAffected,
		}).Info("purged expired notes from trash")
	}

	return result.RowsAffected, nil
}

// resolveNoteFolder returns the folder reference for a note, verifying that
// the folder belongs to the given user
func (a *App) resolveNoteFolder(user database.User, folderUUID *string) (*string, error) {
	folderUUID = helpers.NilIfBlank(folderUUID)
	if folderUUID == nil {
		return nil, nil
	}

	if _, err := getUserFolder(a.DB, user.ID, *folderUUID); err != nil {
		return nil, err
	}

	return folderUUID, nil
}

// CreateNoteParams is the parameters for creating a note
type CreateNoteParams struct {
	Title       string
	Content     string
	FolderUUID  *string
	IsEncrypted bool
}

// CreateNote creates a note for the given user and returns it
func (a *App) CreateNote(user database.User, p CreateNoteParams) (database.Note, error) {
	folderUUID, err := a.resolveNoteFolder(user, p.FolderUUID)
	if err != nil {
		return database.Note{}, err
	}

	uuid, err := helpers.GenUUID()
	if err != nil {
		return database.Note{}, err
	}

	note := database.Note{
		UUID:        uuid,
		UserID:      user.ID,
		Title:       p.Title,
		Content:     p.Content,
		FolderUUID:  folderUUID,
		IsEncrypted: p.IsEncrypted,
	}
	note.CreatedAt = a.Clock.Now().UTC()

	if err := a.DB.Create(&note).Error; err != nil {
		return database.Note{}, pkgErrors.Wrap(err, "inserting note")
	}

	return note, nil
}

// UpdateNoteParams is the parameters for updating a note. Nil fields are
// left unchanged. An empty FolderUUID moves the note out of its folder.
type UpdateNoteParams struct {
	Title       *string
	Content     *string
	FolderUUID  *string
	IsEncrypted *bool
}

// UpdateNote updates a note owned by the given user. Updating a note that
// the user does not own changes nothing.
func (a *App) UpdateNote(user database.User, noteUUID string, p UpdateNoteParams) error {
	if err := a.requireCapability(user, permissions.Edit); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.IsEncrypted != nil {
		fields["is_encrypted"] = *p.IsEncrypted
	}
	if p.FolderUUID != nil {
		folderUUID, err := a.resolveNoteFolder(user, p.FolderUUID)
		if err != nil {
			return err
		}

		fields["folder_uuid"] = folderUUID
	}

	if len(fields) == 0 {
		return nil
	}

	if err := a.DB.Model(&database.Note{}).
		Where("user_id = ? AND uuid = ?", user.ID, noteUUID).
		Updates(fields).Error; err != nil {
		return pkgErrors.Wrap(err, "updating note")
	}

	return nil
}

// SoftDeleteNote moves a note owned by the given user to the trash. A note
// already in the trash keeps its original deletion time.
func (a *App) SoftDeleteNote(user database.User, noteUUID string) error {
	if err := a.requireCapability(user, permissions.Delete); err != nil {
		return err
	}

	now := a.Clock.Now().UTC()
	if err := a.DB.Model(&database.Note{}).
		Where("user_id = ? AND uuid = ? AND deleted_at IS NULL", user.ID, noteUUID).
		Update("deleted_at", &now).Error; err != nil {
		return pkgErrors.Wrap(err, "trashing note")
	}

	return nil
}

// RestoreNote moves a note owned by the given user out of the trash
func (a *App) RestoreNote(user database.User, noteUUID string) error {
	if err := a.DB.Model(&database.Note{}).
		Where("user_id = ? AND uuid = ?", user.ID, noteUUID).
		Update("deleted_at", nil).Error; err != nil {
		return pkgErrors.Wrap(err, "restoring note")
	}

	return nil
}

// HardDeleteNote permanently deletes a note owned by the given user
func (a *App) HardDeleteNote(user database.User, noteUUID string) error {
	if err := a.requireCapability(user, permissions.Delete); err != nil {
		return err
	}

	if err := a.DB.Where("user_id = ? AND uuid = ?", user.ID, noteUUID).
		Delete(&database.Note{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting note")
	}

	return nil
}
