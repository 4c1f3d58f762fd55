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

package presenters

import (
	"time"

	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/database"
)

// Note is a result of PresentNote
type Note struct {
	UUID               string     `json:"uuid"`
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	FolderUUID         *string    `json:"folder_uuid"`
	IsEncrypted        bool       `json:"is_encrypted"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DeletedAt          *time.Time `json:"deleted_at"`
	ShareID            *string    `json:"share_id"`
	ShareExpireAt      *time.Time `json:"share_expire_at"`
	ShareBurnAfterRead bool       `json:"share_burn_after_read"`
	ShareHasPassword   bool       `json:"share_has_password"`
}

func formatTSPtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}

	t := FormatTS(*ts)
	return &t
}

// PresentNote presents note
func PresentNote(note database.Note) Note {
	ret := Note{
		UUID:               note.UUID,
		Title:              note.Title,
		Content:            note.Content,
		FolderUUID:         note.FolderUUID,
		IsEncrypted:        note.IsEncrypted,
		CreatedAt:          FormatTS(note.CreatedAt),
		UpdatedAt:          FormatTS(note.UpdatedAt),
		DeletedAt:          formatTSPtr(note.DeletedAt),
		ShareID:            note.ShareID,
		ShareExpireAt:      formatTSPtr(note.ShareExpireAt),
		ShareBurnAfterRead: note.ShareBurnAfterRead,
		ShareHasPassword:   note.SharePwd != nil,
	}

	return ret
}

// PresentNotes presents notes
func PresentNotes(notes []database.Note) []Note {
	ret := []Note{}

	for _, note := range notes {
		p := PresentNote(note)
		ret = append(ret, p)
	}

	return ret
}

// PublicNote is a note as seen through a share link. It carries nothing
// about the owner.
type PublicNote struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsEncrypted bool      `json:"is_encrypted"`
	CreatedAt   time.Time `json:"created_at"`
}

// PresentPublicNote presents a shared note
func PresentPublicNote(note app.SharedNote) PublicNote {
	return PublicNote{
		Title:       note.Title,
		Content:     note.Content,
		IsEncrypted: note.IsEncrypted,
		CreatedAt:   FormatTS(note.CreatedAt),
	}
}
