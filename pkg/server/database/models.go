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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	UUID     string `json:"uuid" gorm:"type:text;uniqueIndex"`
	Username string `json:"username" gorm:"type:text;uniqueIndex;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"type:text;not null"`
	// Permissions is NULL or "all" for an unrestricted user, otherwise a
	// comma separated list of capability tags.
	Permissions *string    `json:"permissions" gorm:"type:text"`
	LastLoginAt *time.Time `json:"-"`
}

// Folder is a model for a folder. Folders nest at most two levels deep.
type Folder struct {
	Model
	UUID         string  `json:"uuid" gorm:"type:text;uniqueIndex"`
	UserID       int     `json:"user_id" gorm:"index"`
	Name         string  `json:"name"`
	ParentUUID   *string `json:"parent_uuid" gorm:"type:text;index"`
	IsEncrypted  bool    `json:"is_encrypted"`
	PasswordHash *string `json:"-"`
	Salt         *string `json:"-"`
}

// Note is a model for a note. The share grant is embedded on the note.
type Note struct {
	Model
	UUID               string     `json:"uuid" gorm:"type:text;uniqueIndex"`
	UserID             int        `json:"user_id" gorm:"index"`
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	FolderUUID         *string    `json:"folder_uuid" gorm:"type:text;index"`
	IsEncrypted        bool       `json:"is_encrypted"`
	DeletedAt          *time.Time `json:"deleted_at" gorm:"index"`
	ShareID            *string    `json:"share_id" gorm:"type:text;uniqueIndex"`
	SharePwd           *string    `json:"-"`
	ShareExpireAt      *time.Time `json:"share_expire_at"`
	ShareBurnAfterRead bool       `json:"share_burn_after_read"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time `gorm:"index"`
}
