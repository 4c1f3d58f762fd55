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

	"github.com/notevault/notevault/pkg/server/database"
)

// Folder is a result of PresentFolder. Password verifiers are never presented.
type Folder struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	ParentUUID  *string   `json:"parent_uuid"`
	IsEncrypted bool      `json:"is_encrypted"`
	CreatedAt   time.Time `json:"created_at"`
}

// PresentFolder presents folder
func PresentFolder(folder database.Folder) Folder {
	return Folder{
		UUID:        folder.UUID,
		Name:        folder.Name,
		ParentUUID:  folder.ParentUUID,
		IsEncrypted: folder.IsEncrypted,
		CreatedAt:   FormatTS(folder.CreatedAt),
	}
}

// PresentFolders presents folders
func PresentFolders(folders []database.Folder) []Folder {
	ret := []Folder{}

	for _, folder := range folders {
		ret = append(ret, PresentFolder(folder))
	}

	return ret
}
