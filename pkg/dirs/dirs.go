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

// Package dirs resolves the XDG base directories the server stores its
// database and reads its configuration from
package dirs

import (
	"os"
	"path/filepath"
)

var (
	// Home is the home directory of the user running the server
	Home string
	// ConfigHome is the directory holding user-specific configuration files
	ConfigHome string
	// DataHome is the directory holding user-specific data files
	DataHome string
)

const (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
)

func init() {
	Reload()
}

// Reload re-reads the environment and recomputes the directories
func Reload() {
	Home = getHomeDir()
	ConfigHome = readPath(envConfigHome, filepath.Join(Home, ".config"))
	DataHome = readPath(envDataHome, filepath.Join(Home, ".local", "share"))
}

// getHomeDir falls back to the working directory for service accounts
// that have no home.
func getHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	return "."
}

func readPath(envName, defaultPath string) string {
	if dir := os.Getenv(envName); dir != "" {
		return dir
	}

	return defaultPath
}
