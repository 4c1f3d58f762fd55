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

const (
	// RoleAdmin is the role of a user with full access to every operation
	RoleAdmin = "admin"
	// RoleUser is the role of a regular user
	RoleUser = "user"
)

const (
	// DriverSQLite selects the SQLite store
	DriverSQLite = "sqlite"
	// DriverPostgres selects the PostgreSQL store
	DriverPostgres = "postgres"
)
