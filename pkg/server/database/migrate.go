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
	"github.com/notevault/notevault/pkg/server/database/migrations"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	sqlmigrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

var (
	// MigrationTableName is the name of the table that keeps track of migrations
	MigrationTableName = "migrations"
)

func getMigrationDialect(driver string) string {
	if driver == DriverPostgres {
		return "postgres"
	}

	return "sqlite3"
}

// Migrate applies the embedded migrations that have not been applied yet
func Migrate(db *gorm.DB, driver string) error {
	source := sqlmigrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.Files,
		Root:       ".",
	}

	return runMigrations(db, driver, source)
}

func runMigrations(db *gorm.DB, driver string, source sqlmigrate.MigrationSource) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	ms := sqlmigrate.MigrationSet{TableName: MigrationTableName}
	n, err := ms.Exec(sqlDB, getMigrationDialect(driver), source, sqlmigrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	log.WithFields(log.Fields{
		"applied": n,
	}).Info("Database migrated.")

	return nil
}
