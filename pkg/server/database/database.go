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
	"os"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pqUniqueViolation is the SQLSTATE for unique_violation
const pqUniqueViolation = "23505"

// Params are the parameters for opening a database connection
type Params struct {
	// Driver is either DriverSQLite or DriverPostgres
	Driver string
	// Path is the SQLite database file
	Path string
	// DSN is the PostgreSQL connection string
	DSN      string
	LogLevel string
}

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Folder{},
		&Note{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

// getDBLogLevel maps the application log level to the gorm log level.
// SQL statements are only traced at debug level.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}

	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

func getDialector(p Params) (gorm.Dialector, error) {
	switch p.Driver {
	case DriverSQLite, "":
		dir := filepath.Dir(p.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}

		return sqlite.Open(sqliteDSN(p.Path)), nil
	case DriverPostgres:
		// lib/pq registers itself with database/sql as "postgres"
		return postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        p.DSN,
		}), nil
	default:
		return nil, errors.Errorf("unsupported database driver '%s'", p.Driver)
	}
}

// Open initializes the database connection
func Open(p Params) (*gorm.DB, error) {
	dialector, err := getDialector(p)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(p.LogLevel)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	return db, nil
}

// IsUniqueViolation reports whether err was caused by a unique constraint
// on either of the supported drivers
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	return false
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.ErrorWrap(err, "getting the connection pool")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.ErrorWrap(err, "closing the database")
	}
}
