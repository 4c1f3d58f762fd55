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
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/notevault/notevault/pkg/assert"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	sqlmigrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	InitSchema(db)

	return db
}

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		expected logger.LogLevel
	}{
		{
			name:     "debug level maps to Info",
			level:    log.LevelDebug,
			expected: logger.Info,
		},
		{
			name:     "info level maps to Silent",
			level:    log.LevelInfo,
			expected: logger.Silent,
		},
		{
			name:     "warn level maps to Warn",
			level:    log.LevelWarn,
			expected: logger.Warn,
		},
		{
			name:     "error level maps to Error",
			level:    log.LevelError,
			expected: logger.Error,
		},
		{
			name:     "empty string maps to Silent",
			level:    "",
			expected: logger.Silent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, getDBLogLevel(tc.level), tc.expected, "log level mismatch")
		})
	}
}

func TestGetDialector(t *testing.T) {
	t.Run("unsupported driver", func(t *testing.T) {
		_, err := getDialector(Params{Driver: "mysql"})
		if err == nil {
			t.Fatal("expected an error for an unsupported driver")
		}
	})

	t.Run("sqlite dsn", func(t *testing.T) {
		assert.Equal(t, sqliteDSN("/tmp/notevault.db"), "/tmp/notevault.db?_journal_mode=WAL&_busy_timeout=5000", "dsn mismatch")
		assert.Equal(t, sqliteDSN("file:x?mode=memory"), "file:x?mode=memory", "dsn with params should be kept")
	})
}

func TestIsUniqueViolation(t *testing.T) {
	db := openTestDB(t)

	u1 := User{UUID: uuid.NewString(), Username: "alice", Role: RoleUser}
	if err := db.Create(&u1).Error; err != nil {
		t.Fatal(errors.Wrap(err, "preparing u1"))
	}

	u2 := User{UUID: uuid.NewString(), Username: "alice", Role: RoleUser}
	err := db.Create(&u2).Error
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}

	assert.Equal(t, IsUniqueViolation(err), true, "duplicate username should be a unique violation")
	assert.Equal(t, IsUniqueViolation(errors.New("some error")), false, "arbitrary errors are not unique violations")
	assert.Equal(t, IsUniqueViolation(nil), false, "nil is not a unique violation")
}

func TestRunMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("CREATE TABLE counter (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	source := &sqlmigrate.MemoryMigrationSource{
		Migrations: []*sqlmigrate.Migration{
			{Id: "001-insert", Up: []string{"INSERT INTO counter (value) VALUES (100)"}},
			{Id: "002-insert", Up: []string{"INSERT INTO counter (value) VALUES (200)"}},
		},
	}

	if err := runMigrations(db, DriverSQLite, source); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	if err := runMigrations(db, DriverSQLite, source); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM counter").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	assert.Equal(t, count, int64(2), "each migration should run exactly once")

	var applied int64
	if err := db.Raw("SELECT COUNT(*) FROM " + MigrationTableName).Scan(&applied).Error; err != nil {
		t.Fatalf("failed to count applied migrations: %v", err)
	}
	assert.Equal(t, applied, int64(2), "applied migration count mismatch")
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db, DriverSQLite); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", "idx_notes_user_deleted_at").Scan(&count).Error; err != nil {
		t.Fatalf("querying indexes: %v", err)
	}
	assert.Equal(t, count, int64(1), "owner index should be created")
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	live := Session{UserID: 1, Key: "live", ExpiresAt: now.Add(time.Hour)}
	expired := Session{UserID: 1, Key: "expired", ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []*Session{&live, &expired} {
		if err := db.Create(s).Error; err != nil {
			t.Fatal(errors.Wrap(err, "preparing session"))
		}
	}

	n, err := DeleteExpiredSessions(db, now)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, int64(1), "deleted count mismatch")

	var keys []string
	if err := db.Model(&Session{}).Pluck("key", &keys).Error; err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, keys, []string{"live"}, "remaining sessions mismatch")
}
