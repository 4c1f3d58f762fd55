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

	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

const (
	walCheckpointSchedule  = "@every 5m"
	sessionCleanupSchedule = "@hourly"
)

// DeleteExpiredSessions removes sessions that expired before now. It returns
// the number of removed sessions.
func DeleteExpiredSessions(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at < ?", now).Delete(&Session{})
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}

	return res.RowsAffected, nil
}

func checkpointWAL(db *gorm.DB) error {
	if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return errors.Wrap(err, "checkpointing WAL")
	}

	return nil
}

// StartMaintenance schedules housekeeping jobs for the store and returns the
// running scheduler. The caller stops it on shutdown. Trashed notes are not
// purged here; the reaper runs lazily when a trash listing is requested.
func StartMaintenance(db *gorm.DB, driver string) (*cron.Cron, error) {
	c := cron.New()

	if driver == DriverSQLite || driver == "" {
		err := c.AddFunc(walCheckpointSchedule, func() {
			if err := checkpointWAL(db); err != nil {
				log.ErrorWrap(err, "running WAL checkpoint")
			}
		})
		if err != nil {
			return nil, errors.Wrap(err, "scheduling WAL checkpoint")
		}
	}

	err := c.AddFunc(sessionCleanupSchedule, func() {
		n, err := DeleteExpiredSessions(db, time.Now())
		if err != nil {
			log.ErrorWrap(err, "cleaning up sessions")
			return
		}

		log.WithFields(log.Fields{
			"count": n,
		}).Debug("Expired sessions removed.")
	})
	if err != nil {
		return nil, errors.Wrap(err, "scheduling session cleanup")
	}

	c.Start()

	return c, nil
}
