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


package cmd

import (
	"github.com/notevault/notevault/pkg/clock"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/config"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(database.Params{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		return nil, err
	}

	database.InitSchema(db)
	if err := database.Migrate(db, cfg.DBDriver); err != nil {
		database.Close(db)
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

// setupApp opens the store and returns the app with a function releasing it
func setupApp(cfg config.Config) (*app.App, func(), error) {
	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initializing database")
	}

	a := &app.App{
		DB:                  db,
		Clock:               clock.New(),
		SessionSecret:       cfg.SessionSecret,
		SuperUser:           cfg.SuperUser,
		AppEnv:              cfg.AppEnv,
		DisableRegistration: cfg.DisableRegistration,
		Port:                cfg.Port,
		DBDriver:            cfg.DBDriver,
		DBPath:              cfg.DBPath,
		CORSOrigins:         cfg.CORSOrigins,
	}

	cleanup := func() {
		database.Close(db)
	}

	return a, cleanup, nil
}
