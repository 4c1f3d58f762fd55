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

package app

import (
	"github.com/notevault/notevault/pkg/clock"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptySessionSecret is an error for missing credential signing secret
	ErrEmptySessionSecret = errors.New("No session secret was provided")
)

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	SessionSecret       []byte
	SuperUser           string
	AppEnv              string
	DisableRegistration bool
	Port                string
	DBDriver            string
	DBPath              string
	CORSOrigins         []string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if len(a.SessionSecret) == 0 {
		return ErrEmptySessionSecret
	}

	return nil
}

// Evaluator returns the permission evaluator for the app
func (a *App) Evaluator() *permissions.Evaluator {
	return permissions.NewEvaluator(a.DB, a.SuperUser)
}

// requireCapability returns ErrForbidden unless the user holds the capability
func (a *App) requireCapability(user database.User, c permissions.Capability) error {
	if !a.Evaluator().HasCapability(user.ID, c) {
		return ErrForbidden
	}

	return nil
}
