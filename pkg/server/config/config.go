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

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/notevault/notevault/pkg/dirs"
	"github.com/notevault/notevault/pkg/server/crypt"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDBDir is the default directory name for Notevault data
	DefaultDBDir = "notevault"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultConfigFilename is the default configuration filename
	DefaultConfigFilename = "server.yaml"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDBDir, DefaultDBFilename)
	// DefaultConfigPath is the default path to the configuration file
	DefaultConfigPath = filepath.Join(dirs.ConfigHome, DefaultDBDir, DefaultConfigFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBMissingDSN is an error for a postgres configuration without a connection string
	ErrDBMissingDSN = errors.New("DB_DSN is empty")
	// ErrDBDriverInvalid is an error for an unsupported database driver
	ErrDBDriverInvalid = errors.New("Invalid DB_DRIVER")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrSessionSecretRequired is an error for a production configuration without a session secret
	ErrSessionSecretRequired = errors.New("SESSION_SECRET is required in production")
	// ErrSessionSecretTooShort is an error for a session secret that is too weak to sign credentials
	ErrSessionSecretTooShort = errors.New("SESSION_SECRET should be at least 32 characters")
)

// minSessionSecretLength is the minimum length of a configured session secret
const minSessionSecretLength = 32

// fileConfig is the YAML configuration file
type fileConfig struct {
	AppEnv              string   `yaml:"appEnv"`
	Port                string   `yaml:"port"`
	DBDriver            string   `yaml:"dbDriver"`
	DBPath              string   `yaml:"dbPath"`
	DBDSN               string   `yaml:"dbDSN"`
	DisableRegistration bool     `yaml:"disableRegistration"`
	LogLevel            string   `yaml:"logLevel"`
	SuperUser           string   `yaml:"superUser"`
	SessionSecret       string   `yaml:"sessionSecret"`
	CORSOrigins         []string `yaml:"corsOrigins"`
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	Port                string
	DBDriver            string
	DBPath              string
	DBDSN               string
	DisableRegistration bool
	LogLevel            string
	SuperUser           string
	SessionSecret       []byte
	CORSOrigins         []string
}

// Params are the configuration parameters for creating a new Config.
// Non-empty params take precedence over the environment, which takes
// precedence over the configuration file.
type Params struct {
	ConfigPath          string
	AppEnv              string
	Port                string
	DBDriver            string
	DBPath              string
	DBDSN               string
	DisableRegistration bool
	LogLevel            string
	SuperUser           string
	SessionSecret       string
	CORSOrigins         string
}

// LoadDotEnv loads environment variables from the given .env files, or from
// .env in the working directory. Variables already set are kept, and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return errors.Wrapf(err, "loading %s", p)
		}
	}

	return nil
}

func readFile(path string) (fileConfig, error) {
	var ret fileConfig

	if path == "" {
		return ret, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return ret, errors.Wrapf(err, "reading config file %s", path)
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrapf(err, "parsing config file %s", path)
	}

	return ret, nil
}

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// pick returns the first non-empty of value, the env var and the file value,
// otherwise the default
func pick(value, envKey, fileVal, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	if fileVal != "" {
		return fileVal
	}

	return defaultVal
}

func splitList(s string) []string {
	ret := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}

	return ret
}

func resolve(p Params) (Config, error) {
	fc, err := readFile(p.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		AppEnv:              pick(p.AppEnv, "APP_ENV", fc.AppEnv, AppEnvProduction),
		Port:                pick(p.Port, "PORT", fc.Port, "3001"),
		DBDriver:            pick(p.DBDriver, "DB_DRIVER", fc.DBDriver, database.DriverSQLite),
		DBPath:              pick(p.DBPath, "DBPath", fc.DBPath, DefaultDBPath),
		DBDSN:               pick(p.DBDSN, "DB_DSN", fc.DBDSN, ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration") || fc.DisableRegistration,
		LogLevel:            pick(p.LogLevel, "LOG_LEVEL", fc.LogLevel, log.LevelInfo),
		SuperUser:           pick(p.SuperUser, "SUPER_USER", fc.SuperUser, ""),
		CORSOrigins:         splitList(pick(p.CORSOrigins, "CORS_ORIGINS", strings.Join(fc.CORSOrigins, ","), "")),
		SessionSecret:       []byte(pick(p.SessionSecret, "SESSION_SECRET", fc.SessionSecret, "")),
	}

	return c, nil
}

// New constructs and returns a new validated config for serving requests.
// Empty string params will fall back to environment variables, the
// configuration file and defaults.
func New(p Params) (Config, error) {
	c, err := resolve(p)
	if err != nil {
		return Config{}, err
	}

	if len(c.SessionSecret) == 0 && !c.IsProd() {
		secret, err := crypt.GetRandomStr(minSessionSecretLength)
		if err != nil {
			return Config{}, errors.Wrap(err, "generating session secret")
		}

		log.WithFields(log.Fields{
			"appEnv": c.AppEnv,
		}).Warn("SESSION_SECRET is not set. Using a random secret; sessions will not survive a restart")
		c.SessionSecret = []byte(secret)
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// NewStore constructs a config for commands that only access the database.
// The session secret is not required.
func NewStore(p Params) (Config, error) {
	c, err := resolve(p)
	if err != nil {
		return Config{}, err
	}

	if err := validateStore(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validateStore(c Config) error {
	switch c.DBDriver {
	case database.DriverSQLite:
		if c.DBPath == "" {
			return ErrDBMissingPath
		}
	case database.DriverPostgres:
		if c.DBDSN == "" {
			return ErrDBMissingDSN
		}
	default:
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}

	return nil
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}
	if err := validateStore(c); err != nil {
		return err
	}

	if len(c.SessionSecret) == 0 {
		return ErrSessionSecretRequired
	}
	if len(c.SessionSecret) < minSessionSecretLength {
		return ErrSessionSecretTooShort
	}

	return nil
}
