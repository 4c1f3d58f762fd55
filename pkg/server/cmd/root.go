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
	"io"
	"os"

	"github.com/notevault/notevault/pkg/server/config"
	"github.com/spf13/cobra"
)

// storeFlags are the persistent flags locating the configuration and the store
type storeFlags struct {
	configPath string
	dbDriver   string
	dbPath     string
	dbDSN      string
}

func (f storeFlags) params() config.Params {
	return config.Params{
		ConfigPath: f.configPath,
		DBDriver:   f.dbDriver,
		DBPath:     f.dbPath,
		DBDSN:      f.dbDSN,
	}
}

// NewRoot returns the root command of the server binary
func NewRoot(stdin io.Reader, stdout io.Writer) *cobra.Command {
	flags := &storeFlags{}

	root := &cobra.Command{
		Use:           "notevault-server",
		Short:         "Notevault - a self-hosted multi-user note store",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stdout)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to the YAML configuration file")
	pf.StringVar(&flags.dbDriver, "dbDriver", "", "database driver, sqlite or postgres (env: DB_DRIVER)")
	pf.StringVar(&flags.dbPath, "dbPath", "", "path to the SQLite database file (env: DBPath, default: $XDG_DATA_HOME/notevault/server.db)")
	pf.StringVar(&flags.dbDSN, "dbDSN", "", "PostgreSQL connection string (env: DB_DSN)")

	root.AddCommand(newStartCmd(flags))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newUserCmd(flags))

	return root
}

// Execute runs the root command against the process standard streams
func Execute() error {
	return NewRoot(os.Stdin, os.Stdout).Execute()
}
