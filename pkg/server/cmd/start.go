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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notevault/notevault/pkg/server/buildinfo"
	"github.com/notevault/notevault/pkg/server/config"
	"github.com/notevault/notevault/pkg/server/controllers"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/notevault/notevault/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type startFlags struct {
	port                string
	appEnv              string
	disableRegistration bool
	logLevel            string
	superUser           string
	corsOrigins         string
}

func newStartCmd(sf *storeFlags) *cobra.Command {
	f := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := sf.params()
			p.Port = f.port
			p.AppEnv = f.appEnv
			p.DisableRegistration = f.disableRegistration
			p.LogLevel = f.logLevel
			p.SuperUser = f.superUser
			p.CORSOrigins = f.corsOrigins

			cfg, err := config.New(p)
			if err != nil {
				return errors.Wrap(err, "loading configuration")
			}

			return runServer(cmd.Context(), cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.port, "port", "", "server port (env: PORT, default: 3001)")
	fl.StringVar(&f.appEnv, "appEnv", "", "application environment (env: APP_ENV, default: PRODUCTION)")
	fl.BoolVar(&f.disableRegistration, "disableRegistration", false, "disable user registration (env: DisableRegistration)")
	fl.StringVar(&f.logLevel, "logLevel", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	fl.StringVar(&f.superUser, "superUser", "", "username granted every capability (env: SUPER_USER)")
	fl.StringVar(&f.corsOrigins, "corsOrigins", "", "comma separated origins allowed by CORS (env: CORS_ORIGINS)")

	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	log.SetLevel(cfg.LogLevel)

	a, cleanup, err := setupApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	maintenance, err := database.StartMaintenance(a.DB, cfg.DBDriver)
	if err != nil {
		return errors.Wrap(err, "starting maintenance jobs")
	}
	defer maintenance.Stop()

	ctl := controllers.New(a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(a, ctl),
		Controllers: ctl,
	}

	handler, err := controllers.NewRouter(a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"version":  buildinfo.Version,
			"port":     cfg.Port,
			"dbDriver": cfg.DBDriver,
			"appEnv":   cfg.AppEnv,
		}).Info("Notevault server starting")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}

	return nil
}
