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
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/notevault/notevault/pkg/prompt"
	"github.com/notevault/notevault/pkg/server/app"
	"github.com/notevault/notevault/pkg/server/config"
	"github.com/notevault/notevault/pkg/server/database"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// withStore resolves the store configuration and runs fn against the app
func withStore(sf *storeFlags, fn func(a *app.App) error) error {
	cfg, err := config.NewStore(sf.params())
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	a, cleanup, err := setupApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(a)
}

func findUser(a *app.App, username string) (*database.User, error) {
	user, err := a.GetUserByUsername(username)
	if errors.Is(err, app.ErrNotFound) {
		return nil, errors.Errorf("user '%s' not found", username)
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return user, nil
}

func newUserCmd(sf *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserCreateCmd(sf))
	cmd.AddCommand(newUserRemoveCmd(sf))
	cmd.AddCommand(newUserResetPasswordCmd(sf))
	cmd.AddCommand(newUserGrantCmd(sf))

	return cmd
}

func newUserCreateCmd(sf *storeFlags) *cobra.Command {
	var username, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			role := database.RoleUser
			if admin {
				role = database.RoleAdmin
			}

			return withStore(sf, func(a *app.App) error {
				user, err := a.CreateUser(username, password, role)
				if err != nil {
					return errors.Wrap(err, "creating user")
				}

				out := cmd.OutOrStdout()
				successColor.Fprintln(out, "User created")
				fmt.Fprintf(out, "Username: %s\nRole: %s\nUUID: %s\n", user.Username, user.Role, user.UUID)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username of the new user (required)")
	cmd.Flags().StringVar(&password, "password", "", "password of the new user (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "give the user the admin role")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newUserRemoveCmd(sf *storeFlags) *cobra.Command {
	var username string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a user with all of their notes and folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(sf, func(a *app.App) error {
				user, err := findUser(a, username)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !yes {
					ok, err := confirmRemoval(out, cmd.InOrStdin(), username)
					if err != nil {
						return err
					}
					if !ok {
						warnColor.Fprintln(out, "Aborted")
						return nil
					}
				}

				if err := a.RemoveUser(*user); err != nil {
					return errors.Wrap(err, "removing user")
				}

				successColor.Fprintln(out, "User removed")
				fmt.Fprintf(out, "Username: %s\n", username)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username of the user to remove (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.MarkFlagRequired("username")

	return cmd
}

func confirmRemoval(w io.Writer, r io.Reader, username string) (bool, error) {
	question := fmt.Sprintf("Remove user %s and every note they own?", username)

	ok, err := prompt.Confirm(w, r, question, false)
	if err != nil {
		return false, errors.Wrap(err, "getting confirmation")
	}

	return ok, nil
}

func newUserResetPasswordCmd(sf *storeFlags) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset the password of a user and sign them out everywhere",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(sf, func(a *app.App) error {
				user, err := findUser(a, username)
				if err != nil {
					return err
				}

				if err := a.UpdateUserPassword(*user, password); err != nil {
					return errors.Wrap(err, "updating password")
				}

				out := cmd.OutOrStdout()
				successColor.Fprintln(out, "Password reset")
				fmt.Fprintf(out, "Username: %s\n", username)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username of the user (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newUserGrantCmd(sf *storeFlags) *cobra.Command {
	var username, perms string

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Replace the capabilities of a user",
		Long: `Replace the capabilities of a user.

The permissions are a comma separated list of capabilities, "all" or "none".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(sf, func(a *app.App) error {
				user, err := findUser(a, username)
				if err != nil {
					return err
				}

				grant, err := a.UpdateUserPermissions(*user, perms)
				if err != nil {
					return errors.Wrapf(err, "updating permissions to '%s'", perms)
				}

				out := cmd.OutOrStdout()
				successColor.Fprintln(out, "Permissions updated")
				fmt.Fprintf(out, "Username: %s\nPermissions: %s\n", username, grant.String())

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username of the user (required)")
	cmd.Flags().StringVar(&perms, "permissions", "", "capabilities to grant (required)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("permissions")

	return cmd
}
