package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/adapters/api"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your account profile",
	}

	cmd.AddCommand(newProfileUpdateCmd(app), newProfilePasswordCmd(app))

	return cmd
}

func newProfileUpdateCmd(app *app) *cobra.Command {
	var input api.ProfileInput

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your display name or avatar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			user, err := app.api.UpdateProfile(cmd.Context(), input)
			if err != nil {
				return err
			}

			// the stored user record goes stale otherwise
			if err := app.sessions.Login(cmd.Context(), app.sessions.Token(), user); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated profile for %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&input.AvatarPath, "avatar", "", "Path to a new avatar image")

	return cmd
}

func newProfilePasswordCmd(app *app) *cobra.Command {
	var current string
	var next string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			if current == "" {
				current, err = promptSecret(cmd, "Current password: ")
				if err != nil {
					return err
				}
			}
			if next == "" {
				next, err = promptSecret(cmd, "New password: ")
				if err != nil {
					return err
				}
			}

			if err := app.api.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password (prompted when omitted)")
	cmd.Flags().StringVar(&next, "new", "", "New password (prompted when omitted)")

	return cmd
}
