package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/adapters/api"
)

func newRegisterCmd(app *app) *cobra.Command {
	var input api.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				password, err := promptSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				input.Password = password
			}

			userID, err := app.api.Register(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered user %d. Run `blogctl login` to sign in.\n", userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&input.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&input.Password, "password", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVar(&input.AvatarPath, "avatar", "", "Path to an avatar image to upload")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
