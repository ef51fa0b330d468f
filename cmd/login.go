package cmd

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	authadapter "github.com/blogware/blogctl/internal/adapters/auth"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if password == "" {
				password, err = promptSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			result, err := app.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if err := app.sessions.Login(cmd.Context(), result.Token, result.User); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", result.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	cmd.AddCommand(newLoginGoogleCmd(app))

	return cmd
}

func newLoginGoogleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Sign in with Google via the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			return runGoogleLogin(cmd, app)
		},
	}
}

func runGoogleLogin(cmd *cobra.Command, app *app) error {
	server, err := authadapter.StartCallbackServer(app.googleLogin.ListenAddr)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Close() }()

	authURL := app.api.GoogleAuthURL() + "?redirect_uri=" + url.QueryEscape(server.RedirectURI())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authenticate:\n%s\n", authURL)

	token, err := server.WaitForToken(app.googleLogin.Timeout)
	if err != nil {
		return fmt.Errorf("wait for auth callback: %w", err)
	}

	user, err := authadapter.DecodeIdentityToken(token)
	if err != nil {
		return fmt.Errorf("decode identity token: %w", err)
	}

	if err := app.sessions.Login(cmd.Context(), token, user); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
	return nil
}

func promptSecret(cmd *cobra.Command, label string) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), label)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	value := strings.TrimRight(line, "\r\n")
	if value == "" {
		return "", fmt.Errorf("password is required")
	}
	return value, nil
}
