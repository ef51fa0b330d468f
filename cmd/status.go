package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/blogware/blogctl/internal/adapters/render/status"
	"github.com/blogware/blogctl/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session and notification state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			state := statusadapter.State{
				Session:       app.sessions.Session(),
				Loading:       app.sessions.Loading(),
				Connected:     app.sessions.Connected(),
				Notifications: app.sessions.Notifications(),
			}

			// Displaying the feed counts as reading it.
			if app.sessions.UnreadCount() > 0 {
				app.sessions.MarkAllRead()
			}

			if state.Session.Authenticated() {
				ids, err := app.favorites.List(cmd.Context())
				if err != nil {
					return err
				}
				state.Favorites = len(ids)
			}

			if asJSON {
				return writeStatusJSON(cmd, state)
			}

			rendered, err := app.statusRenderer(state, statusadapter.RenderOptions{
				Now:              app.now(),
				MaxNotifications: 10,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")

	return cmd
}

type statusDocument struct {
	Authenticated bool                  `json:"authenticated"`
	User          *domain.User          `json:"user,omitempty"`
	Connected     bool                  `json:"connected"`
	Favorites     int                   `json:"favorites"`
	Unread        int                   `json:"unread"`
	Notifications []domain.Notification `json:"notifications"`
}

func writeStatusJSON(cmd *cobra.Command, state statusadapter.State) error {
	unread := 0
	for _, n := range state.Notifications {
		if !n.Read {
			unread++
		}
	}

	doc := statusDocument{
		Authenticated: state.Session.Authenticated(),
		User:          state.Session.User,
		Connected:     state.Connected,
		Favorites:     state.Favorites,
		Unread:        unread,
		Notifications: state.Notifications,
	}
	if doc.Notifications == nil {
		doc.Notifications = []domain.Notification{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
