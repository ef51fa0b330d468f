package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/domain"
)

func newFavoritesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage your favorited posts",
	}

	cmd.AddCommand(
		newFavoritesListCmd(app),
		newFavoritesAddCmd(app),
		newFavoritesRemoveCmd(app),
		newFavoritesToggleCmd(app),
	)

	return cmd
}

func newFavoritesListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorited post ids",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := app.favorites.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(ids) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No favorites.")
				return err
			}

			for _, id := range ids {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newFavoritesAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <post-id>",
		Short: "Favorite a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := app.favorites.Add(cmd.Context(), domain.PostID(args[0]))
			if err != nil {
				return err
			}

			if !changed {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Already a favorite")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Favorited %s\n", args[0])
			return err
		},
	}
}

func newFavoritesRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <post-id>",
		Short: "Unfavorite a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := app.favorites.Remove(cmd.Context(), domain.PostID(args[0]))
			if err != nil {
				return err
			}

			if !changed {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not a favorite")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return err
		},
	}
}

func newFavoritesToggleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <post-id>",
		Short: "Flip a post's favorite state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			favorite, err := app.favorites.Toggle(cmd.Context(), domain.PostID(args[0]))
			if err != nil {
				return err
			}

			if favorite {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Favorited %s\n", args[0])
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return err
		},
	}
}
