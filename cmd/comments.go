package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/domain"
)

func newCommentsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Manage comments on posts",
	}

	cmd.AddCommand(
		newCommentsListCmd(app),
		newCommentsAddCmd(app),
		newCommentsEditCmd(app),
		newCommentsDeleteCmd(app),
	)

	return cmd
}

func newCommentsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <post-id>",
		Short: "List a post's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			comments, err := app.api.ListComments(cmd.Context(), domain.PostID(args[0]))
			if err != nil {
				return err
			}

			if len(comments) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No comments.")
				return err
			}

			for _, comment := range comments {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: %s\n", comment.ID, comment.User.Name, comment.Content)
			}
			return nil
		},
	}
}

func newCommentsAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <post-id> <content>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			comment, err := app.api.AddComment(cmd.Context(), domain.PostID(args[0]), args[1])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added comment #%d\n", comment.ID)
			return nil
		},
	}
}

func newCommentsEditCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <comment-id> <content>",
		Short: "Edit one of your comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			commentID, err := parseCommentID(args[0])
			if err != nil {
				return err
			}

			comment, err := app.api.EditComment(cmd.Context(), commentID, args[1])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated comment #%d\n", comment.ID)
			return nil
		},
	}
}

func newCommentsDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			commentID, err := parseCommentID(args[0])
			if err != nil {
				return err
			}

			if err := app.api.DeleteComment(cmd.Context(), commentID); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment #%d\n", commentID)
			return nil
		},
	}
}

func parseCommentID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid comment id %q", raw)
	}
	return id, nil
}
