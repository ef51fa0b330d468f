package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blogware/blogctl/internal/adapters/api"
	"github.com/blogware/blogctl/internal/domain"
)

func newPostsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and manage posts",
	}

	cmd.AddCommand(
		newPostsListCmd(app),
		newPostsShowCmd(app),
		newPostsCreateCmd(app),
		newPostsUpdateCmd(app),
		newPostsDeleteCmd(app),
		newPostsLikeCmd(app),
	)

	return cmd
}

func newPostsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			posts, err := app.api.ListPosts(cmd.Context())
			if err != nil {
				return err
			}

			favoriteIDs, err := app.favorites.List(cmd.Context())
			if err != nil {
				return err
			}
			favorites := make(map[domain.PostID]bool, len(favoriteIDs))
			for _, id := range favoriteIDs {
				favorites[id] = true
			}

			if len(posts) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No posts.")
				return err
			}

			for _, post := range posts {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), postLine(post, favorites[post.ID]))
			}
			return nil
		},
	}
}

func newPostsShowCmd(app *app) *cobra.Command {
	var withComments bool

	cmd := &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			id := domain.PostID(args[0])
			post, err := app.api.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s\n", post.Title)
			if post.Author != nil {
				_, _ = fmt.Fprintf(out, "by %s\n", post.Author.Name)
			}
			if len(post.Categories) > 0 {
				_, _ = fmt.Fprintf(out, "categories: %s\n", strings.Join(post.Categories, ", "))
			}
			_, _ = fmt.Fprintf(out, "likes: %d  comments: %d\n\n", post.Likes, post.CommentCount)
			_, _ = fmt.Fprintln(out, post.Content)

			if !withComments {
				return nil
			}

			comments, err := app.api.ListComments(cmd.Context(), id)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "\ncomments (%d):\n", len(comments))
			for _, comment := range comments {
				_, _ = fmt.Fprintf(out, "  #%d %s: %s\n", comment.ID, comment.User.Name, comment.Content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withComments, "comments", false, "Include the post's comments")

	return cmd
}

func newPostsCreateCmd(app *app) *cobra.Command {
	var input api.PostInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := app.requireAuth(); err != nil {
				return err
			}

			id, err := app.api.CreatePost(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created post %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Post title")
	cmd.Flags().StringVar(&input.Content, "content", "", "Post body")
	cmd.Flags().StringVar(&input.Date, "date", "", "Publication date (defaults to now, server side)")
	cmd.Flags().StringSliceVar(&input.Categories, "category", nil, "Category (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newPostsUpdateCmd(app *app) *cobra.Command {
	var input api.PostInput

	cmd := &cobra.Command{
		Use:   "update <post-id>",
		Short: "Update a post",
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

			post, err := app.api.UpdatePost(cmd.Context(), domain.PostID(args[0]), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated post %s\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Post title")
	cmd.Flags().StringVar(&input.Content, "content", "", "Post body")
	cmd.Flags().StringVar(&input.Date, "date", "", "Publication date")
	cmd.Flags().StringSliceVar(&input.Categories, "category", nil, "Category (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newPostsDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a post",
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

			id := domain.PostID(args[0])
			if err := app.api.DeletePost(cmd.Context(), id); err != nil {
				return err
			}

			// the post may linger in the favorites file otherwise
			if _, err := app.favorites.Remove(cmd.Context(), id); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted post %s\n", id)
			return nil
		},
	}
}

func newPostsLikeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle your like on a post",
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

			result, err := app.api.ToggleLike(cmd.Context(), domain.PostID(args[0]))
			if err != nil {
				return err
			}

			verb := "Unliked"
			if result.Liked {
				verb = "Liked"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s post (%d likes)\n", verb, result.Likes)
			return nil
		},
	}
}

func postLine(post domain.Post, favorite bool) string {
	marker := " "
	if favorite {
		marker = "*"
	}

	author := ""
	if post.Author != nil {
		author = " by " + post.Author.Name
	}

	return fmt.Sprintf("%s %s  %s%s (%d likes, %d comments)", marker, post.ID, post.Title, author, post.Likes, post.CommentCount)
}
