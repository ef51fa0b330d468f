package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Blog platform client: sessions, posts, and live notifications",
		Long:          "blogctl signs in to the blog platform, keeps your session across runs, manages posts, comments, and favorites, and follows new-activity notifications over the push channel.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newStatusCmd(app),
		newPostsCmd(app),
		newCommentsCmd(app),
		newFavoritesCmd(app),
		newProfileCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
