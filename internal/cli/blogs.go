package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coinly/coinly/internal/apiclient"
	"github.com/coinly/coinly/internal/blog"
)

const excerptLength = 80

func newBlogsCommand(app *App) *cobra.Command {
	var post bool
	var email, password, title, content string

	cmd := &cobra.Command{
		Use:   "blogs",
		Short: "Read or publish community blog posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.Config
			out := cmd.OutOrStdout()

			provider, err := newProvider(app)
			if err != nil {
				return err
			}
			feed := blog.NewFeed(apiclient.NewBlogClient(cfg.BlogAPIURL, app.httpClient(), provider), provider)

			if post {
				term := newTerminal(cmd.InOrStdin(), out)
				if err := signIn(provider, term, email, password); err != nil {
					return err
				}
				if err := feed.Post(ctx, title, content); err != nil {
					return err
				}
				fmt.Fprintln(out, "Post published.")
			} else if err := feed.Load(ctx); err != nil {
				return err
			}

			posts := feed.Posts()
			if len(posts) == 0 {
				fmt.Fprintln(out, "No posts yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Date\tAuthor\tTitle\tExcerpt")
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.CreatedAt.ToDate().Display(), p.Author, p.Title, blog.Excerpt(p.Content, excerptLength))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "publish a new post")
	cmd.Flags().StringVar(&title, "title", "", "title of the new post")
	cmd.Flags().StringVar(&content, "content", "", "content of the new post")
	cmd.Flags().StringVar(&email, "email", "", "email to sign in with when posting")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")

	return cmd
}
