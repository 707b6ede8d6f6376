// Package cli wires the coinly commands: the terminal dashboard, the chatbot,
// the blog feed and the dev stub server.
package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/coinly/coinly/internal/config"
)

// Version is set at build time with -ldflags "-X github.com/coinly/coinly/internal/cli.Version=...".
var Version = "dev"

// App carries what every command needs.
type App struct {
	Config *config.Config
	// HTTPClient is used for all outgoing API calls. nil means http.DefaultClient.
	HTTPClient *http.Client
}

func (a *App) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

// NewRoot creates and configures the root command
func NewRoot(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "coinly",
		Short:         "Coinly personal finance tracker",
		Long:          `Coinly tracks your balance, transactions and savings goals against the Finance API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newDashboardCommand(app),
		newChatCommand(app),
		newBlogsCommand(app),
		newServeCommand(app),
		newHashPasswordCommand(),
		newVersionCommand(),
	)

	return rootCmd
}
