package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coinly/coinly/internal/chatbot"
	"github.com/coinly/coinly/internal/logger"
)

func newChatCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask the Coinly assistant",
		Long: `Ask the Coinly assistant. Common questions are answered directly; anything
else goes to Gemini when GEMINI_API_KEY is set. Type a number to pick a quick
question, or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.Config

			var gen chatbot.Generator
			if cfg.AIChatEnabled() {
				gemini, err := chatbot.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
				if err != nil {
					logger.Error("Failed to create Gemini client", "error", err)
				} else {
					gen = gemini
				}
			}
			bot := chatbot.New(gen)

			out := cmd.OutOrStdout()
			term := newTerminal(cmd.InOrStdin(), out)
			quick := chatbot.QuickQuestions()

			fmt.Fprintln(out, "Quick questions:")
			for i, q := range quick {
				fmt.Fprintf(out, "  %d. %s\n", i+1, q)
			}

			for {
				line, err := term.ask("You: ")
				if errors.Is(err, errEndOfInput) {
					return nil
				}
				if err != nil {
					return err
				}
				if line == "quit" || line == "exit" {
					return nil
				}
				if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(quick) {
					line = quick[n-1]
					fmt.Fprintf(out, "You: %s\n", line)
				}

				reply, ok := bot.Ask(ctx, line)
				if !ok {
					continue
				}
				fmt.Fprintf(out, "Bot: %s\n", strings.TrimSpace(reply))
			}
		},
	}
}
