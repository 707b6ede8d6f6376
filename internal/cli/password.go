package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinly/coinly/internal/identity"
)

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for the users file",
		Long: `Print a bcrypt hash suitable for the passwordHash field of the users file.
Without an argument the password is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				password, err = newTerminal(cmd.InOrStdin(), cmd.ErrOrStderr()).askSecret("Password: ")
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := identity.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
