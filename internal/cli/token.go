package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alligatorO15/finboard/internal/auth"
)

type tokenCmd struct {
	cli     *CLI
	subject string
	ttl     time.Duration
}

func newTokenCmd(c *CLI) *cobra.Command {
	tc := &tokenCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE:  tc.run,
	}
	cmd.Flags().StringVar(&tc.subject, "subject", "finreport", "Token subject")
	cmd.Flags().DurationVar(&tc.ttl, "ttl", c.config.TokenExpiration, "Token lifetime")
	return cmd
}

func (tc *tokenCmd) run(cmd *cobra.Command, _ []string) error {
	if tc.cli.config.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if tc.ttl <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, expiresAt, err := auth.NewTokenService(tc.cli.config.JWTSecret, tc.ttl).Issue(tc.subject)
	if err != nil {
		return err
	}

	return tc.cli.reporter.Token(token, expiresAt)
}
