package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/llamarelay/internal/auth"
)

var hashCmd = &cobra.Command{
	Use:   "hash <access-code>",
	Short: "Hash an access code for the access_codes list in config.toml",
	Long: `Hash an access code with argon2id.

Clients present the code as "Authorization: Bearer nk-<access-code>".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashSecret(args[0], auth.DefaultArgon2Params())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var tokenFlags struct {
	secret  string
	subject string
	ttl     time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a gateway started with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenFlags.secret == "" {
			return fmt.Errorf("--secret is required")
		}
		token, err := auth.NewTokenAuthorizer(tokenFlags.secret).Issue(tokenFlags.subject, tokenFlags.ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenFlags.secret, "secret", envOr("JWT_SECRET", ""), "HS256 signing secret")
	tokenCmd.Flags().StringVar(&tokenFlags.subject, "subject", "llamarelay", "token subject")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "token lifetime")
}
