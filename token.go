package main

import (
	"fmt"
	"time"

	"clementus360/focusflow/config"
	"clementus360/focusflow/supabase"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed development JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not set")
			}
			token, err := supabase.GenerateTestJWT(user, cfg.Auth.JWTSecret, ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("token for "+user+", expires in "+ttl.String()))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "demo", "user id for the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
