package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/bookcircle/api"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/config"
	"github.com/AntonStoeckl/bookcircle/circulation/shell/postgresstore"
)

const defaultTokenTTL = 30 * 24 * time.Hour

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			if cfg.Storage != config.StoragePostgres {
				return fmt.Errorf("%w: migrate needs postgres storage", config.ErrInvalidConfig)
			}

			if err = postgresstore.MigrateDSN(cmd.Context(), cfg.PostgresDSN); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")

			return nil
		},
	}
}

// newTokenCommand signs a bearer token for a member, for bridges and operators that act on their behalf.
func newTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <member-id>",
		Short: "Issue a bearer token for a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("member id: %w", err)
			}

			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			auth, err := api.NewAuthenticator(cfg.JWTSecret)
			if err != nil {
				return err
			}

			token, err := auth.IssueToken(memberID, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)

			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "token lifetime")

	return cmd
}
