package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justestif/go-listenfy/internal/auth"
	"github.com/justestif/go-listenfy/internal/config"
	"github.com/justestif/go-listenfy/internal/logger"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached Spotify login used by analyze --live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.Development)
			if err != nil {
				return err
			}

			authenticator, err := auth.New(cfg, log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			removed, err := authenticator.Logout()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out of Spotify.")
			return nil
		},
	}
}
