package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/config"
)

var errMissingSecret = errors.New("JWT_SECRET is required for this command")

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a custom bootstrap token for POST /v1/sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOperator(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errMissingSecret
			}
			tok, err := service.NewAuthService(nil, nil, cfg.JWTSecret, cfg.TokenTTL).IssueCustomToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}
