package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/config"
	mongostore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/mongo"
	"github.com/edu-ti/BidFlow-CRM/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "bidflowctl",
		Short:         "Operator tooling for the BidFlow access gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Init(logger.Options{Level: logLevel, Pretty: true, Service: "bidflowctl"})
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(newTeamCommand())
	cmd.AddCommand(newUserCommand())
	cmd.AddCommand(newRouteCommand())
	cmd.AddCommand(newTokenCommand())
	return cmd
}

// withDatabase loads operator settings, connects to MongoDB and runs fn.
func withDatabase(ctx context.Context, fn func(cfg *config.OperatorConfig, db *mongo.Database) error) error {
	cfg, err := config.LoadOperator(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Attempts: 2})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return fn(cfg, db)
}
