package main

import (
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/config"
	mongostore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/mongo"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage client accounts",
	}
	cmd.AddCommand(newUserRegisterCommand())
	return cmd
}

func newUserRegisterCommand() *cobra.Command {
	var name, email, password, companyID string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a client account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.OperatorConfig, db *mongo.Database) error {
				// Registration never touches session handles.
				accounts := service.NewAuthService(mongostore.NewUserRepository(db), nil, cfg.JWTSecret, cfg.TokenTTL)
				user, err := accounts.Register(cmd.Context(), name, email, password, companyID)
				if err != nil {
					return err
				}
				return printJSON(user)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
