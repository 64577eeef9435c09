package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
	"github.com/edu-ti/BidFlow-CRM/internal/infrastructure/config"
	mongostore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/mongo"
	"github.com/edu-ti/BidFlow-CRM/pkg/logger"
)

func newTeamCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage BidFlow team members",
	}
	cmd.AddCommand(newTeamAddCommand())
	cmd.AddCommand(newTeamListCommand())
	cmd.AddCommand(newTeamToggleCommand())
	return cmd
}

func newTeamAddCommand() *cobra.Command {
	var (
		in    ports.TeamMemberInput
		perms domain.TeamPermissions
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pending team member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Permissions = perms
			return withDatabase(cmd.Context(), func(_ *config.OperatorConfig, db *mongo.Database) error {
				member, err := teamService(db).Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printJSON(member)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Login e-mail")
	cmd.Flags().StringVar(&in.Role, "role", "", "Job title")
	cmd.Flags().BoolVar(&perms.Finance, "finance", false, "Grant finance area")
	cmd.Flags().BoolVar(&perms.Support, "support", false, "Grant support area")
	cmd.Flags().BoolVar(&perms.Tech, "tech", false, "Grant tech area")
	cmd.Flags().BoolVar(&perms.Sales, "sales", false, "Grant sales area")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTeamListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List team members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *config.OperatorConfig, db *mongo.Database) error {
				members, err := teamService(db).List(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(members)
			})
		},
	}
}

func newTeamToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Block an active member or reactivate any other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(_ *config.OperatorConfig, db *mongo.Database) error {
				member, err := teamService(db).ToggleStatus(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(member)
			})
		},
	}
}

func teamService(db *mongo.Database) *service.TeamService {
	return service.NewTeamService(mongostore.NewTeamRepository(db), logger.Component("team"))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
