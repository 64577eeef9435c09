package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

func newRouteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Inspect navigation rules offline",
	}
	cmd.AddCommand(newRouteCheckCommand())
	cmd.AddCommand(newRouteSidebarCommand())
	cmd.AddCommand(newRouteListCommand())
	return cmd
}

func newRouteListCommand() *cobra.Command {
	var area string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the declared routes of an area with their required capability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			routes := domain.RoutesFor(domain.Area(strings.ToLower(strings.TrimSpace(area))))
			if routes == nil {
				return fmt.Errorf("unknown area %q", area)
			}
			for _, r := range routes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %-10s %s\n", r.Path, r.RequiredCapability, r.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&area, "area", string(domain.AreaAdmin), "public, client or admin")
	return cmd
}

func newRouteCheckCommand() *cobra.Command {
	var role string
	var caps []string
	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Show where a viewer with the given role and capabilities lands",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseViewer(role, caps)
			if err != nil {
				return err
			}
			nav := service.NewNavigator()
			for _, p := range args {
				printDecision(cmd.OutOrStdout(), nav.Decide(v, p))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleGuest), "GUEST, CLIENT or SUPERADMIN")
	cmd.Flags().StringSliceVar(&caps, "cap", nil, "Capabilities for SUPERADMIN: finance, support, tech, sales, superadmin")
	return cmd
}

func newRouteSidebarCommand() *cobra.Command {
	var role string
	var caps []string
	cmd := &cobra.Command{
		Use:   "sidebar",
		Short: "Print the sidebar a viewer would see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := parseViewer(role, caps)
			if err != nil {
				return err
			}
			for _, r := range service.NewNavigator().Sidebar(v) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", r.Path, r.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleGuest), "GUEST, CLIENT or SUPERADMIN")
	cmd.Flags().StringSliceVar(&caps, "cap", nil, "Capabilities for SUPERADMIN")
	return cmd
}

func parseViewer(role string, caps []string) (domain.Viewer, error) {
	r := domain.Role(strings.ToUpper(strings.TrimSpace(role)))
	switch r {
	case domain.RoleGuest, domain.RoleClient:
		return domain.Viewer{Role: r}, nil
	case domain.RoleSuperAdmin:
	default:
		return domain.Viewer{}, fmt.Errorf("unknown role %q", role)
	}

	var perms domain.PermissionSet
	for _, raw := range caps {
		c, err := domain.ParseCapability(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			return domain.Viewer{}, err
		}
		switch c {
		case domain.CapabilityFinance:
			perms.Finance = true
		case domain.CapabilitySupport:
			perms.Support = true
		case domain.CapabilityTech:
			perms.Tech = true
		case domain.CapabilitySales:
			perms.Sales = true
		case domain.CapabilitySuperAdmin:
			perms.SuperAdmin = true
		}
	}
	return domain.Viewer{Role: r, Permissions: &perms}, nil
}

func printDecision(w io.Writer, d service.Decision) {
	verdict := "allow"
	if !d.Allowed {
		verdict = "redirect"
	}
	fmt.Fprintf(w, "%-22s %-8s -> %s\n", d.Path, verdict, d.Redirect)
}
