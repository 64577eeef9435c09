package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

func TestParseViewer(t *testing.T) {
	v, err := parseViewer("superadmin", []string{"finance", "Tech"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, v.Role)
	require.NotNil(t, v.Permissions)
	assert.True(t, v.Permissions.Finance)
	assert.True(t, v.Permissions.Tech)
	assert.False(t, v.Permissions.Sales)

	v, err = parseViewer("client", []string{"finance"})
	require.NoError(t, err)
	assert.Nil(t, v.Permissions)

	_, err = parseViewer("root", nil)
	assert.Error(t, err)

	_, err = parseViewer("SUPERADMIN", []string{"marketing"})
	assert.ErrorIs(t, err, domain.ErrInvalidCapability)
}

func TestRouteCheckCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"route", "check", "--role", "SUPERADMIN", "--cap", "finance", "/admin/finance", "/admin/team"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "allow")
	assert.Contains(t, lines[1], "redirect")
	assert.Contains(t, lines[1], "/admin/dashboard")
}

func TestRouteSidebarCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"route", "sidebar", "--role", "GUEST"})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, strings.TrimSpace(out.String()))
}

func TestRouteListCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"route", "list", "--area", "admin"})

	require.NoError(t, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(domain.AdminRoutes()))
	assert.True(t, strings.HasPrefix(lines[0], "/admin/dashboard"))
	assert.Contains(t, out.String(), "/admin/companies/:id")

	cmd = newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"route", "list", "--area", "billing"})
	assert.Error(t, cmd.Execute())
}
