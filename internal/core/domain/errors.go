package domain

import "errors"

var (
	// ErrInvalidCredentials is the AuthError of a failed credential check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTeamMemberNotFound means an admin identifier has no team record.
	ErrTeamMemberNotFound = errors.New("team member not found")
	// ErrDeactivated means the team record exists but is inactive.
	ErrDeactivated = errors.New("account deactivated")
	// ErrConnection wraps transport failures of the directory or auth provider.
	ErrConnection = errors.New("connection error")

	ErrRoleChangeRequiresLogout = errors.New("logout required before changing role")
	ErrSessionNotFound          = errors.New("session not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrUserExists               = errors.New("user already exists")
	ErrTeamMemberExists         = errors.New("team member already exists")
	ErrForbidden                = errors.New("access forbidden")
	ErrInvalidCapability        = errors.New("invalid capability")
)
