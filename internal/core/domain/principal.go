package domain

import (
	"strings"
	"time"
)

// Principal is the authenticated actor driving a session.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// Guest returns the principal every session starts and ends with.
func Guest() Principal {
	return Principal{Role: RoleGuest}
}

// AdminDisplayName derives the console name from an email or master id.
func AdminDisplayName(identifier string) string {
	local, _, _ := strings.Cut(identifier, "@")
	if local == "" {
		return "Admin"
	}
	return local
}

// SessionHandle identifies one bootstrapped client with the auth provider.
// Offline handles were minted locally because the provider issued none.
type SessionHandle struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject,omitempty"`
	Anonymous bool      `json:"anonymous"`
	Offline   bool      `json:"offline,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Viewer is the read-only projection the navigator decides on.
type Viewer struct {
	Role        Role
	Permissions *PermissionSet
}

// GuestViewer is the viewer of a session with no login.
func GuestViewer() Viewer {
	return Viewer{Role: RoleGuest}
}
