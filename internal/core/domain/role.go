package domain

// Role is the coarse access tier of a principal.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleClient     Role = "CLIENT"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// Authenticated reports whether the role came from a successful login.
func (r Role) Authenticated() bool {
	return r == RoleClient || r == RoleSuperAdmin
}

// Area groups routes by the front-end that renders them.
type Area string

const (
	AreaPublic Area = "public"
	AreaClient Area = "client"
	AreaAdmin  Area = "admin"
)

// SessionPhase tracks whether the bootstrap call has settled.
type SessionPhase string

const (
	PhaseUnresolved SessionPhase = "UNRESOLVED"
	PhaseResolved   SessionPhase = "RESOLVED"
)
