package service

import (
	"path"
	"strings"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

// Decision is the outcome of a navigation check. Redirect equals Path when
// the path may be rendered.
type Decision struct {
	Path     string      `json:"path"`
	Allowed  bool        `json:"allowed"`
	Redirect string      `json:"redirect"`
	Area     domain.Area `json:"area,omitempty"`
}

// Navigator decides which paths a viewer may render and where to send it
// otherwise. It holds no state and never performs the redirect itself.
type Navigator struct{}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// CanReach reports whether the viewer may render path.
func (n *Navigator) CanReach(v domain.Viewer, rawPath string) bool {
	return n.Decide(v, rawPath).Allowed
}

// ResolveRedirect returns the path to land on for rawPath: the normalised
// path itself when reachable, a login or dashboard route otherwise.
func (n *Navigator) ResolveRedirect(v domain.Viewer, rawPath string) string {
	return n.Decide(v, rawPath).Redirect
}

// Decide evaluates a single navigation target.
func (n *Navigator) Decide(v domain.Viewer, rawPath string) Decision {
	p := NormalizePath(rawPath)
	area, known := domain.AreaOf(p)
	if !known {
		return deny(p, "", domain.HomeFor(v.Role))
	}

	switch area {
	case domain.AreaPublic:
		if v.Role.Authenticated() {
			return deny(p, area, domain.HomeFor(v.Role))
		}
		return allow(p, area)

	case domain.AreaClient:
		if v.Role != domain.RoleClient {
			return deny(p, area, domain.PathClientLogin)
		}
		if _, ok := domain.Match(domain.ClientRoutes(), p); !ok {
			return deny(p, area, domain.PathClientHome)
		}
		return allow(p, area)

	case domain.AreaAdmin:
		if v.Role != domain.RoleSuperAdmin {
			return deny(p, area, domain.PathAdminLogin)
		}
		route, ok := domain.Match(domain.AdminRoutes(), p)
		if !ok || !Permits(v.Permissions, route) {
			return deny(p, area, domain.PathAdminHome)
		}
		return allow(p, area)
	}

	return deny(p, area, domain.HomeFor(v.Role))
}

// Sidebar returns the links the viewer sees, in declaration order.
func (n *Navigator) Sidebar(v domain.Viewer) []domain.RouteDescriptor {
	switch v.Role {
	case domain.RoleClient:
		return visible(domain.ClientRoutes())
	case domain.RoleSuperAdmin:
		return FilterRoutes(visible(domain.AdminRoutes()), v.Permissions)
	}
	return []domain.RouteDescriptor{}
}

// FilterRoutes keeps the admin routes the permission set grants, preserving
// input order. A nil set grants nothing.
func FilterRoutes(routes []domain.RouteDescriptor, perms *domain.PermissionSet) []domain.RouteDescriptor {
	out := make([]domain.RouteDescriptor, 0, len(routes))
	for _, r := range routes {
		if Permits(perms, r) {
			out = append(out, r)
		}
	}
	return out
}

// Permits is the admin route predicate: superadmin, the "any" sentinel, or
// the route's own capability flag.
func Permits(perms *domain.PermissionSet, r domain.RouteDescriptor) bool {
	if perms == nil {
		return false
	}
	return perms.Has(r.RequiredCapability)
}

// NormalizePath strips hash-router prefixes, query strings and fragments
// and cleans the remaining path.
func NormalizePath(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.TrimPrefix(p, "#")
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func visible(routes []domain.RouteDescriptor) []domain.RouteDescriptor {
	out := routes[:0]
	for _, r := range routes {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}

func allow(p string, area domain.Area) Decision {
	return Decision{Path: p, Allowed: true, Redirect: p, Area: area}
}

func deny(p string, area domain.Area, to string) Decision {
	return Decision{Path: p, Allowed: false, Redirect: to, Area: area}
}
