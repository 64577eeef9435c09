package domain

import "strings"

const (
	PathLanding     = "/"
	PathClientLogin = "/login"
	PathAdminLogin  = "/master"
	PathClientHome  = "/app/dashboard"
	PathAdminHome   = "/admin/dashboard"

	clientPrefix = "/app"
	adminPrefix  = "/admin"
)

// RouteDescriptor declares a navigable path, the area rendering it and the
// capability an admin needs to reach it. Client and public routes carry
// CapabilityAny.
type RouteDescriptor struct {
	Path               string     `json:"path"`
	Label              string     `json:"label"`
	Area               Area       `json:"area"`
	RequiredCapability Capability `json:"required_capability"`
	Hidden             bool       `json:"-"`
}

var publicRoutes = []RouteDescriptor{
	{Path: PathLanding, Label: "Landing", Area: AreaPublic, RequiredCapability: CapabilityAny},
	{Path: PathClientLogin, Label: "Client login", Area: AreaPublic, RequiredCapability: CapabilityAny},
	{Path: PathAdminLogin, Label: "Master login", Area: AreaPublic, RequiredCapability: CapabilityAny},
}

var clientRoutes = []RouteDescriptor{
	{Path: "/app/dashboard", Label: "Dashboard", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/conversations", Label: "Conversas", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/contacts", Label: "Contatos", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/funnel", Label: "Funil de Vendas", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/chatbot", Label: "Chatbot", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/campaigns", Label: "Campanhas", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/tasks", Label: "Tarefas", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/calendar", Label: "Agenda", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/reports", Label: "Relatórios", Area: AreaClient, RequiredCapability: CapabilityAny},
	{Path: "/app/settings", Label: "Configurações", Area: AreaClient, RequiredCapability: CapabilityAny},
}

var adminRoutes = []RouteDescriptor{
	{Path: "/admin/dashboard", Label: "Dashboard Master", Area: AreaAdmin, RequiredCapability: CapabilityAny},
	{Path: "/admin/companies", Label: "Clientes (Empresas)", Area: AreaAdmin, RequiredCapability: CapabilitySales},
	{Path: "/admin/companies/:id", Label: "Empresa", Area: AreaAdmin, RequiredCapability: CapabilitySales, Hidden: true},
	{Path: "/admin/plans", Label: "Planos e Assinaturas", Area: AreaAdmin, RequiredCapability: CapabilityFinance},
	{Path: "/admin/finance", Label: "Financeiro", Area: AreaAdmin, RequiredCapability: CapabilityFinance},
	{Path: "/admin/instances", Label: "Instâncias WhatsApp", Area: AreaAdmin, RequiredCapability: CapabilityTech},
	{Path: "/admin/integrations", Label: "Integrações", Area: AreaAdmin, RequiredCapability: CapabilityTech},
	{Path: "/admin/modules", Label: "Módulos", Area: AreaAdmin, RequiredCapability: CapabilitySales},
	{Path: "/admin/templates", Label: "Templates Globais", Area: AreaAdmin, RequiredCapability: CapabilitySupport},
	{Path: "/admin/team", Label: "Equipe BidFlow", Area: AreaAdmin, RequiredCapability: CapabilitySuperAdmin},
	{Path: "/admin/support", Label: "Suporte (Tickets)", Area: AreaAdmin, RequiredCapability: CapabilitySupport},
	{Path: "/admin/logs", Label: "Logs & Auditoria", Area: AreaAdmin, RequiredCapability: CapabilityTech},
	{Path: "/admin/settings", Label: "Configurações Sistema", Area: AreaAdmin, RequiredCapability: CapabilityTech},
}

// PublicRoutes returns the routes reachable without login.
func PublicRoutes() []RouteDescriptor { return clone(publicRoutes) }

// ClientRoutes returns the client workspace routes in sidebar order.
func ClientRoutes() []RouteDescriptor { return clone(clientRoutes) }

// AdminRoutes returns the master console routes in sidebar order, including
// hidden detail routes.
func AdminRoutes() []RouteDescriptor { return clone(adminRoutes) }

// RoutesFor returns the declared routes of an area.
func RoutesFor(area Area) []RouteDescriptor {
	switch area {
	case AreaPublic:
		return PublicRoutes()
	case AreaClient:
		return ClientRoutes()
	case AreaAdmin:
		return AdminRoutes()
	}
	return nil
}

func clone(in []RouteDescriptor) []RouteDescriptor {
	out := make([]RouteDescriptor, len(in))
	copy(out, in)
	return out
}

// AreaOf classifies a normalised path. The second result is false for paths
// that belong to no area.
func AreaOf(path string) (Area, bool) {
	switch {
	case underPrefix(path, clientPrefix):
		return AreaClient, true
	case underPrefix(path, adminPrefix):
		return AreaAdmin, true
	}
	for _, r := range publicRoutes {
		if r.Path == path {
			return AreaPublic, true
		}
	}
	return "", false
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Match finds the route whose pattern matches path. Patterns use ":name"
// for a single dynamic segment.
func Match(routes []RouteDescriptor, path string) (RouteDescriptor, bool) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, r := range routes {
		if matchSegments(strings.Split(strings.Trim(r.Path, "/"), "/"), segs) {
			return r, true
		}
	}
	return RouteDescriptor{}, false
}

func matchSegments(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}

// HomeFor is the landing route of a role's area.
func HomeFor(role Role) string {
	switch role {
	case RoleClient:
		return PathClientHome
	case RoleSuperAdmin:
		return PathAdminHome
	}
	return PathLanding
}
