package domain

import "testing"

func TestAreaOf(t *testing.T) {
	cases := []struct {
		path  string
		area  Area
		known bool
	}{
		{path: "/", area: AreaPublic, known: true},
		{path: "/login", area: AreaPublic, known: true},
		{path: "/master", area: AreaPublic, known: true},
		{path: "/app", area: AreaClient, known: true},
		{path: "/app/contacts", area: AreaClient, known: true},
		{path: "/admin/finance", area: AreaAdmin, known: true},
		{path: "/application", known: false},
		{path: "/administrator", known: false},
		{path: "/pricing", known: false},
	}
	for _, tc := range cases {
		area, known := AreaOf(tc.path)
		if area != tc.area || known != tc.known {
			t.Fatalf("AreaOf(%s) = %q, %v; want %q, %v", tc.path, area, known, tc.area, tc.known)
		}
	}
}

func TestMatch(t *testing.T) {
	admin := AdminRoutes()

	r, ok := Match(admin, "/admin/companies/acme")
	if !ok || r.Path != "/admin/companies/:id" || r.RequiredCapability != CapabilitySales {
		t.Fatalf("expected company detail route, got %+v (%v)", r, ok)
	}

	r, ok = Match(admin, "/admin/companies")
	if !ok || r.Path != "/admin/companies" {
		t.Fatalf("expected companies list route, got %+v (%v)", r, ok)
	}

	for _, p := range []string{"/admin/companies/acme/users", "/admin", "/admin/unknown"} {
		if _, ok := Match(admin, p); ok {
			t.Fatalf("%s should not match", p)
		}
	}
}

func TestHomeFor(t *testing.T) {
	if HomeFor(RoleClient) != PathClientHome || HomeFor(RoleSuperAdmin) != PathAdminHome || HomeFor(RoleGuest) != PathLanding {
		t.Fatalf("unexpected role homes")
	}
}

func TestRoutesAreCopies(t *testing.T) {
	routes := AdminRoutes()
	routes[0].Path = "/tampered"

	if AdminRoutes()[0].Path != "/admin/dashboard" {
		t.Fatalf("route table mutated through returned slice")
	}
	if RoutesFor(AreaClient)[0].Path != "/app/dashboard" {
		t.Fatalf("unexpected first client route")
	}
	if RoutesFor(Area("other")) != nil {
		t.Fatalf("unknown area should have no routes")
	}
}

func TestRouteTables(t *testing.T) {
	for _, r := range ClientRoutes() {
		if r.Area != AreaClient || r.RequiredCapability != CapabilityAny {
			t.Fatalf("client route %s misdeclared", r.Path)
		}
	}
	for _, r := range AdminRoutes() {
		if r.Area != AreaAdmin {
			t.Fatalf("admin route %s misdeclared", r.Path)
		}
		if _, err := ParseCapability(string(r.RequiredCapability)); err != nil {
			t.Fatalf("admin route %s has invalid capability", r.Path)
		}
	}
}
