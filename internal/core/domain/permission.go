package domain

import "fmt"

// Capability names one fine-grained grant, or the CapabilityAny sentinel
// that every SUPERADMIN satisfies.
type Capability string

const (
	CapabilityFinance    Capability = "finance"
	CapabilitySupport    Capability = "support"
	CapabilityTech       Capability = "tech"
	CapabilitySales      Capability = "sales"
	CapabilitySuperAdmin Capability = "superadmin"
	CapabilityAny        Capability = "any"
)

// ParseCapability converts a stored or user supplied name into a Capability.
func ParseCapability(s string) (Capability, error) {
	switch c := Capability(s); c {
	case CapabilityFinance, CapabilitySupport, CapabilityTech, CapabilitySales,
		CapabilitySuperAdmin, CapabilityAny:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCapability, s)
}

// PermissionSet holds the capability flags of a SUPERADMIN principal.
// SuperAdmin overrides every other flag.
type PermissionSet struct {
	Finance    bool `json:"finance"`
	Support    bool `json:"support"`
	Tech       bool `json:"tech"`
	Sales      bool `json:"sales"`
	SuperAdmin bool `json:"superadmin"`
}

// FullAccess is the set granted to the reserved super identities.
func FullAccess() PermissionSet {
	return PermissionSet{SuperAdmin: true}
}

// Has reports whether the set satisfies the capability.
func (p PermissionSet) Has(c Capability) bool {
	if p.SuperAdmin {
		return true
	}
	switch c {
	case CapabilityAny:
		return true
	case CapabilityFinance:
		return p.Finance
	case CapabilitySupport:
		return p.Support
	case CapabilityTech:
		return p.Tech
	case CapabilitySales:
		return p.Sales
	default:
		return false
	}
}

// TeamPermissions are the four flags editable on a team record.
type TeamPermissions struct {
	Finance bool `json:"finance" bson:"finance"`
	Support bool `json:"support" bson:"support"`
	Tech    bool `json:"tech"    bson:"tech"`
	Sales   bool `json:"sales"   bson:"sales"`
}

// PermissionSet builds the non-superadmin set carried by a team login.
func (t TeamPermissions) PermissionSet() PermissionSet {
	return PermissionSet{
		Finance: t.Finance,
		Support: t.Support,
		Tech:    t.Tech,
		Sales:   t.Sales,
	}
}
