package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

// SessionFactory holds the collaborators shared by every session.
type SessionFactory struct {
	provider  ports.AuthProvider
	directory ports.PermissionDirectory
	navigator *Navigator
	sentinels map[string]struct{}
	log       zerolog.Logger
}

// NewSessionFactory builds a factory. superAdminIDs are the reserved
// identifiers granted full access without a directory lookup; blank entries
// are ignored.
func NewSessionFactory(
	provider ports.AuthProvider,
	directory ports.PermissionDirectory,
	navigator *Navigator,
	superAdminIDs []string,
	log zerolog.Logger,
) *SessionFactory {
	sentinels := make(map[string]struct{}, len(superAdminIDs))
	for _, id := range superAdminIDs {
		if id = strings.TrimSpace(id); id != "" {
			sentinels[id] = struct{}{}
		}
	}
	if navigator == nil {
		navigator = NewNavigator()
	}
	return &SessionFactory{
		provider:  provider,
		directory: directory,
		navigator: navigator,
		sentinels: sentinels,
		log:       log,
	}
}

// New returns an UNRESOLVED guest session.
func (f *SessionFactory) New() *Session {
	return &Session{
		factory:   f,
		phase:     domain.PhaseUnresolved,
		principal: domain.Guest(),
	}
}

// Session owns the (role, principal, permissions) triple of one client.
// Only its methods mutate the triple; role changes go through Authenticate*
// and Logout.
type Session struct {
	factory *SessionFactory
	boot    singleflight.Group

	mu          sync.RWMutex
	phase       domain.SessionPhase
	handle      domain.SessionHandle
	principal   domain.Principal
	permissions *domain.PermissionSet
}

// SessionView is a consistent read of a session.
type SessionView struct {
	ID          string                `json:"id"`
	Phase       domain.SessionPhase   `json:"phase"`
	Role        domain.Role           `json:"role"`
	Principal   domain.Principal      `json:"principal"`
	Permissions *domain.PermissionSet `json:"permissions,omitempty"`
}

// Bootstrap asks the auth provider for a handle and leaves UNRESOLVED once
// the call settles. A failed call still resolves the session as a guest
// with a local anonymous handle; the error is returned for reporting.
// Concurrent callers share the in-flight call.
func (s *Session) Bootstrap(ctx context.Context, initialToken string) (domain.SessionHandle, error) {
	s.mu.RLock()
	if s.phase == domain.PhaseResolved {
		h := s.handle
		s.mu.RUnlock()
		return h, nil
	}
	s.mu.RUnlock()

	v, _, _ := s.boot.Do("bootstrap", func() (any, error) {
		s.mu.RLock()
		if s.phase == domain.PhaseResolved {
			h := s.handle
			s.mu.RUnlock()
			return bootResult{handle: h}, nil
		}
		s.mu.RUnlock()

		h, err := s.factory.provider.BootstrapSession(ctx, initialToken)
		if err != nil {
			h = domain.SessionHandle{
				ID:        uuid.NewString(),
				Anonymous: true,
				Offline:   true,
				IssuedAt:  time.Now().UTC(),
			}
			s.factory.log.Warn().Err(err).Str("session_id", h.ID).Msg("session bootstrap failed, continuing as guest")
		}

		s.mu.Lock()
		s.handle = h
		s.phase = domain.PhaseResolved
		s.mu.Unlock()
		return bootResult{handle: h, err: err}, nil
	})

	res := v.(bootResult)
	switch {
	case res.err == nil:
		return res.handle, nil
	case errors.Is(res.err, domain.ErrInvalidCredentials):
		return res.handle, res.err
	}
	return res.handle, fmt.Errorf("bootstrap session: %w: %w", domain.ErrConnection, res.err)
}

type bootResult struct {
	handle domain.SessionHandle
	err    error
}

// AuthenticateClient signs in through the auth provider and becomes CLIENT.
// On failure the session is left unchanged. The role is checked again when
// the result is written, so overlapping logins never move CLIENT to
// SUPERADMIN directly.
func (s *Session) AuthenticateClient(ctx context.Context, email, secret string) (domain.Principal, error) {
	if err := s.requireGuest(); err != nil {
		return domain.Principal{}, err
	}

	p, err := s.factory.provider.SignInWithCredentials(ctx, strings.TrimSpace(email), secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.Principal{}, domain.ErrInvalidCredentials
		}
		s.factory.log.Error().Err(err).Str("session_id", s.ID()).Msg("client sign-in failed")
		return domain.Principal{}, fmt.Errorf("authenticate client: %w: %w", domain.ErrConnection, err)
	}

	principal := *p
	principal.Role = domain.RoleClient

	s.mu.Lock()
	if s.principal.Role.Authenticated() {
		s.mu.Unlock()
		return domain.Principal{}, domain.ErrRoleChangeRequiresLogout
	}
	s.principal = principal
	s.permissions = nil
	s.mu.Unlock()

	s.factory.log.Info().Str("session_id", s.ID()).Str("email", principal.Email).Msg("client authenticated")
	return principal, nil
}

// AuthenticateAdmin resolves the identifier against the reserved super
// identities and then the permission directory, and becomes SUPERADMIN.
// On any failure the session stays GUEST.
func (s *Session) AuthenticateAdmin(ctx context.Context, identifier string) (domain.Principal, domain.PermissionSet, error) {
	if err := s.requireGuest(); err != nil {
		return domain.Principal{}, domain.PermissionSet{}, err
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.Principal{}, domain.PermissionSet{}, domain.ErrTeamMemberNotFound
	}

	if _, ok := s.factory.sentinels[identifier]; ok {
		principal := domain.Principal{
			ID:          identifier,
			DisplayName: domain.AdminDisplayName(identifier),
			Email:       identifier,
			Role:        domain.RoleSuperAdmin,
		}
		perms := domain.FullAccess()
		if err := s.becomeAdmin(principal, perms); err != nil {
			return domain.Principal{}, domain.PermissionSet{}, err
		}
		s.factory.log.Warn().Str("session_id", s.ID()).Str("identifier", identifier).Msg("reserved super identity granted full access")
		return principal, perms, nil
	}

	member, err := s.factory.directory.FindByEmail(ctx, identifier)
	switch {
	case errors.Is(err, domain.ErrTeamMemberNotFound):
		return domain.Principal{}, domain.PermissionSet{}, domain.ErrTeamMemberNotFound
	case err != nil:
		s.factory.log.Error().Err(err).Str("session_id", s.ID()).Msg("permission directory lookup failed")
		return domain.Principal{}, domain.PermissionSet{}, fmt.Errorf("authenticate admin: %w: %w", domain.ErrConnection, err)
	case member.Status == domain.TeamStatusInactive:
		return domain.Principal{}, domain.PermissionSet{}, domain.ErrDeactivated
	}

	name := member.Name
	if name == "" {
		name = domain.AdminDisplayName(identifier)
	}
	principal := domain.Principal{
		ID:          member.ID,
		DisplayName: name,
		Email:       member.Email,
		Role:        domain.RoleSuperAdmin,
	}
	perms := member.Permissions.PermissionSet()
	if err := s.becomeAdmin(principal, perms); err != nil {
		return domain.Principal{}, domain.PermissionSet{}, err
	}

	s.factory.log.Info().Str("session_id", s.ID()).Str("email", member.Email).Msg("admin authenticated")
	return principal, perms, nil
}

// Logout resets the session to guest and asks the provider to revoke the
// handle. Sign-out failures are logged and swallowed. Safe to repeat.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	handle := s.handle
	s.principal = domain.Guest()
	s.permissions = nil
	s.mu.Unlock()

	if err := s.factory.provider.SignOut(ctx, handle); err != nil {
		s.factory.log.Warn().Err(err).Str("session_id", handle.ID).Msg("sign-out failed")
	}
}

// ID is the handle id, empty until bootstrap settles.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle.ID
}

// Handle returns the provider handle.
func (s *Session) Handle() domain.SessionHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

func (s *Session) Phase() domain.SessionPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal.Role
}

func (s *Session) Principal() domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

// Permissions returns a copy of the permission set, nil unless SUPERADMIN.
func (s *Session) Permissions() *domain.PermissionSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPermissions(s.permissions)
}

// Viewer is the navigator's view of the session.
func (s *Session) Viewer() domain.Viewer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Viewer{Role: s.principal.Role, Permissions: copyPermissions(s.permissions)}
}

// View returns a consistent snapshot for transport.
func (s *Session) View() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionView{
		ID:          s.handle.ID,
		Phase:       s.phase,
		Role:        s.principal.Role,
		Principal:   s.principal,
		Permissions: copyPermissions(s.permissions),
	}
}

func (s *Session) CanReach(path string) bool {
	return s.factory.navigator.CanReach(s.Viewer(), path)
}

func (s *Session) ResolveRedirect(path string) string {
	return s.factory.navigator.ResolveRedirect(s.Viewer(), path)
}

func (s *Session) Decide(path string) Decision {
	return s.factory.navigator.Decide(s.Viewer(), path)
}

func (s *Session) Sidebar() []domain.RouteDescriptor {
	return s.factory.navigator.Sidebar(s.Viewer())
}

func (s *Session) requireGuest() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal.Role.Authenticated() {
		return domain.ErrRoleChangeRequiresLogout
	}
	return nil
}

// becomeAdmin re-checks the role under the write lock: a login that
// finished while this one waited on the directory wins.
func (s *Session) becomeAdmin(principal domain.Principal, perms domain.PermissionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal.Role.Authenticated() {
		return domain.ErrRoleChangeRequiresLogout
	}
	s.principal = principal
	s.permissions = &perms
	return nil
}

func copyPermissions(p *domain.PermissionSet) *domain.PermissionSet {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
