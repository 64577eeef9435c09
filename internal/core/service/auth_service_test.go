package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "u-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

type stubHandleStore struct {
	saved   map[string]time.Duration
	revoked []string
	saveErr error
}

func newStubHandleStore() *stubHandleStore {
	return &stubHandleStore{saved: make(map[string]time.Duration)}
}

func (s *stubHandleStore) Save(_ context.Context, handle domain.SessionHandle, ttl time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[handle.ID] = ttl
	return nil
}

func (s *stubHandleStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.saved[id]
	return ok, nil
}

func (s *stubHandleStore) Revoke(_ context.Context, id string) error {
	delete(s.saved, id)
	s.revoked = append(s.revoked, id)
	return nil
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "pass123", "company_1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.CompanyID != "company_1" {
		t.Fatalf("unexpected company: %s", user.CompanyID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "x", "", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "x", "bob@example.com", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "Bob", "bob@example.com", "pass", "")
	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass2", ""); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)
	if _, err := svc.Register(context.Background(), "", "carol@example.com", "s3cret", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	p, err := svc.SignInWithCredentials(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if p.Role != domain.RoleClient {
		t.Fatalf("expected CLIENT, got %s", p.Role)
	}
	if p.DisplayName != "carol@example.com" {
		t.Fatalf("display name should fall back to email, got %q", p.DisplayName)
	}
}

func TestAuthService_SignIn_Failures(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)
	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass", "")

	cases := map[string][2]string{
		"wrong password": {"dave@example.com", "badpass"},
		"unknown user":   {"ghost@example.com", "pass"},
		"empty secret":   {"dave@example.com", ""},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.SignInWithCredentials(context.Background(), in[0], in[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_BootstrapAnonymous(t *testing.T) {
	handles := newStubHandleStore()
	svc := NewAuthService(newStubUserRepo(), handles, "secret", time.Hour)

	h, err := svc.BootstrapSession(context.Background(), "")
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if h.ID == "" || !h.Anonymous || h.Offline {
		t.Fatalf("unexpected handle: %+v", h)
	}
	if ttl, ok := handles.saved[h.ID]; !ok || ttl != time.Hour {
		t.Fatalf("handle not saved with ttl: %v", handles.saved)
	}
}

func TestAuthService_BootstrapCustomToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)

	tok, err := svc.IssueCustomToken("ana@acme.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	h, err := svc.BootstrapSession(context.Background(), tok)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if h.Anonymous || h.Subject != "ana@acme.com" {
		t.Fatalf("unexpected handle: %+v", h)
	}

	other := NewAuthService(newStubUserRepo(), newStubHandleStore(), "other", time.Hour)
	if _, err := other.BootstrapSession(context.Background(), tok); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for foreign token, got %v", err)
	}

	session, _ := svc.IssueSessionToken(h)
	if _, err := svc.BootstrapSession(context.Background(), session); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("a session token must not bootstrap, got %v", err)
	}
}

func TestAuthService_BootstrapStoreDown(t *testing.T) {
	handles := newStubHandleStore()
	handles.saveErr = errors.New("redis: connection refused")
	svc := NewAuthService(newStubUserRepo(), handles, "secret", time.Hour)

	if _, err := svc.BootstrapSession(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAuthService_IssueSessionToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), newStubHandleStore(), "secret", time.Hour)
	h := domain.SessionHandle{ID: "h-1", IssuedAt: time.Now().UTC()}

	tok, err := svc.IssueSessionToken(h)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sid"] != "h-1" || claims["typ"] != "session" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_SignOutRevokes(t *testing.T) {
	handles := newStubHandleStore()
	svc := NewAuthService(newStubUserRepo(), handles, "secret", time.Hour)

	h, _ := svc.BootstrapSession(context.Background(), "")
	if err := svc.SignOut(context.Background(), h); err != nil {
		t.Fatalf("sign-out: %v", err)
	}
	if ok, _ := handles.Exists(context.Background(), h.ID); ok {
		t.Fatalf("handle should be revoked")
	}
	if err := svc.SignOut(context.Background(), domain.SessionHandle{}); err != nil {
		t.Fatalf("empty handle sign-out should be a no-op, got %v", err)
	}
	if len(handles.revoked) != 1 {
		t.Fatalf("expected one revoke, got %d", len(handles.revoked))
	}
}
