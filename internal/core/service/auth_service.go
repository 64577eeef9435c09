package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

const (
	tokenTypeSession = "session"
	tokenTypeCustom  = "custom"
)

// AuthService is the credential based auth provider: client accounts live
// in the user repository, session handles in the handle store.
type AuthService struct {
	users     ports.UserRepository
	handles   ports.HandleStore
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, handles ports.HandleStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		handles:   handles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a client account with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, name, email, password, companyID string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CompanyID:    companyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// BootstrapSession opens a handle. An empty initialToken yields an anonymous
// handle; otherwise the token must be a custom token signed with the
// service secret.
func (s *AuthService) BootstrapSession(ctx context.Context, initialToken string) (domain.SessionHandle, error) {
	handle := domain.SessionHandle{
		ID:        uuid.NewString(),
		Anonymous: true,
		IssuedAt:  s.now(),
	}

	if initialToken != "" {
		subject, err := s.parseCustomToken(initialToken)
		if err != nil {
			return domain.SessionHandle{}, err
		}
		handle.Subject = subject
		handle.Anonymous = false
	}

	if err := s.handles.Save(ctx, handle, s.tokenTTL); err != nil {
		return domain.SessionHandle{}, fmt.Errorf("save handle: %w", err)
	}
	return handle, nil
}

// SignInWithCredentials verifies an email/password pair. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) SignInWithCredentials(ctx context.Context, email, secret string) (*domain.Principal, error) {
	if email == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}
	return &domain.Principal{
		ID:          user.ID,
		DisplayName: name,
		Email:       user.Email,
		Role:        domain.RoleClient,
	}, nil
}

// SignOut revokes the handle so its bearer token stops working.
func (s *AuthService) SignOut(ctx context.Context, handle domain.SessionHandle) error {
	if handle.ID == "" {
		return nil
	}
	return s.handles.Revoke(ctx, handle.ID)
}

// IssueSessionToken signs the bearer token a client presents for handle.
func (s *AuthService) IssueSessionToken(handle domain.SessionHandle) (string, error) {
	claims := jwt.MapClaims{
		"sid": handle.ID,
		"typ": tokenTypeSession,
		"iat": handle.IssuedAt.Unix(),
		"exp": handle.IssuedAt.Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// IssueCustomToken mints a bootstrap token for subject, used by operators
// and integration tests to resume a known identity.
func (s *AuthService) IssueCustomToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"typ": tokenTypeCustom,
		"exp": s.now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseCustomToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidCredentials
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeCustom {
		return "", domain.ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidCredentials
	}
	return sub, nil
}
