package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/api/middleware"
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

type stubProvider struct {
	bootErr  error
	signInFn func(email, secret string) (*domain.Principal, error)
	signOuts int
}

func (p *stubProvider) BootstrapSession(ctx context.Context, initialToken string) (domain.SessionHandle, error) {
	if p.bootErr != nil {
		return domain.SessionHandle{}, p.bootErr
	}
	return domain.SessionHandle{ID: uuid.NewString(), Anonymous: true}, nil
}

func (p *stubProvider) SignInWithCredentials(ctx context.Context, email, secret string) (*domain.Principal, error) {
	if p.signInFn != nil {
		return p.signInFn(email, secret)
	}
	return &domain.Principal{ID: "u1", Email: email, DisplayName: "Ana"}, nil
}

func (p *stubProvider) SignOut(ctx context.Context, handle domain.SessionHandle) error {
	p.signOuts++
	return nil
}

type stubDirectory map[string]*domain.TeamMember

func (d stubDirectory) FindByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	if m, ok := d[email]; ok {
		return m, nil
	}
	return nil, domain.ErrTeamMemberNotFound
}

type recordingAudit struct {
	mu     sync.Mutex
	events []ports.AuditEventInput
}

func (a *recordingAudit) Enqueue(event ports.AuditEventInput) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAudit) last(t *testing.T) ports.AuditEventInput {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.events) == 0 {
		t.Fatalf("no audit event recorded")
	}
	return a.events[len(a.events)-1]
}

type stubIssuer struct{}

func (stubIssuer) IssueSessionToken(handle domain.SessionHandle) (string, error) {
	return "tok-" + handle.ID, nil
}

var financeDirectory = stubDirectory{
	"fin@bidflow.com": {
		ID:          "m1",
		Name:        "Fin",
		Email:       "fin@bidflow.com",
		Status:      domain.TeamStatusActive,
		Permissions: domain.TeamPermissions{Finance: true},
	},
	"gone@bidflow.com": {
		ID:     "m2",
		Email:  "gone@bidflow.com",
		Status: domain.TeamStatusInactive,
	},
}

func newRegistry(provider *stubProvider, directory stubDirectory) *service.SessionRegistry {
	f := service.NewSessionFactory(provider, directory, nil, []string{"admin.master"}, zerolog.Nop())
	return service.NewSessionRegistry(f, 16, time.Hour, zerolog.Nop())
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, sess *service.Session) {
	c.Set(middleware.ContextKeySession, sess)
}

func openSession(t *testing.T, reg *service.SessionRegistry) *service.Session {
	t.Helper()
	sess, err := reg.Open(context.Background(), "")
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return sess
}
