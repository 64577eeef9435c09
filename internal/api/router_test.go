package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
	redisstore "github.com/edu-ti/BidFlow-CRM/internal/infrastructure/db/redis"
)

const testSecret = "router-test-secret"

type memoryUsers struct {
	byEmail map[string]*domain.User
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUsers) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	user.ID = "u-" + user.Email
	m.byEmail[user.Email] = user
	return user, nil
}

type memoryDirectory struct {
	members map[string]*domain.TeamMember
	err     error
}

func (d *memoryDirectory) FindByEmail(ctx context.Context, email string) (*domain.TeamMember, error) {
	if d.err != nil {
		return nil, d.err
	}
	if m, ok := d.members[email]; ok {
		return m, nil
	}
	return nil, domain.ErrTeamMemberNotFound
}

type listOnlyTeam struct {
	ports.TeamService
	members []domain.TeamMember
}

func (t *listOnlyTeam) List(ctx context.Context) ([]domain.TeamMember, error) {
	return t.members, nil
}

type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, in ports.AuditEventInput) error { return nil }
func (nopAudit) List(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	return []domain.AuthEvent{}, nil
}

type collectingQueue struct {
	mu     sync.Mutex
	events []ports.AuditEventInput
}

func (q *collectingQueue) Enqueue(event ports.AuditEventInput) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
}

type testServer struct {
	e         *echo.Echo
	redis     *miniredis.Miniredis
	directory *memoryDirectory
	queue     *collectingQueue
}

func newTestServer(t *testing.T, loginLimit int) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &memoryUsers{byEmail: map[string]*domain.User{
		"ana@acme.com": {ID: "u1", Name: "Ana", Email: "ana@acme.com", PasswordHash: string(hash)},
	}}
	directory := &memoryDirectory{members: map[string]*domain.TeamMember{
		"fin@bidflow.com": {
			ID:          "m1",
			Name:        "Fin",
			Email:       "fin@bidflow.com",
			Status:      domain.TeamStatusActive,
			Permissions: domain.TeamPermissions{Finance: true},
		},
	}}

	handles := redisstore.NewHandleStore(rdb)
	auth := service.NewAuthService(users, handles, testSecret, time.Hour)
	factory := service.NewSessionFactory(auth, directory, nil, []string{"admin.master"}, zerolog.Nop())
	queue := &collectingQueue{}

	e := NewRouter(Dependencies{
		JWTSecret:      testSecret,
		Development:    true,
		LoginRateLimit: loginLimit,
		Auth:           auth,
		Sessions:       service.NewSessionRegistry(factory, 100, time.Hour, zerolog.Nop()),
		Handles:        handles,
		Team:           &listOnlyTeam{members: []domain.TeamMember{{ID: "m1", Email: "fin@bidflow.com"}}},
		Theme:          service.NewThemeService(redisstore.NewPreferenceStore(rdb)),
		Audit:          nopAudit{},
		Dispatcher:     queue,
		Registerer:     prometheus.NewRegistry(),
		Log:            zerolog.Nop(),
	})

	return &testServer{e: e, redis: mr, directory: directory, queue: queue}
}

func (s *testServer) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeader(t, method, target, token, body, nil)
}

func (s *testServer) doWithHeader(t *testing.T, method, target, token, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) bootstrap(t *testing.T) (string, service.SessionView) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token    string              `json:"token"`
		Session  service.SessionView `json:"session"`
		Degraded bool                `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.False(t, resp.Degraded)
	return resp.Token, resp.Session
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_AdminSessionLifecycle(t *testing.T) {
	s := newTestServer(t, 100)
	token, view := s.bootstrap(t)
	assert.Equal(t, domain.RoleGuest, view.Role)
	assert.Equal(t, domain.PhaseResolved, view.Phase)

	rec := s.do(t, http.MethodGet, "/v1/admin/team", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sessions/current/admin", token, `{"identifier":"admin.master"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view = decode[service.SessionView](t, rec)
	assert.Equal(t, domain.RoleSuperAdmin, view.Role)
	require.NotNil(t, view.Permissions)
	assert.True(t, view.Permissions.SuperAdmin)
	assert.Equal(t, "admin.master", view.Principal.DisplayName)

	rec = s.do(t, http.MethodGet, "/v1/admin/team", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/navigation/resolve?path=/admin/team", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[service.Decision](t, rec)
	assert.True(t, d.Allowed)

	rec = s.do(t, http.MethodDelete, "/v1/sessions/current", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/sessions/current", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/sessions/current", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_ClientLogin(t *testing.T) {
	s := newTestServer(t, 100)
	token, _ := s.bootstrap(t)

	rec := s.do(t, http.MethodPost, "/v1/sessions/current/client", token, `{"email":"ana@acme.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decode[map[string]string](t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/v1/sessions/current/client", token, `{"email":"ana@acme.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[service.SessionView](t, rec)
	assert.Equal(t, domain.RoleClient, view.Role)
	assert.Nil(t, view.Permissions)

	rec = s.do(t, http.MethodPost, "/v1/sessions/current/admin", token, `{"identifier":"admin.master"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/navigation/resolve?path=/admin/dashboard", token, "")
	d := decode[service.Decision](t, rec)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.PathAdminLogin, d.Redirect)

	rec = s.do(t, http.MethodGet, "/v1/navigation/sidebar", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	sidebar := decode[struct {
		Routes []domain.RouteDescriptor `json:"routes"`
	}](t, rec)
	require.Len(t, sidebar.Routes, 10)
	assert.Equal(t, "/app/dashboard", sidebar.Routes[0].Path)
}

func TestRouter_FinanceMemberBlockedFromLogs(t *testing.T) {
	s := newTestServer(t, 100)
	token, _ := s.bootstrap(t)

	rec := s.do(t, http.MethodPost, "/v1/sessions/current/admin", token, `{"identifier":"fin@bidflow.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/admin/logs", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/admin/team", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminLoginErrors(t *testing.T) {
	s := newTestServer(t, 100)
	token, _ := s.bootstrap(t)

	rec := s.do(t, http.MethodPost, "/v1/sessions/current/admin", token, `{"identifier":"ghost@bidflow.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.directory.err = errors.New("server selection timeout")
	rec = s.do(t, http.MethodPost, "/v1/sessions/current/admin", token, `{"identifier":"fin@bidflow.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/sessions/current", token, "")
	assert.Equal(t, domain.RoleGuest, decode[service.SessionView](t, rec).Role)
}

func TestRouter_RevokedHandleRejected(t *testing.T) {
	s := newTestServer(t, 100)
	token, view := s.bootstrap(t)

	s.redis.Del("session:handle:" + view.ID)

	rec := s.do(t, http.MethodGet, "/v1/sessions/current", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ThemeToggle(t *testing.T) {
	s := newTestServer(t, 100)
	token, _ := s.bootstrap(t)

	rec := s.do(t, http.MethodPost, "/v1/preferences/theme/toggle", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]bool](t, rec)["dark"])

	rec = s.do(t, http.MethodPost, "/v1/preferences/theme/toggle", token, "")
	assert.Equal(t, false, decode[map[string]bool](t, rec)["dark"])
}

func TestRouter_ThemeSurvivesNewSession(t *testing.T) {
	s := newTestServer(t, 100)
	browser := http.Header{"X-Browser-Id": []string{"tab-7f3a"}}
	token, _ := s.bootstrap(t)

	rec := s.doWithHeader(t, http.MethodPut, "/v1/preferences/theme", token, `{"dark":true}`, browser)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doWithHeader(t, http.MethodDelete, "/v1/sessions/current", token, "", browser)
	require.Equal(t, http.StatusNoContent, rec.Code)

	next, _ := s.bootstrap(t)
	rec = s.doWithHeader(t, http.MethodGet, "/v1/preferences/theme", next, "", browser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]bool](t, rec)["dark"])

	other := http.Header{"X-Browser-Id": []string{"tab-other"}}
	rec = s.doWithHeader(t, http.MethodGet, "/v1/preferences/theme", next, "", other)
	assert.Equal(t, false, decode[map[string]bool](t, rec)["dark"])
}

func TestRouter_LoginRateLimited(t *testing.T) {
	s := newTestServer(t, 2)
	token, _ := s.bootstrap(t)

	body := `{"email":"ana@acme.com","password":"wrong"}`
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/v1/sessions/current/client", token, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/v1/sessions/current/client", token, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_SecurityHeadersAndHealth(t *testing.T) {
	s := newTestServer(t, 100)

	rec := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
