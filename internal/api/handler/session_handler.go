package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edu-ti/BidFlow-CRM/internal/api/metrics"
	"github.com/edu-ti/BidFlow-CRM/internal/api/middleware"
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// SessionRegistry opens and closes the per-client sessions.
type SessionRegistry interface {
	Open(ctx context.Context, initialToken string) (*service.Session, error)
	Close(ctx context.Context, id string)
}

// TokenIssuer signs the bearer token a client presents on later calls.
type TokenIssuer interface {
	IssueSessionToken(handle domain.SessionHandle) (string, error)
}

// AuditEnqueuer is the interface the handlers use to queue audit entries.
type AuditEnqueuer interface {
	Enqueue(event ports.AuditEventInput)
}

// SessionHandler drives the session resolver over HTTP.
type SessionHandler struct {
	sessions SessionRegistry
	tokens   TokenIssuer
	audit    AuditEnqueuer
	log      zerolog.Logger
}

func NewSessionHandler(sessions SessionRegistry, tokens TokenIssuer, audit AuditEnqueuer, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, audit: audit, log: log}
}

// Bootstrap opens a guest session. A failed provider call still yields a
// usable guest session flagged as degraded.
//
// @Summary      Bootstrap a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        body  body      bootstrapRequest  false  "Optional custom token"
// @Success      201   {object}  bootstrapResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/sessions [post]
func (h *SessionHandler) Bootstrap(c echo.Context) error {
	var req bootstrapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess, openErr := h.sessions.Open(c.Request().Context(), req.InitialToken)
	if openErr != nil {
		h.log.Warn().Err(openErr).Str("session_id", sess.ID()).Msg("session opened in degraded mode")
	}

	token, err := h.tokens.IssueSessionToken(sess.Handle())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, bootstrapResponse{
		Token:    token,
		Session:  sess.View(),
		Degraded: openErr != nil,
	})
}

// Current returns the session bound to the bearer token.
//
// @Summary      Current session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.SessionView
// @Failure      401  {object}  errorResponse
// @Router       /v1/sessions/current [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

// LoginClient authenticates the session as a client account.
//
// @Summary      Client login
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientLoginRequest  true  "Client credentials"
// @Success      200   {object}  service.SessionView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/sessions/current/client [post]
func (h *SessionHandler) LoginClient(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req clientLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, err = sess.AuthenticateClient(c.Request().Context(), req.Email, req.Password)
	h.observeLogin("client", domain.EventClientLogin, sess.ID(), req.Email, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

// LoginAdmin authenticates the session as a BidFlow team member.
//
// @Summary      Admin login
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      adminLoginRequest  true  "Team identifier"
// @Success      200   {object}  service.SessionView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/sessions/current/admin [post]
func (h *SessionHandler) LoginAdmin(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, _, err = sess.AuthenticateAdmin(c.Request().Context(), req.Identifier)
	h.observeLogin("admin", domain.EventAdminLogin, sess.ID(), req.Identifier, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.View())
}

// Logout revokes the session. Repeating it, or calling it with an expired
// token, still answers 204.
//
// @Summary      Logout
// @Tags         sessions
// @Security     BearerAuth
// @Success      204
// @Router       /v1/sessions/current [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}

	actor := sess.Principal().Email
	id := sess.ID()
	h.sessions.Close(c.Request().Context(), id)

	h.audit.Enqueue(ports.AuditEventInput{
		Type:       domain.EventLogout,
		Outcome:    domain.OutcomeSuccess,
		Actor:      actor,
		SessionID:  id,
		OccurredAt: time.Now().UTC(),
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) observeLogin(flow string, event domain.AuthEventType, sessionID, actor string, err error) {
	in := ports.AuditEventInput{
		Type:       event,
		Outcome:    domain.OutcomeSuccess,
		Actor:      actor,
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC(),
	}
	result := domain.OutcomeSuccess
	if err != nil {
		in.Outcome = domain.OutcomeFailure
		in.Reason = failureReason(err)
		result = in.Reason
	}
	metrics.LoginAttemptsTotal.WithLabelValues(flow, result).Inc()
	h.audit.Enqueue(in)
}

// failureReason is the short code stored on failed audit entries.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTeamMemberNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDeactivated):
		return "deactivated"
	case errors.Is(err, domain.ErrRoleChangeRequiresLogout):
		return "role_change"
	case errors.Is(err, domain.ErrConnection):
		return "connection"
	}
	return "error"
}
