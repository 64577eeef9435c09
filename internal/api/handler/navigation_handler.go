package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edu-ti/BidFlow-CRM/internal/api/metrics"
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

// NavigationHandler answers reachability and sidebar questions for the
// session's current role.
type NavigationHandler struct {
	audit AuditEnqueuer
}

func NewNavigationHandler(audit AuditEnqueuer) *NavigationHandler {
	return &NavigationHandler{audit: audit}
}

// Resolve decides whether the session may render path and where to land
// otherwise. A denial is not an error: it answers 200 with allowed=false.
//
// @Summary      Resolve a navigation target
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Param        path  query     string  true  "Target path, e.g. /admin/finance"
// @Success      200   {object}  service.Decision
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/navigation/resolve [get]
func (h *NavigationHandler) Resolve(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	target := c.QueryParam("path")
	if strings.TrimSpace(target) == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "path is required")
	}

	d := sess.Decide(target)

	area := string(d.Area)
	if area == "" {
		area = "unknown"
	}
	result := "allowed"
	if !d.Allowed {
		result = "redirected"
	}
	metrics.NavigationDecisionsTotal.WithLabelValues(area, result).Inc()

	// Only admin denials are audited; guests bouncing to a login page are
	// routine.
	if !d.Allowed && d.Area == domain.AreaAdmin && sess.Role() == domain.RoleSuperAdmin {
		h.audit.Enqueue(ports.AuditEventInput{
			Type:       domain.EventNavigationDenied,
			Outcome:    domain.OutcomeFailure,
			Actor:      sess.Principal().Email,
			SessionID:  sess.ID(),
			Reason:     adminDenialReason(d.Path),
			Path:       d.Path,
			OccurredAt: time.Now().UTC(),
		})
	}

	return c.JSON(http.StatusOK, d)
}

// Sidebar lists the menu entries of the session's area, in declaration
// order, filtered by its permissions.
//
// @Summary      Sidebar entries
// @Tags         navigation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sidebarResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/navigation/sidebar [get]
func (h *NavigationHandler) Sidebar(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	routes := sess.Sidebar()
	if routes == nil {
		routes = []domain.RouteDescriptor{}
	}
	return c.JSON(http.StatusOK, sidebarResponse{Role: sess.Role(), Routes: routes})
}

const (
	reasonMissingCapability = "missing_capability"
	reasonUnknownRoute      = "unknown_route"
)

func adminDenialReason(path string) string {
	if _, ok := domain.Match(domain.AdminRoutes(), path); !ok {
		return reasonUnknownRoute
	}
	return reasonMissingCapability
}
