package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edu-ti/BidFlow-CRM/internal/api/middleware"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// ctxSession extracts the session injected by the Auth middleware. Its
// absence means the route was mounted without Auth, so fail closed.
func ctxSession(c echo.Context) (*service.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}
