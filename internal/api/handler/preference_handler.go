package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// HeaderBrowserID carries the stable per-browser id preferences are kept
// under, so they survive logout and a fresh bootstrap.
const HeaderBrowserID = "X-Browser-Id"

const maxBrowserIDLen = 128

// PreferenceHandler stores UI preferences scoped to the browser.
type PreferenceHandler struct {
	theme ports.ThemeService
}

func NewPreferenceHandler(theme ports.ThemeService) *PreferenceHandler {
	return &PreferenceHandler{theme: theme}
}

// GetTheme reports whether dark mode is on.
//
// @Summary      Read the theme preference
// @Tags         preferences
// @Produce      json
// @Security     BearerAuth
// @Param        X-Browser-Id  header  string  false  "Stable browser id"
// @Success      200  {object}  themeResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/preferences/theme [get]
func (h *PreferenceHandler) GetTheme(c echo.Context) error {
	scope, err := preferenceScope(c)
	if err != nil {
		return err
	}
	dark, err := h.theme.IsDark(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Dark: dark})
}

// PutTheme stores an explicit theme.
//
// @Summary      Set the theme preference
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Browser-Id  header  string  false  "Stable browser id"
// @Param        body  body      themeRequest  true  "Theme"
// @Success      200   {object}  themeResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/preferences/theme [put]
func (h *PreferenceHandler) PutTheme(c echo.Context) error {
	scope, err := preferenceScope(c)
	if err != nil {
		return err
	}

	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.theme.SetDark(c.Request().Context(), scope, *req.Dark); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Dark: *req.Dark})
}

// ToggleTheme flips the stored theme and returns the new value.
//
// @Summary      Flip the theme preference
// @Tags         preferences
// @Produce      json
// @Security     BearerAuth
// @Param        X-Browser-Id  header  string  false  "Stable browser id"
// @Success      200  {object}  themeResponse
// @Router       /v1/preferences/theme/toggle [post]
func (h *PreferenceHandler) ToggleTheme(c echo.Context) error {
	scope, err := preferenceScope(c)
	if err != nil {
		return err
	}
	dark, err := h.theme.Toggle(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Dark: dark})
}

// preferenceScope picks the key preferences live under: the browser id
// header, then the subject of a custom-token bootstrap, then the session
// itself.
func preferenceScope(c echo.Context) (string, error) {
	sess, err := ctxSession(c)
	if err != nil {
		return "", err
	}
	return scopeFor(c.Request().Header.Get(HeaderBrowserID), sess)
}

func scopeFor(browserID string, sess *service.Session) (string, error) {
	if id := strings.TrimSpace(browserID); id != "" {
		if len(id) > maxBrowserIDLen || strings.ContainsAny(id, ": \t") {
			return "", echo.NewHTTPError(http.StatusBadRequest, "invalid browser id")
		}
		return "browser:" + id, nil
	}
	if sub := sess.Handle().Subject; sub != "" {
		return "subject:" + sub, nil
	}
	return "session:" + sess.ID(), nil
}
