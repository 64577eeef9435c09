package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/ports"
)

// TeamHandler manages BidFlow staff records. Mounted behind the
// /admin/team route predicate.
type TeamHandler struct {
	service ports.TeamService
}

func NewTeamHandler(service ports.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// List returns every team member.
//
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  teamListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/team [get]
func (h *TeamHandler) List(c echo.Context) error {
	members, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if members == nil {
		members = []domain.TeamMember{}
	}
	return c.JSON(http.StatusOK, teamListResponse{Members: members, Count: len(members)})
}

// Create adds a member in pending status.
//
// @Summary      Create a team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      teamMemberRequest  true  "Member"
// @Success      201   {object}  domain.TeamMember
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/team [post]
func (h *TeamHandler) Create(c echo.Context) error {
	in, err := bindTeamMember(c)
	if err != nil {
		return err
	}
	member, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

// Update replaces the editable fields of a member.
//
// @Summary      Update a team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Member id"
// @Param        body  body      teamMemberRequest  true  "Member"
// @Success      200   {object}  domain.TeamMember
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/team/{id} [put]
func (h *TeamHandler) Update(c echo.Context) error {
	in, err := bindTeamMember(c)
	if err != nil {
		return err
	}
	member, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// ToggleStatus blocks an active member or reactivates any other.
//
// @Summary      Toggle a team member's status
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member id"
// @Success      200  {object}  domain.TeamMember
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/team/{id}/status [patch]
func (h *TeamHandler) ToggleStatus(c echo.Context) error {
	member, err := h.service.ToggleStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

func bindTeamMember(c echo.Context) (ports.TeamMemberInput, error) {
	var req teamMemberRequest
	if err := c.Bind(&req); err != nil {
		return ports.TeamMemberInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.TeamMemberInput{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return ports.TeamMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
		Permissions: domain.TeamPermissions{
			Finance: req.Permissions.Finance,
			Support: req.Permissions.Support,
			Tech:    req.Permissions.Tech,
			Sales:   req.Permissions.Sales,
		},
	}, nil
}
