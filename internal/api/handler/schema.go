package handler

import (
	"github.com/edu-ti/BidFlow-CRM/internal/core/domain"
	"github.com/edu-ti/BidFlow-CRM/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Sessions ---

type bootstrapRequest struct {
	InitialToken string `json:"initial_token"`
}

type bootstrapResponse struct {
	Token    string              `json:"token"`
	Session  service.SessionView `json:"session"`
	Degraded bool                `json:"degraded,omitempty"`
}

type clientLoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminLoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

// --- Navigation ---

type sidebarResponse struct {
	Role   domain.Role              `json:"role"`
	Routes []domain.RouteDescriptor `json:"routes"`
}

// --- Preferences ---

type themeRequest struct {
	Dark *bool `json:"dark" validate:"required"`
}

type themeResponse struct {
	Dark bool `json:"dark"`
}

// --- Team ---

type teamPermissionsRequest struct {
	Finance bool `json:"finance"`
	Support bool `json:"support"`
	Tech    bool `json:"tech"`
	Sales   bool `json:"sales"`
}

type teamMemberRequest struct {
	Name        string                 `json:"name"        validate:"required,max=120"`
	Email       string                 `json:"email"       validate:"required,email"`
	Role        string                 `json:"role"        validate:"required,max=60"`
	Permissions teamPermissionsRequest `json:"permissions"`
}

type teamListResponse struct {
	Members []domain.TeamMember `json:"members"`
	Count   int                 `json:"count"`
}

// --- Audit ---

type auditListResponse struct {
	Events []domain.AuthEvent `json:"events"`
	Count  int                `json:"count"`
}
