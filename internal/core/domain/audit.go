package domain

import "time"

// AuthEventType names the session transition an audit entry records.
type AuthEventType string

const (
	EventClientLogin      AuthEventType = "login.client"
	EventAdminLogin       AuthEventType = "login.admin"
	EventLogout           AuthEventType = "logout"
	EventNavigationDenied AuthEventType = "navigation.denied"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthEvent is one entry of the audit trail.
type AuthEvent struct {
	ID         string        `json:"id,omitempty"`
	Type       AuthEventType `json:"type"`
	Outcome    string        `json:"outcome"`
	Actor      string        `json:"actor"`
	SessionID  string        `json:"session_id,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Path       string        `json:"path,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
