package domain

import "time"

// AuthEventType names an entry in the authentication audit trail.
type AuthEventType string

const (
	EventRegistered        AuthEventType = "registered"
	EventLoginSucceeded    AuthEventType = "login_succeeded"
	EventLoginFailed       AuthEventType = "login_failed"
	EventLoggedOut         AuthEventType = "logged_out"
	EventMembershipGranted AuthEventType = "membership_granted"
	EventMembershipDenied  AuthEventType = "membership_denied"
	EventMembershipRevoked AuthEventType = "membership_revoked"
)

// AuthEvent records a security-relevant action taken by or on behalf of a user.
type AuthEvent struct {
	Type       AuthEventType
	UserID     string // empty for failed logins against unknown users
	Username   string
	OccurredAt time.Time
}
