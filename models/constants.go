package models

// User roles
const (
	RoleStudent = "student"
	RoleHost    = "host"
	RoleAdmin   = "admin"
)

// Application statuses
const (
	StatusSubmitted = "submitted"
	StatusMatched   = "matched"
	StatusCompleted = "completed"
	StatusWithdrawn = "withdrawn"
)

// Match statuses
const (
	MatchStatusConfirmed = "confirmed"
	MatchStatusCompleted = "completed"
	MatchStatusCancelled = "cancelled"
)

// Review decisions
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
	DecisionMaybe  = "maybe"
)

// MaxRankedHosts caps the number of hosts a student may rank per application.
const MaxRankedHosts = 5

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleHost || role == RoleAdmin
}

// ValidDecision reports whether decision is a known review decision.
func ValidDecision(decision string) bool {
	return decision == DecisionAccept || decision == DecisionReject || decision == DecisionMaybe
}
