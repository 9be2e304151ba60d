package models

// Match is the confirmed pairing of a student and one host, created exactly
// once per application by an admin. Immutable after creation except Status.
type Match struct {
	MatchID       string `dynamodbav:"matchId" json:"matchId"`
	ApplicationID string `dynamodbav:"applicationId" json:"applicationId"`
	StudentID     string `dynamodbav:"studentId" json:"studentId"`
	HostID        string `dynamodbav:"hostId" json:"hostId"`
	Semester      string `dynamodbav:"semester" json:"semester"`
	Status        string `dynamodbav:"status" json:"status"`
	MatchedAt     string `dynamodbav:"matchedAt" json:"matchedAt"`
	CreatedAt     string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
