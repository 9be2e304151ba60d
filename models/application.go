package models

// Review is a single host's decision on an application. Reviews are stored as
// their own records keyed by (applicationId, hostId) so that two hosts
// reviewing concurrently never contend on one record.
type Review struct {
	HostID     string `dynamodbav:"hostId" json:"hostId"`
	Decision   string `dynamodbav:"decision" json:"decision"`
	Notes      string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	Ranking    int    `dynamodbav:"ranking,omitempty" json:"ranking,omitempty"`
	ReviewedAt string `dynamodbav:"reviewedAt" json:"reviewedAt"`
}

// Application is a student's ranked host-preference submission for one
// semester. The Reviews map is assembled from the per-host review records on
// read and is never persisted on this record.
type Application struct {
	ApplicationID string            `dynamodbav:"applicationId" json:"applicationId"`
	StudentID     string            `dynamodbav:"studentId" json:"studentId"`
	RankedHostIDs []string          `dynamodbav:"rankedHostIds" json:"rankedHostIds"`
	Semester      string            `dynamodbav:"semester" json:"semester"`
	Answers       map[string]string `dynamodbav:"answers,omitempty" json:"answers,omitempty"`
	Preferences   map[string]string `dynamodbav:"preferences,omitempty" json:"preferences,omitempty"`
	Status        string            `dynamodbav:"status" json:"status"`
	Reviews       map[string]Review `dynamodbav:"-" json:"reviews,omitempty"`

	// set by the match transition, empty before it
	MatchID       string `dynamodbav:"matchId,omitempty" json:"matchId,omitempty"`
	MatchedHostID string `dynamodbav:"matchedHostId,omitempty" json:"matchedHostId,omitempty"`
	MatchedAt     string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"`

	SubmittedAt string `dynamodbav:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	UpdatedAt   string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Terminal reports whether the application can no longer be edited by the
// student. Withdrawn applications are terminal for edits but release the
// per-semester uniqueness slot.
func (a *Application) Terminal() bool {
	return a.Status == StatusMatched || a.Status == StatusCompleted
}

// RanksHost reports whether hostID appears anywhere in the ranked preferences.
func (a *Application) RanksHost(hostID string) bool {
	for _, id := range a.RankedHostIDs {
		if id == hostID {
			return true
		}
	}
	return false
}
