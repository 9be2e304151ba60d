package models

// Caller is the resolved identity of the requester, produced by the identity
// collaborator before any core operation runs.
type Caller struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// User defines the profile record for students, hosts and admins.
type User struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	Role      string `dynamodbav:"role" json:"role"`
	Email     string `dynamodbav:"email" json:"email"`
	FirstName string `dynamodbav:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `dynamodbav:"lastName,omitempty" json:"lastName,omitempty"`
	Name      string `dynamodbav:"name,omitempty" json:"name,omitempty"`

	// host-facing profile attributes
	JobTitle     string   `dynamodbav:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Organization string   `dynamodbav:"organization,omitempty" json:"organization,omitempty"`
	Industry     string   `dynamodbav:"industry,omitempty" json:"industry,omitempty"`
	CareerFields []string `dynamodbav:"careerFields,omitempty" json:"careerFields,omitempty"`
	Location     string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Bio          string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Website      string   `dynamodbav:"website,omitempty" json:"website,omitempty"`
	MaxStudents  int      `dynamodbav:"maxStudents,omitempty" json:"maxStudents,omitempty"`

	// lifecycle flags; users are never hard-deleted
	Verified bool `dynamodbav:"verified" json:"verified"`
	Visible  bool `dynamodbav:"visible" json:"visible"`
	Active   bool `dynamodbav:"active" json:"active"`

	// student flag set when an application is submitted
	ApplicationSubmitted bool `dynamodbav:"applicationSubmitted" json:"applicationSubmitted"`

	// host semester eligibility: a single boolean computed at registration
	// time, scoped by RegisteredSemester
	RegisteredSemester        string `dynamodbav:"registeredSemester,omitempty" json:"registeredSemester,omitempty"`
	CurrentSemesterRegistered bool   `dynamodbav:"currentSemesterRegistered" json:"currentSemesterRegistered"`

	CreatedAt string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PublicHost is the anonymous-browsing view of a host profile. Contact details
// and internal flags are deliberately absent.
type PublicHost struct {
	UserID       string   `json:"userId"`
	Name         string   `json:"name"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	CareerFields []string `json:"careerFields,omitempty"`
	Location     string   `json:"location,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Website      string   `json:"website,omitempty"`
	MaxStudents  int      `json:"maxStudents,omitempty"`
}

// PublicStats is the anonymous statistics payload.
type PublicStats struct {
	TotalStudents   int    `json:"totalStudents"`
	TotalHosts      int    `json:"totalHosts"`
	VerifiedHosts   int    `json:"verifiedHosts"`
	CurrentSemester string `json:"currentSemester"`
	LastUpdated     string `json:"lastUpdated"`
}

// AdminStats is the admin dashboard snapshot for one semester.
type AdminStats struct {
	Semester      string `json:"semester"`
	TotalStudents int    `json:"totalStudents"`

	TotalHosts      int `json:"totalHosts"`
	VerifiedHosts   int `json:"verifiedHosts"`
	UnverifiedHosts int `json:"unverifiedHosts"`

	Applications ApplicationStats `json:"applications"`
	Matches      MatchStats       `json:"matches"`

	GeneratedAt string `json:"generatedAt"`
}

// ApplicationStats breaks one semester's applications down by status.
type ApplicationStats struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Matched   int `json:"matched"`
	Completed int `json:"completed"`
	Withdrawn int `json:"withdrawn"`
}

// MatchStats breaks one semester's matches down by status.
type MatchStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
