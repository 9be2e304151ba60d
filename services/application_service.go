package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/google/uuid"
)

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SubmitApplicationRequest is the typed submission payload.
type SubmitApplicationRequest struct {
	RankedHostIDs []string          `json:"rankedHostIds"`
	Semester      string            `json:"semester"`
	Answers       map[string]string `json:"answers,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
}

// ReviewApplicationRequest is a host's decision payload.
type ReviewApplicationRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes,omitempty"`
	Ranking  int    `json:"ranking,omitempty"`
}

// UpdateApplicationRequest is the student's patch payload. ApplicationID and
// StudentID are immutable; a patch naming them is rejected.
type UpdateApplicationRequest struct {
	ApplicationID string            `json:"applicationId,omitempty"`
	StudentID     string            `json:"studentId,omitempty"`
	RankedHostIDs []string          `json:"rankedHostIds,omitempty"`
	Answers       map[string]string `json:"answers,omitempty"`
	Preferences   map[string]string `json:"preferences,omitempty"`
}

// ListApplicationsRequest narrows a role-scoped listing.
type ListApplicationsRequest struct {
	Semester  string `json:"semester,omitempty"`
	Status    string `json:"status,omitempty"`
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// ApplicationService drives the application state machine:
// submitted -> (reviewed)* -> matched -> completed, with a student-initiated
// withdrawal branch. "Reviewed" is derived from review records, not a stored
// status.
type ApplicationService struct {
	Store  RecordStore
	Access *AccessPatterns
}

func validateRankedHosts(rankedHostIDs []string) error {
	if len(rankedHostIDs) == 0 {
		return fmt.Errorf("must provide at least one host preference: %w", models.ErrValidation)
	}
	if len(rankedHostIDs) > models.MaxRankedHosts {
		return fmt.Errorf("cannot rank more than %d host preferences: %w", models.MaxRankedHosts, models.ErrValidation)
	}
	seen := make(map[string]bool, len(rankedHostIDs))
	for _, id := range rankedHostIDs {
		if id == "" {
			return fmt.Errorf("host preference cannot be empty: %w", models.ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("host %q ranked more than once: %w", id, models.ErrValidation)
		}
		seen[id] = true
	}
	return nil
}

// SubmitApplication creates the application after claiming the per-semester
// uniqueness slot. The conditional slot write is what guarantees at most one
// non-withdrawn application per (student, semester) even under concurrent
// submissions.
func (s *ApplicationService) SubmitApplication(ctx context.Context, caller models.Caller, req SubmitApplicationRequest) (*models.Application, error) {
	if caller.Role != models.RoleStudent {
		return nil, fmt.Errorf("only students can submit applications: %w", models.ErrUnauthorized)
	}
	if req.Semester == "" {
		return nil, fmt.Errorf("semester is required: %w", models.ErrValidation)
	}
	if err := validateRankedHosts(req.RankedHostIDs); err != nil {
		return nil, err
	}

	applicationID := uuid.NewString()
	now := nowISO()

	slot := applicationSlotRecord(caller.UserID, req.Semester, applicationID, now)
	if err := s.Store.PutItemIfAbsent(ctx, slot); err != nil {
		if errors.Is(err, models.ErrConditionFailed) {
			return nil, models.ErrDuplicateApplication
		}
		return nil, err
	}

	app := models.Application{
		ApplicationID: applicationID,
		StudentID:     caller.UserID,
		RankedHostIDs: req.RankedHostIDs,
		Semester:      req.Semester,
		Answers:       req.Answers,
		Preferences:   req.Preferences,
		Status:        models.StatusSubmitted,
		Reviews:       map[string]models.Review{},
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	item, err := EncodeApplication(app)
	if err != nil {
		s.releaseSlot(ctx, caller.UserID, req.Semester)
		return nil, err
	}
	if err := s.Store.PutItem(ctx, item); err != nil {
		s.releaseSlot(ctx, caller.UserID, req.Semester)
		return nil, err
	}

	s.markApplicationSubmitted(ctx, caller.UserID)
	return &app, nil
}

func (s *ApplicationService) releaseSlot(ctx context.Context, studentID, semester string) {
	if err := s.Store.DeleteItem(ctx, applicationSlotKey(studentID, semester), skClaim); err != nil {
		log.Printf("Failed to release application slot for %s/%s: %v", studentID, semester, err)
	}
}

// markApplicationSubmitted flags the student profile. Best effort: the
// application is the source of truth, a stale flag only affects display.
func (s *ApplicationService) markApplicationSubmitted(ctx context.Context, studentID string) {
	user, err := s.Access.GetUser(ctx, studentID)
	if err != nil {
		log.Printf("Could not load student %s to mark submission: %v", studentID, err)
		return
	}
	user.ApplicationSubmitted = true
	user.UpdatedAt = nowISO()
	item, err := EncodeUser(*user)
	if err != nil {
		log.Printf("Could not encode student %s profile: %v", studentID, err)
		return
	}
	if err := s.Store.PutItem(ctx, item); err != nil {
		log.Printf("Could not update student %s profile: %v", studentID, err)
	}
}

// GetApplication returns one application with its reviews folded in. Visible
// to the owning student, any host named in the ranked preferences, and
// admins.
func (s *ApplicationService) GetApplication(ctx context.Context, caller models.Caller, applicationID string) (*models.Application, error) {
	app, err := s.Access.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	isOwner := caller.UserID == app.StudentID
	isRankedHost := caller.Role == models.RoleHost && app.RanksHost(caller.UserID)
	isAdmin := caller.Role == models.RoleAdmin
	if !isOwner && !isRankedHost && !isAdmin {
		return nil, fmt.Errorf("not authorized to view this application: %w", models.ErrUnauthorized)
	}

	reviews, err := s.Access.ReviewsForApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	app.Reviews = reviews
	return app, nil
}

// ListApplications answers each role's view: students their own, hosts the
// applications naming them, admins the term-wide or full listing.
func (s *ApplicationService) ListApplications(ctx context.Context, caller models.Caller, req ListApplicationsRequest) ([]models.Application, string, error) {
	var (
		apps      []models.Application
		nextToken string
		err       error
	)

	switch caller.Role {
	case models.RoleStudent:
		apps, err = s.Access.ApplicationsForStudent(ctx, caller.UserID)
	case models.RoleHost:
		apps, err = s.Access.ApplicationsForHost(ctx, caller.UserID)
	case models.RoleAdmin:
		if req.Semester != "" {
			apps, nextToken, err = s.Access.ApplicationsForSemester(ctx, req.Semester, Page{Limit: req.Limit, Token: req.NextToken})
		} else {
			apps, nextToken, err = s.Access.AllApplications(ctx, Page{Limit: req.Limit, Token: req.NextToken})
		}
	default:
		return nil, "", fmt.Errorf("not authorized to view applications: %w", models.ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}

	filtered := apps[:0]
	for _, app := range apps {
		if req.Semester != "" && app.Semester != req.Semester {
			continue
		}
		if req.Status != "" && app.Status != req.Status {
			continue
		}
		filtered = append(filtered, app)
	}
	return filtered, nextToken, nil
}

// UpdateApplication applies a student patch. Terminal applications reject
// edits; immutable fields present in the patch are rejected outright.
func (s *ApplicationService) UpdateApplication(ctx context.Context, caller models.Caller, applicationID string, req UpdateApplicationRequest) (*models.Application, error) {
	if req.ApplicationID != "" || req.StudentID != "" {
		return nil, fmt.Errorf("applicationId and studentId are immutable: %w", models.ErrValidation)
	}

	app, err := s.Access.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleStudent || caller.UserID != app.StudentID {
		return nil, fmt.Errorf("not authorized to update this application: %w", models.ErrUnauthorized)
	}
	if app.Terminal() {
		return nil, fmt.Errorf("cannot update application in status %q: %w", app.Status, models.ErrInvalidState)
	}

	if req.RankedHostIDs != nil {
		if err := validateRankedHosts(req.RankedHostIDs); err != nil {
			return nil, err
		}
		app.RankedHostIDs = req.RankedHostIDs
	}
	if req.Answers != nil {
		app.Answers = req.Answers
	}
	if req.Preferences != nil {
		app.Preferences = req.Preferences
	}
	app.UpdatedAt = nowISO()

	item, err := EncodeApplication(*app)
	if err != nil {
		return nil, err
	}
	if err := s.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return app, nil
}

// ReviewApplication merges one host's decision. Each review is its own
// record, so concurrent reviews from different hosts never overwrite each
// other; a host re-reviewing replaces only its own entry.
func (s *ApplicationService) ReviewApplication(ctx context.Context, caller models.Caller, applicationID string, req ReviewApplicationRequest) (*models.Review, error) {
	if caller.Role != models.RoleHost && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to review applications: %w", models.ErrUnauthorized)
	}

	app, err := s.Access.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleHost && !app.RanksHost(caller.UserID) {
		return nil, fmt.Errorf("not authorized to review this application: %w", models.ErrUnauthorized)
	}
	if !models.ValidDecision(req.Decision) {
		return nil, fmt.Errorf("invalid decision %q: %w", req.Decision, models.ErrValidation)
	}

	review := models.Review{
		HostID:     caller.UserID,
		Decision:   req.Decision,
		Notes:      req.Notes,
		Ranking:    req.Ranking,
		ReviewedAt: nowISO(),
	}
	item, err := EncodeReview(applicationID, review)
	if err != nil {
		return nil, err
	}
	if err := s.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return &review, nil
}

// WithdrawApplication is the student-initiated exit. It releases the
// per-semester slot so the student can resubmit.
func (s *ApplicationService) WithdrawApplication(ctx context.Context, caller models.Caller, applicationID string) (*models.Application, error) {
	app, err := s.Access.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleStudent || caller.UserID != app.StudentID {
		return nil, fmt.Errorf("not authorized to withdraw this application: %w", models.ErrUnauthorized)
	}
	if app.Terminal() {
		return nil, fmt.Errorf("cannot withdraw application in status %q: %w", app.Status, models.ErrInvalidState)
	}
	if app.Status == models.StatusWithdrawn {
		return app, nil
	}

	app.Status = models.StatusWithdrawn
	app.UpdatedAt = nowISO()
	item, err := EncodeApplication(*app)
	if err != nil {
		return nil, err
	}
	if err := s.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}

	s.releaseSlot(ctx, app.StudentID, app.Semester)
	return app, nil
}
