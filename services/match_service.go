package services

import (
	"context"
	"fmt"
	"log"

	"github.com/gheetdufa/ifad-portal-sub001/models"

	"github.com/google/uuid"
)

// CreateMatchRequest names the host chosen for an accepted application.
type CreateMatchRequest struct {
	HostID string `json:"hostId"`
}

// ListMatchesRequest pages a role-scoped match listing.
type ListMatchesRequest struct {
	Limit     int32  `json:"limit,omitempty"`
	NextToken string `json:"nextToken,omitempty"`
}

// MatchService converts an application into a confirmed placement. Invoked
// only through the workflow's match transition.
type MatchService struct {
	Store  RecordStore
	Access *AccessPatterns
}

// CreateMatch pairs the student with one of their ranked hosts and moves the
// application to matched. The match record and the application update are two
// sequential writes with no cross-key atomicity, so the operation is
// re-driveable: calling it again for an already-matched application with the
// same host converges on the existing match instead of erroring.
func (ms *MatchService) CreateMatch(ctx context.Context, caller models.Caller, applicationID string, req CreateMatchRequest) (*models.Match, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only admins can create matches: %w", models.ErrUnauthorized)
	}
	if req.HostID == "" {
		return nil, fmt.Errorf("host id is required for matching: %w", models.ErrValidation)
	}

	app, err := ms.Access.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	switch app.Status {
	case models.StatusMatched:
		if app.MatchedHostID != req.HostID {
			return nil, fmt.Errorf("application already matched to host %q: %w", app.MatchedHostID, models.ErrConflict)
		}
		return ms.redriveMatch(ctx, app, req.HostID)
	case models.StatusCompleted, models.StatusWithdrawn:
		return nil, fmt.Errorf("cannot match application in status %q: %w", app.Status, models.ErrInvalidState)
	}

	if !app.RanksHost(req.HostID) {
		return nil, fmt.Errorf("host not in student's ranked preferences: %w", models.ErrValidation)
	}

	matchID := uuid.NewString()
	now := nowISO()
	match := models.Match{
		MatchID:       matchID,
		ApplicationID: app.ApplicationID,
		StudentID:     app.StudentID,
		HostID:        req.HostID,
		Semester:      app.Semester,
		Status:        models.MatchStatusConfirmed,
		MatchedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	matchItem, err := EncodeMatch(match)
	if err != nil {
		return nil, err
	}
	// The match record goes first: if the process dies before the
	// application update lands, a retry finds the matched status missing and
	// simply redoes both writes.
	if err := ms.Store.PutItem(ctx, matchItem); err != nil {
		return nil, err
	}

	app.Status = models.StatusMatched
	app.MatchID = matchID
	app.MatchedHostID = req.HostID
	app.MatchedAt = now
	app.UpdatedAt = now
	appItem, err := EncodeApplication(*app)
	if err != nil {
		return nil, err
	}
	if err := ms.Store.PutItem(ctx, appItem); err != nil {
		return nil, err
	}

	log.Printf("Created match %s: student %s with host %s for %s", matchID, app.StudentID, req.HostID, app.Semester)
	return &match, nil
}

// redriveMatch handles the idempotent retry path: the application is already
// matched to this host, so return the existing match, recreating its record
// if a crash left it missing.
func (ms *MatchService) redriveMatch(ctx context.Context, app *models.Application, hostID string) (*models.Match, error) {
	item, err := ms.Store.GetItem(ctx, matchKeyPrefix+app.MatchID, skMetadata)
	if err != nil {
		return nil, err
	}
	if item != nil {
		match := DecodeMatch(item)
		return &match, nil
	}

	log.Printf("Match record %s missing for matched application %s, rewriting", app.MatchID, app.ApplicationID)
	match := models.Match{
		MatchID:       app.MatchID,
		ApplicationID: app.ApplicationID,
		StudentID:     app.StudentID,
		HostID:        hostID,
		Semester:      app.Semester,
		Status:        models.MatchStatusConfirmed,
		MatchedAt:     app.MatchedAt,
		CreatedAt:     app.MatchedAt,
		UpdatedAt:     nowISO(),
	}
	matchItem, err := EncodeMatch(match)
	if err != nil {
		return nil, err
	}
	if err := ms.Store.PutItem(ctx, matchItem); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatch returns one match, visible to its student, its host, and admins.
func (ms *MatchService) GetMatch(ctx context.Context, caller models.Caller, matchID string) (*models.Match, error) {
	item, err := ms.Store.GetItem(ctx, matchKeyPrefix+matchID, skMetadata)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("match %q: %w", matchID, models.ErrNotFound)
	}
	match := DecodeMatch(item)

	if caller.UserID != match.StudentID && caller.UserID != match.HostID && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to view this match: %w", models.ErrUnauthorized)
	}
	return &match, nil
}

// ListMatches answers each role's view of placements.
func (ms *MatchService) ListMatches(ctx context.Context, caller models.Caller, req ListMatchesRequest) ([]models.Match, string, error) {
	switch caller.Role {
	case models.RoleStudent:
		matches, err := ms.Access.MatchesForStudent(ctx, caller.UserID)
		return matches, "", err
	case models.RoleHost:
		matches, err := ms.Access.MatchesForHost(ctx, caller.UserID)
		return matches, "", err
	case models.RoleAdmin:
		return ms.Access.AllMatches(ctx, Page{Limit: req.Limit, Token: req.NextToken})
	default:
		return nil, "", fmt.Errorf("not authorized to view matches: %w", models.ErrUnauthorized)
	}
}
