package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/utils"
)

// UpdateProfileRequest is the typed profile patch. Identity fields (userId,
// role, email) are not part of it and therefore cannot change.
type UpdateProfileRequest struct {
	FirstName    string   `json:"firstName,omitempty"`
	LastName     string   `json:"lastName,omitempty"`
	JobTitle     string   `json:"jobTitle,omitempty"`
	Organization string   `json:"organization,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	CareerFields []string `json:"careerFields,omitempty"`
	Location     string   `json:"location,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Website      string   `json:"website,omitempty"`
	MaxStudents  *int     `json:"maxStudents,omitempty"`
	Visible      *bool    `json:"visible,omitempty"`
}

// AdminUpdateUserRequest is the admin patch over any profile. It extends the
// self-service patch with the moderation fields only admins may touch.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Verified *bool `json:"verified,omitempty"`
	Active   *bool `json:"active,omitempty"`
}

// HostDirectoryFilters narrows the authenticated host directory. Verified is
// honored for admins only; everyone else always gets verified hosts.
type HostDirectoryFilters struct {
	Verified  *bool
	Location  string
	Limit     int32
	NextToken string
}

// PublicHostFilters narrows the anonymous host directory.
type PublicHostFilters struct {
	Industry               string
	Location               string
	CareerField            string
	RegisteredThisSemester bool
	Limit                  int32
	NextToken              string
}

// UserProfileService covers registration-adjacent profile operations for all
// three roles plus the anonymous public surfaces.
type UserProfileService struct {
	Store  RecordStore
	Access *AccessPatterns
}

// CreateUser registers a profile record. Invoked by the identity collaborator
// at registration and by admins; duplicate user ids are rejected.
func (ups *UserProfileService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.UserID == "" || user.Email == "" {
		return nil, fmt.Errorf("userId and email are required: %w", models.ErrValidation)
	}
	if !models.ValidRole(user.Role) {
		return nil, fmt.Errorf("invalid role %q: %w", user.Role, models.ErrValidation)
	}

	now := nowISO()
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Name == "" {
		user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}

	item, err := EncodeUser(user)
	if err != nil {
		return nil, err
	}
	if err := ups.Store.PutItemIfAbsent(ctx, item); err != nil {
		if errors.Is(err, models.ErrConditionFailed) {
			return nil, fmt.Errorf("user %q already exists: %w", user.UserID, models.ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the caller's own profile.
func (ups *UserProfileService) GetProfile(ctx context.Context, caller models.Caller) (*models.User, error) {
	return ups.Access.GetUser(ctx, caller.UserID)
}

// GetUserByID returns any profile to an authenticated caller.
func (ups *UserProfileService) GetUserByID(ctx context.Context, caller models.Caller, userID string) (*models.User, error) {
	if caller.UserID == "" {
		return nil, fmt.Errorf("authentication required: %w", models.ErrUnauthenticated)
	}
	return ups.Access.GetUser(ctx, userID)
}

// UpdateProfile patches the caller's own profile.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, caller models.Caller, req UpdateProfileRequest) (*models.User, error) {
	user, err := ups.Access.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	applyProfilePatch(user, req)
	user.UpdatedAt = nowISO()

	item, err := EncodeUser(*user)
	if err != nil {
		return nil, err
	}
	if err := ups.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser is the admin patch over any user's profile and the host approval
// path: flipping Verified admits the host to, or removes it from, the public
// directory.
func (ups *UserProfileService) UpdateUser(ctx context.Context, caller models.Caller, userID string, req AdminUpdateUserRequest) (*models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to update users: %w", models.ErrUnauthorized)
	}
	user, err := ups.Access.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfilePatch(user, req.UpdateProfileRequest)
	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = nowISO()

	item, err := EncodeUser(*user)
	if err != nil {
		return nil, err
	}
	if err := ups.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfilePatch(user *models.User, req UpdateProfileRequest) {
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.FirstName != "" || req.LastName != "" {
		user.Name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	if req.JobTitle != "" {
		user.JobTitle = req.JobTitle
	}
	if req.Organization != "" {
		user.Organization = req.Organization
	}
	if req.Industry != "" {
		user.Industry = req.Industry
	}
	if req.CareerFields != nil {
		user.CareerFields = req.CareerFields
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Website != "" {
		user.Website = req.Website
	}
	if req.MaxStudents != nil {
		user.MaxStudents = *req.MaxStudents
	}
	if req.Visible != nil {
		user.Visible = *req.Visible
	}
}

// RegisterForSemester records a host's availability for a term. Eligibility
// is one stored boolean computed here, nowhere else: the host is registered
// for the current semester or is not.
func (ups *UserProfileService) RegisterForSemester(ctx context.Context, caller models.Caller, semester string) (*models.User, error) {
	if caller.Role != models.RoleHost {
		return nil, fmt.Errorf("only hosts register for semesters: %w", models.ErrUnauthorized)
	}
	if semester == "" {
		return nil, fmt.Errorf("semester is required: %w", models.ErrValidation)
	}

	user, err := ups.Access.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	user.RegisteredSemester = semester
	user.CurrentSemesterRegistered = semester == utils.CurrentSemester(time.Now())
	user.UpdatedAt = nowISO()

	item, err := EncodeUser(*user)
	if err != nil {
		return nil, err
	}
	if err := ups.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsersByRole is the admin listing over the role index.
func (ups *UserProfileService) ListUsersByRole(ctx context.Context, caller models.Caller, role string, page Page) ([]models.User, string, error) {
	if caller.Role != models.RoleAdmin {
		return nil, "", fmt.Errorf("not authorized to list users: %w", models.ErrUnauthorized)
	}
	if !models.ValidRole(role) {
		return nil, "", fmt.Errorf("invalid role %q: %w", role, models.ErrValidation)
	}
	return ups.Access.UsersByRole(ctx, role, page)
}

// SearchUsers is an admin substring search over names, emails and
// organizations. Scan-based; admin traffic only.
func (ups *UserProfileService) SearchUsers(ctx context.Context, caller models.Caller, query string) ([]models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to search users: %w", models.ErrUnauthorized)
	}
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", models.ErrValidation)
	}

	needle := strings.ToLower(query)
	result, err := ups.Store.ScanAll(ctx, func(item Record) bool {
		return strings.HasPrefix(utils.ExtractString(item, AttrPK), userKeyPrefix) &&
			utils.ExtractString(item, AttrSK) == skProfile
	}, QueryOptions{})
	if err != nil {
		return nil, err
	}

	var users []models.User
	for _, item := range result.Items {
		user := DecodeUser(item)
		haystack := strings.ToLower(user.Name + " " + user.Email + " " + user.Organization)
		if strings.Contains(haystack, needle) {
			users = append(users, user)
		}
	}
	return users, nil
}

// DeactivateUser is the admin soft delete. The record stays; only Active
// flips.
func (ups *UserProfileService) DeactivateUser(ctx context.Context, caller models.Caller, userID string) (*models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to deactivate users: %w", models.ErrUnauthorized)
	}
	user, err := ups.Access.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Active = false
	user.UpdatedAt = nowISO()

	item, err := EncodeUser(*user)
	if err != nil {
		return nil, err
	}
	if err := ups.Store.PutItem(ctx, item); err != nil {
		return nil, err
	}
	return user, nil
}

// HostDirectory is the authenticated host listing with full profile fields.
// Non-admin callers only ever see verified, active hosts; admins see
// everything and may filter on verification state.
func (ups *UserProfileService) HostDirectory(ctx context.Context, caller models.Caller, filters HostDirectoryFilters) ([]models.User, string, error) {
	if caller.UserID == "" {
		return nil, "", fmt.Errorf("authentication required: %w", models.ErrUnauthenticated)
	}

	users, nextToken, err := ups.Access.UsersByRole(ctx, models.RoleHost, Page{Limit: filters.Limit, Token: filters.NextToken})
	if err != nil {
		return nil, "", err
	}

	hosts := make([]models.User, 0, len(users))
	for _, user := range users {
		if caller.Role != models.RoleAdmin {
			if !user.Verified || !user.Active {
				continue
			}
		} else if filters.Verified != nil && user.Verified != *filters.Verified {
			continue
		}
		if filters.Location != "" && !strings.Contains(strings.ToLower(user.Location), strings.ToLower(filters.Location)) {
			continue
		}
		hosts = append(hosts, user)
	}
	return hosts, nextToken, nil
}

// AdminStats aggregates the dashboard counts for one semester. Unlike the
// public read this surfaces store failures to the caller.
func (ups *UserProfileService) AdminStats(ctx context.Context, caller models.Caller, semester string) (*models.AdminStats, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("not authorized to view statistics: %w", models.ErrUnauthorized)
	}
	if semester == "" {
		semester = utils.CurrentSemester(time.Now())
	}

	stats := &models.AdminStats{Semester: semester, GeneratedAt: nowISO()}

	students, _, err := ups.Access.UsersByRole(ctx, models.RoleStudent, Page{})
	if err != nil {
		return nil, err
	}
	stats.TotalStudents = len(students)

	hosts, _, err := ups.Access.UsersByRole(ctx, models.RoleHost, Page{})
	if err != nil {
		return nil, err
	}
	stats.TotalHosts = len(hosts)
	for _, host := range hosts {
		if host.Verified {
			stats.VerifiedHosts++
		} else {
			stats.UnverifiedHosts++
		}
	}

	apps, _, err := ups.Access.ApplicationsForSemester(ctx, semester, Page{})
	if err != nil {
		return nil, err
	}
	stats.Applications.Total = len(apps)
	for _, app := range apps {
		switch app.Status {
		case models.StatusSubmitted:
			stats.Applications.Submitted++
		case models.StatusMatched:
			stats.Applications.Matched++
		case models.StatusCompleted:
			stats.Applications.Completed++
		case models.StatusWithdrawn:
			stats.Applications.Withdrawn++
		}
	}

	matches, _, err := ups.Access.AllMatches(ctx, Page{})
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		if match.Semester != semester {
			continue
		}
		stats.Matches.Total++
		switch match.Status {
		case models.MatchStatusConfirmed:
			stats.Matches.Confirmed++
		case models.MatchStatusCompleted:
			stats.Matches.Completed++
		case models.MatchStatusCancelled:
			stats.Matches.Cancelled++
		}
	}
	return stats, nil
}

// PublicHosts is the anonymous host directory. Availability over
// correctness: any store failure degrades to an empty listing, never an
// error.
func (ups *UserProfileService) PublicHosts(ctx context.Context, filters PublicHostFilters) ([]models.PublicHost, string) {
	users, nextToken, err := ups.Access.UsersByRole(ctx, models.RoleHost, Page{Limit: filters.Limit, Token: filters.NextToken})
	if err != nil {
		log.Printf("Public host listing degraded to empty: %v", err)
		return []models.PublicHost{}, ""
	}

	hosts := make([]models.PublicHost, 0, len(users))
	for _, user := range users {
		if !user.Verified || !user.Active || !user.Visible {
			continue
		}
		if filters.Industry != "" && !strings.Contains(strings.ToLower(user.Industry), strings.ToLower(filters.Industry)) {
			continue
		}
		if filters.Location != "" && !strings.Contains(strings.ToLower(user.Location), strings.ToLower(filters.Location)) {
			continue
		}
		if filters.CareerField != "" && !containsFold(user.CareerFields, filters.CareerField) {
			continue
		}
		if filters.RegisteredThisSemester && !user.CurrentSemesterRegistered {
			continue
		}
		hosts = append(hosts, models.PublicHost{
			UserID:       user.UserID,
			Name:         user.Name,
			JobTitle:     user.JobTitle,
			Organization: user.Organization,
			Industry:     user.Industry,
			CareerFields: user.CareerFields,
			Location:     user.Location,
			Bio:          user.Bio,
			Website:      user.Website,
			MaxStudents:  user.MaxStudents,
		})
	}
	return hosts, nextToken
}

// PublicStats is the anonymous statistics read; degrades to zeros on store
// failure.
func (ups *UserProfileService) PublicStats(ctx context.Context) models.PublicStats {
	stats := models.PublicStats{
		CurrentSemester: utils.CurrentSemester(time.Now()),
		LastUpdated:     nowISO(),
	}

	students, _, err := ups.Access.UsersByRole(ctx, models.RoleStudent, Page{})
	if err != nil {
		log.Printf("Public stats degraded: %v", err)
		return stats
	}
	hosts, _, err := ups.Access.UsersByRole(ctx, models.RoleHost, Page{})
	if err != nil {
		log.Printf("Public stats degraded: %v", err)
		return stats
	}

	stats.TotalStudents = len(students)
	stats.TotalHosts = len(hosts)
	for _, host := range hosts {
		if host.Verified {
			stats.VerifiedHosts++
		}
	}
	return stats
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
