package controllers

import (
	"net/http"

	"github.com/gheetdufa/ifad-portal-sub001/models"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for profiles and the admin
// user surfaces
type UserProfileController struct {
	Service *services.UserProfileService
	Auth    *Auth
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(service *services.UserProfileService, auth *Auth) *UserProfileController {
	return &UserProfileController{Service: service, Auth: auth}
}

// GetProfile handles GET /api/users/profile
func (uc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.GetProfile(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile
func (uc *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.UpdateProfile(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RegisterSemester handles POST /api/users/semester-registration
func (uc *UserProfileController) RegisterSemester(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Semester string `json:"semester"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.RegisterForSemester(r.Context(), caller, req.Semester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully registered for semester",
		"user":    user,
	})
}

// SearchUsers handles GET /api/users/search
func (uc *UserProfileController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := uc.Service.SearchUsers(r.Context(), caller, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// ListHosts handles GET /api/users/hosts
func (uc *UserProfileController) ListHosts(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	filters := services.HostDirectoryFilters{
		Location:  query.Get("location"),
		Limit:     parseLimit(query.Get("limit")),
		NextToken: query.Get("nextToken"),
	}
	if v := query.Get("verified"); v != "" {
		verified := v == "true"
		filters.Verified = &verified
	}

	hosts, nextToken, err := uc.Service.HostDirectory(r.Context(), caller, filters)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hosts":     hosts,
		"count":     len(hosts),
		"nextToken": nextToken,
	})
}

// GetUserByID handles GET /api/users/{userId}
func (uc *UserProfileController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.GetUserByID(r.Context(), caller, mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /api/admin/users
func (uc *UserProfileController) CreateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if caller.Role != models.RoleAdmin {
		writeError(w, models.ErrUnauthorized)
		return
	}

	var user models.User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, err)
		return
	}

	created, err := uc.Service.CreateUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListUsers handles GET /api/admin/users
func (uc *UserProfileController) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	role := query.Get("role")
	if role == "" {
		role = models.RoleStudent
	}

	users, nextToken, err := uc.Service.ListUsersByRole(r.Context(), caller, role, services.Page{
		Limit: parseLimit(query.Get("limit")),
		Token: query.Get("nextToken"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":     users,
		"count":     len(users),
		"nextToken": nextToken,
	})
}

// UpdateUser handles PUT /api/admin/users/{userId}
func (uc *UserProfileController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.AdminUpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.UpdateUser(r.Context(), caller, mux.Vars(r)["userId"], req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated",
		"user":    user,
	})
}

// GetAdminStats handles GET /api/admin/stats
func (uc *UserProfileController) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := uc.Service.AdminStats(r.Context(), caller, r.URL.Query().Get("semester"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DeactivateUser handles DELETE /api/admin/users/{userId}
func (uc *UserProfileController) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := uc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := uc.Service.DeactivateUser(r.Context(), caller, mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deactivated",
		"user":    user,
	})
}
