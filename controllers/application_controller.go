package controllers

import (
	"net/http"
	"strconv"

	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// ApplicationController handles HTTP requests for the application workflow
type ApplicationController struct {
	Service *services.ApplicationService
	Auth    *Auth
}

// NewApplicationController creates a new ApplicationController instance
func NewApplicationController(service *services.ApplicationService, auth *Auth) *ApplicationController {
	return &ApplicationController{Service: service, Auth: auth}
}

// SubmitApplication handles POST /api/applications
func (ac *ApplicationController) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.SubmitApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := ac.Service.SubmitApplication(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Application submitted successfully",
		"applicationId": app.ApplicationID,
		"application":   app,
	})
}

// ListApplications handles GET /api/applications
func (ac *ApplicationController) ListApplications(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	req := services.ListApplicationsRequest{
		Semester:  query.Get("semester"),
		Status:    query.Get("status"),
		NextToken: query.Get("nextToken"),
		Limit:     parseLimit(query.Get("limit")),
	}

	apps, nextToken, err := ac.Service.ListApplications(r.Context(), caller, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applications": apps,
		"count":        len(apps),
		"nextToken":    nextToken,
	})
}

// GetApplication handles GET /api/applications/{applicationId}
func (ac *ApplicationController) GetApplication(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := ac.Service.GetApplication(r.Context(), caller, mux.Vars(r)["applicationId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// UpdateApplication handles PUT /api/applications/{applicationId}
func (ac *ApplicationController) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.UpdateApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := ac.Service.UpdateApplication(r.Context(), caller, mux.Vars(r)["applicationId"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// ReviewApplication handles POST /api/applications/{applicationId}/review
func (ac *ApplicationController) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.ReviewApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	review, err := ac.Service.ReviewApplication(r.Context(), caller, mux.Vars(r)["applicationId"], req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Application reviewed successfully",
		"review":  review,
	})
}

// WithdrawApplication handles POST /api/applications/{applicationId}/withdraw
func (ac *ApplicationController) WithdrawApplication(w http.ResponseWriter, r *http.Request) {
	caller, err := ac.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := ac.Service.WithdrawApplication(r.Context(), caller, mux.Vars(r)["applicationId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func parseLimit(raw string) int32 {
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 0 {
		return 0
	}
	return int32(limit)
}
