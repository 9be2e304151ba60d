package controllers

import (
	"net/http"

	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for match creation and listings
type MatchController struct {
	Service *services.MatchService
	Auth    *Auth
}

// NewMatchController creates a new MatchController instance
func NewMatchController(service *services.MatchService, auth *Auth) *MatchController {
	return &MatchController{Service: service, Auth: auth}
}

// CreateMatch handles POST /api/applications/{applicationId}/match
func (mc *MatchController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	caller, err := mc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req services.CreateMatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	match, err := mc.Service.CreateMatch(r.Context(), caller, mux.Vars(r)["applicationId"], req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Match created successfully",
		"matchId": match.MatchID,
		"match":   match,
	})
}

// GetMatch handles GET /api/matches/{matchId}
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	caller, err := mc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	match, err := mc.Service.GetMatch(r.Context(), caller, mux.Vars(r)["matchId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// ListMatches handles GET /api/matches
func (mc *MatchController) ListMatches(w http.ResponseWriter, r *http.Request) {
	caller, err := mc.Auth.Caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	query := r.URL.Query()
	matches, nextToken, err := mc.Service.ListMatches(r.Context(), caller, services.ListMatchesRequest{
		Limit:     parseLimit(query.Get("limit")),
		NextToken: query.Get("nextToken"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches":   matches,
		"count":     len(matches),
		"nextToken": nextToken,
	})
}
