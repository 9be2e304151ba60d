package controllers

import (
	"net/http"

	"github.com/gheetdufa/ifad-portal-sub001/services"
)

// PublicController handles the unauthenticated read surfaces. These never
// fail: store trouble degrades to empty results.
type PublicController struct {
	Service *services.UserProfileService
}

// NewPublicController creates a new PublicController instance
func NewPublicController(service *services.UserProfileService) *PublicController {
	return &PublicController{Service: service}
}

// GetHosts handles GET /api/public/hosts
func (pc *PublicController) GetHosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := services.PublicHostFilters{
		Industry:               query.Get("industry"),
		Location:               query.Get("location"),
		CareerField:            query.Get("careerField"),
		RegisteredThisSemester: query.Get("registeredThisSemester") == "true",
		Limit:                  parseLimit(query.Get("limit")),
		NextToken:              query.Get("nextToken"),
	}

	hosts, nextToken := pc.Service.PublicHosts(r.Context(), filters)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hosts":     hosts,
		"count":     len(hosts),
		"nextToken": nextToken,
	})
}

// GetStats handles GET /api/public/stats
func (pc *PublicController) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pc.Service.PublicStats(r.Context()))
}
