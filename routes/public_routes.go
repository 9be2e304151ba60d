package routes

import (
	"github.com/gheetdufa/ifad-portal-sub001/controllers"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterPublicRoutes sets up the unauthenticated read surfaces under /api/public
func RegisterPublicRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewPublicController(userProfileService)

	publicRouter := r.PathPrefix("/api/public").Subrouter()
	publicRouter.HandleFunc("/hosts", controller.GetHosts).Methods("GET")
	publicRouter.HandleFunc("/stats", controller.GetStats).Methods("GET")
}
