package routes

import (
	"github.com/gheetdufa/ifad-portal-sub001/controllers"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterApplicationRoutes sets up routes for the application workflow under /api/applications
func RegisterApplicationRoutes(r *mux.Router, applicationService *services.ApplicationService, matchService *services.MatchService, auth *controllers.Auth) {
	applicationController := controllers.NewApplicationController(applicationService, auth)
	matchController := controllers.NewMatchController(matchService, auth)

	applicationRouter := r.PathPrefix("/api/applications").Subrouter()

	applicationRouter.HandleFunc("", applicationController.SubmitApplication).Methods("POST")
	applicationRouter.HandleFunc("", applicationController.ListApplications).Methods("GET")
	applicationRouter.HandleFunc("/{applicationId}", applicationController.GetApplication).Methods("GET")
	applicationRouter.HandleFunc("/{applicationId}", applicationController.UpdateApplication).Methods("PUT")
	applicationRouter.HandleFunc("/{applicationId}/review", applicationController.ReviewApplication).Methods("POST")
	applicationRouter.HandleFunc("/{applicationId}/withdraw", applicationController.WithdrawApplication).Methods("POST")
	applicationRouter.HandleFunc("/{applicationId}/match", matchController.CreateMatch).Methods("POST")
}
