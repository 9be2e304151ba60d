package routes

import (
	"github.com/gheetdufa/ifad-portal-sub001/controllers"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match listings under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, auth *controllers.Auth) {
	controller := controllers.NewMatchController(matchService, auth)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("", controller.ListMatches).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", controller.GetMatch).Methods("GET")
}
