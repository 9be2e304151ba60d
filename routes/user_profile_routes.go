package routes

import (
	"github.com/gheetdufa/ifad-portal-sub001/controllers"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profiles under /api/users and
// the admin user surfaces under /api/admin/users
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, auth *controllers.Auth) {
	controller := controllers.NewUserProfileController(userProfileService, auth)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/profile", controller.GetProfile).Methods("GET")
	userRouter.HandleFunc("/profile", controller.UpdateProfile).Methods("PUT")
	userRouter.HandleFunc("/semester-registration", controller.RegisterSemester).Methods("POST")
	userRouter.HandleFunc("/search", controller.SearchUsers).Methods("GET")
	userRouter.HandleFunc("/hosts", controller.ListHosts).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.GetUserByID).Methods("GET")

	adminRouter := r.PathPrefix("/api/admin/users").Subrouter()
	adminRouter.HandleFunc("", controller.CreateUser).Methods("POST")
	adminRouter.HandleFunc("", controller.ListUsers).Methods("GET")
	adminRouter.HandleFunc("/{userId}", controller.UpdateUser).Methods("PUT")
	adminRouter.HandleFunc("/{userId}", controller.DeactivateUser).Methods("DELETE")

	r.HandleFunc("/api/admin/stats", controller.GetAdminStats).Methods("GET")
}
