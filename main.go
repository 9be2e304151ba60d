package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gheetdufa/ifad-portal-sub001/controllers"
	"github.com/gheetdufa/ifad-portal-sub001/routes"
	"github.com/gheetdufa/ifad-portal-sub001/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize the record store
	var store services.RecordStore
	if os.Getenv("USE_MEMORY_STORE") == "1" {
		log.Println("Using in-memory record store")
		store = services.NewMemoryStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		tableName := os.Getenv("DYNAMO_TABLE")
		if tableName == "" {
			log.Fatal("DYNAMO_TABLE is required")
		}
		store = &services.DynamoStore{
			Client:    services.InitializeDynamoDBClient(),
			TableName: tableName,
		}
		log.Println("DynamoDB client initialized.")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	auth := &controllers.Auth{Secret: []byte(secret)}

	// Initialize Services
	access := &services.AccessPatterns{Store: store}
	applicationService := &services.ApplicationService{Store: store, Access: access}
	matchService := &services.MatchService{Store: store, Access: access}
	userProfileService := &services.UserProfileService{Store: store, Access: access}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to the IFAD Portal")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterApplicationRoutes(r, applicationService, matchService, auth)
	routes.RegisterMatchRoutes(r, matchService, auth)
	routes.RegisterUserProfileRoutes(r, userProfileService, auth)
	routes.RegisterPublicRoutes(r, userProfileService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
