package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/apotekanet/crm-api/internal/auth"
	"github.com/apotekanet/crm-api/internal/dashboard"
	"github.com/apotekanet/crm-api/internal/pharmacy"
	"github.com/apotekanet/crm-api/internal/profile"
	"github.com/apotekanet/crm-api/internal/store"
	"github.com/apotekanet/crm-api/internal/utils/db"
	"github.com/apotekanet/crm-api/internal/visit"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("could not connect to the database:", err)
	}

	if err := database.AutoMigrate(
		&profile.Profile{},
		&pharmacy.Pharmacy{},
		&visit.Visit{},
		&auth.RefreshToken{},
	); err != nil {
		log.Fatal("automigrate failed:", err)
	}

	gw := store.New(database)

	profileHandler := profile.NewHandler(database)
	pharmacyHandler := pharmacy.NewHandler(database)
	visitHandler := visit.NewHandler(database)
	dashboardHandler := dashboard.NewHandler(gw)

	r := mux.NewRouter()

	// Public auth routes
	r.HandleFunc("/auth/login", profileHandler.Login).Methods("POST")
	r.HandleFunc("/auth/refresh", auth.RefreshHTTPHandler(database)).Methods("POST")
	r.HandleFunc("/auth/logout", auth.LogoutHTTPHandler(database)).Methods("POST")

	// Everything below requires a valid access token
	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	api.HandleFunc("/auth/me", profileHandler.Me).Methods("GET")

	api.HandleFunc("/pharmacies", pharmacyHandler.Create).Methods("POST")
	api.HandleFunc("/pharmacies", pharmacyHandler.List).Methods("GET")
	api.HandleFunc("/pharmacies/options", pharmacyHandler.Options).Methods("GET")
	api.HandleFunc("/pharmacies/{id}", pharmacyHandler.FindByID).Methods("GET")
	api.HandleFunc("/pharmacies/{id}", pharmacyHandler.Update).Methods("PUT")
	api.HandleFunc("/pharmacies/{id}", pharmacyHandler.Delete).Methods("DELETE")

	api.HandleFunc("/visits", visitHandler.Create).Methods("POST")
	api.HandleFunc("/visits", visitHandler.List).Methods("GET")
	api.HandleFunc("/visits/{id}", visitHandler.FindByID).Methods("GET")
	api.HandleFunc("/visits/{id}", visitHandler.Update).Methods("PUT")
	api.HandleFunc("/visits/{id}", visitHandler.Delete).Methods("DELETE")

	api.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET")

	// User management is admin only
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.RequireUserManagement)
	admin.HandleFunc("/users", profileHandler.List).Methods("GET")
	admin.HandleFunc("/users", profileHandler.Create).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("CORS_ORIGIN")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Println("server listening on http://localhost:" + port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
