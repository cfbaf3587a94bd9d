package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/permits/config"
	"p9e.in/permits/handlers"
	"p9e.in/permits/middleware"
	"p9e.in/permits/models"
)

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole([]string{models.RoleAdmin}, h)
}

func RegisterRoutes() http.Handler {
	handlers.Init(models.NewPermitService(config.DB))

	r := mux.NewRouter()

	// Public routes (no authentication required)
	r.HandleFunc("/api/v1/register", handlers.Register).Methods("POST")
	r.HandleFunc("/api/v1/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// Protected API routes (require authentication)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	// Permit applications
	api.HandleFunc("/permits", handlers.CreatePermit).Methods("POST")
	api.HandleFunc("/permits", handlers.ListPermits).Methods("GET")
	api.Handle("/permits/export", adminOnly(handlers.ExportPermits)).Methods("GET")
	api.HandleFunc("/permits/{id}", handlers.GetPermit).Methods("GET")
	api.HandleFunc("/permits/{id}", handlers.UpdatePermit).Methods("PUT")

	// Attachments
	api.HandleFunc("/permits/{id}/files", handlers.UploadPermitFile).Methods("POST")
	api.HandleFunc("/permits/{id}/files", handlers.ListPermitFiles).Methods("GET")

	// Review (admin only)
	api.Handle("/permits/{id}/review", adminOnly(handlers.ReviewPermit)).Methods("GET")
	api.Handle("/permits/{id}/decision", adminOnly(handlers.DecidePermit)).Methods("POST")

	return r
}
