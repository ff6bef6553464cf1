package http

import (
	"net/http"

	"bto-portal-backend/internal/security"
	"bto-portal-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the router needs.
type Services struct {
	Auth         service.AuthService
	Project      service.ProjectService
	Application  service.ApplicationService
	Registration service.RegistrationService
	Notification service.NotificationService
	Tokens       security.TokenManager
}

// NewRouter builds the full API route table.
func NewRouter(svcs *Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	authHandler := NewAuthHandler(svcs.Auth)
	projectHandler := NewProjectHandler(svcs.Project)
	appHandler := NewApplicationHandler(svcs.Application)
	regHandler := NewRegistrationHandler(svcs.Registration)
	noteHandler := NewNotificationHandler(svcs.Notification)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Public endpoints
	public := r.PathPrefix("/api/v1").Subrouter()
	public.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	public.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	public.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")

	// Authenticated endpoints
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(svcs.Tokens))

	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects", projectHandler.ListOpen).Methods("GET")
	api.HandleFunc("/projects/all", projectHandler.ListAll).Methods("GET")
	api.HandleFunc("/projects/{id}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{id}/visibility", projectHandler.SetVisibility).Methods("PUT")
	api.HandleFunc("/projects/{id}/eligibility", projectHandler.EligibleFlatTypes).Methods("GET")
	api.HandleFunc("/projects/{id}/applications", appHandler.ListByProject).Methods("GET")
	api.HandleFunc("/projects/{id}/registrations", regHandler.ListByProject).Methods("GET")

	api.HandleFunc("/applications", appHandler.Apply).Methods("POST")
	api.HandleFunc("/applications/mine", appHandler.ListMine).Methods("GET")
	api.HandleFunc("/applications/{id}", appHandler.Get).Methods("GET")
	api.HandleFunc("/applications/{id}/decision", appHandler.Decide).Methods("POST")
	api.HandleFunc("/applications/{id}/booking", appHandler.Book).Methods("POST")
	api.HandleFunc("/applications/{id}/withdrawal", appHandler.RequestWithdrawal).Methods("POST")
	api.HandleFunc("/applications/{id}/withdrawal/decision", appHandler.ResolveWithdrawal).Methods("POST")

	api.HandleFunc("/registrations", regHandler.Register).Methods("POST")
	api.HandleFunc("/registrations/mine", regHandler.ListMine).Methods("GET")
	api.HandleFunc("/registrations/{id}/decision", regHandler.Decide).Methods("POST")

	api.HandleFunc("/notifications", noteHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", noteHandler.MarkAsRead).Methods("POST")

	return r
}
