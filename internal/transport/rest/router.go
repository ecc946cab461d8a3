package rest

import (
	"dcasassess/internal/service"
	"dcasassess/internal/transport/rest/handler"
	"dcasassess/internal/transport/rest/middleware"
	"dcasassess/internal/transport/ws"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService
	StatsService   *service.StatsService
	UserService    *service.UserService
	WSHub          *ws.Hub
	AllowedOrigins []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.UserService)
	adminHandler := handler.NewAdminHandler(c.StatsService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":     "ok",
			"adminFeeds": c.WSHub.Count(),
		})
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(authMW.Identify)

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/assessment/user", sessionHandler.RegisterUser).Methods("POST")
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST")
	v1.HandleFunc("/sessions/direct", sessionHandler.SubmitDirect).Methods("POST")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/admin", wsHandler.AdminWS).Methods("GET")

	// Session routes (admin or session-token holder, decided per session)
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Action).Methods("POST")

	// Admin routes
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/sessions/{id}/abandon", sessionHandler.Abandon).Methods("POST")
	adminRoutes.HandleFunc("/admin/stats", adminHandler.Stats).Methods("GET")
	adminRoutes.HandleFunc("/reports", adminHandler.Reports).Methods("GET")
	adminRoutes.HandleFunc("/reports", adminHandler.DeleteReports).Methods("DELETE")
	adminRoutes.HandleFunc("/reports/export.csv", adminHandler.ExportCSV).Methods("GET")
	adminRoutes.HandleFunc("/users", adminHandler.Users).Methods("GET")

	origins := c.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsMW := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.SessionTokenHeader},
		AllowCredentials: true,
	})

	return corsMW.Handler(r)
}
