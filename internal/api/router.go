package api

import (
	"net/http"

	"nearest-hub-service/internal/api/handlers"
	"nearest-hub-service/internal/ports"
	"nearest-hub-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(ranker *services.Ranker, hubs ports.HubRepository) http.Handler {
	mux := http.NewServeMux()

	hubHandler := &handlers.HubHandler{Repo: hubs}
	nearestHandler := &handlers.NearestHandler{Ranker: ranker}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/hubs", hubHandler.List)
	mux.HandleFunc("/nearest-hubs", nearestHandler.Nearest)

	return loggingMiddleware(mux)
}
