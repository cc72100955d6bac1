package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simaogato/fundflow-backend/internal/usecase/scenario"
)

// Handler is the HTTP adapter entrypoint for the scenario usecases
type Handler struct {
	service *scenario.ScenarioService
}

// NewHandler constructs an HTTP handler bound to the scenario service
func NewHandler(service *scenario.ScenarioService) *Handler {
	return &Handler{service: service}
}

// NewRouter registers routes and the middleware stack
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", handler.validate)
		r.Post("/build", handler.build)
		r.Post("/irr", handler.irr)
		r.Post("/evaluate", handler.evaluate)
	})

	return r
}
