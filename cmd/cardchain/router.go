package main

import (
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/api"
	apiMiddleware "github.com/ferrerallan/christmas-card-chain/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	cardHandler := api.NewCardHandler(app.cards, app.logger)

	r.Get("/", cardHandler.ShowForm)
	r.Route("/api", func(r chi.Router) {
		r.Post("/cards", cardHandler.CreateCard)
	})

	r.Get("/health", api.Health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
