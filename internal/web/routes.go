package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/database"
	"github.com/facegate/facegate/internal/gallery"
	"github.com/facegate/facegate/internal/web/handlers"
	"github.com/facegate/facegate/internal/web/middleware"
)

func (s *Server) setupRoutes(svc *gallery.Service, notifier *database.Notifier) {
	peopleHandler := handlers.NewPeopleHandler(svc)
	recognizeHandler := handlers.NewRecognizeHandler(svc)
	eventsHandler := handlers.NewEventsHandler(notifier)
	statsHandler := handlers.NewStatsHandler(svc)

	s.router.Use(middleware.CORS())

	// Health check (no auth required).
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireToken(s.config.Server.APIToken))

		// People
		r.Get("/people", peopleHandler.List)
		r.Post("/people", peopleHandler.Enroll)
		r.Get("/people/{id}", peopleHandler.Get)
		r.Put("/people/{id}/photo", peopleHandler.UpdatePhoto)
		r.Delete("/people/{id}", peopleHandler.Delete)

		// Recognition
		r.Post("/recognize", recognizeHandler.Recognize)

		// Gallery change stream
		r.Get("/events", eventsHandler.Stream)

		// Stats
		r.Get("/stats", statsHandler.Get)
	})
}
