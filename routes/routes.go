package routes

import (
	"github.com/bcvictoria/tournament-system/handlers"
	"github.com/bcvictoria/tournament-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Entrant   *handlers.EntrantHandler
	Pool      *handlers.PoolHandler
	Knockout  *handlers.KnockoutHandler
	Schedule  *handlers.ScheduleHandler
	WebSocket *handlers.WebSocketHandler
}

// SetupRoutes wires the HTTP surface. Reads are public so the hall display
// works without a token; every mutation sits behind organizer auth.
func SetupRoutes(h Handlers, auth *middleware.Authenticator) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Get("/ws/{event}", h.WebSocket.Subscribe)

	router.Route("/events/{event}", func(r chi.Router) {
		r.Get("/entrants", h.Entrant.ListByEvent)
		r.Get("/seeding/suggest", h.Entrant.SuggestSeeding)
		r.Get("/pools", h.Pool.Get)
		r.Get("/standings", h.Pool.Standings)
		r.Get("/knockout", h.Knockout.Get)
		r.Get("/schedule/next", h.Schedule.RecommendNext)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireOrganizer)

			r.Put("/seeding", h.Entrant.SetSeeding)
			r.Post("/pools", h.Pool.Generate)
			r.Post("/knockout", h.Knockout.Generate)
			r.Put("/knockout/stages/{stage}/scores", h.Knockout.SaveStageScores)
			r.Put("/knockout/stages/{stage}/format", h.Knockout.SetStageFormat)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireOrganizer)

		r.Post("/entrants", h.Entrant.Create)
		r.Put("/entrants/{id}/levels", h.Entrant.UpdateLevels)
		r.Delete("/entrants/{id}", h.Entrant.Delete)
		r.Put("/pool-matches/{id}/score", h.Pool.SaveScore)
		r.Put("/pool-matches/{id}/playing", h.Schedule.SetPlaying)
	})

	return router
}
