package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/officegames/rating-system/handlers"
	"github.com/officegames/rating-system/middleware"
	"github.com/officegames/rating-system/models"
	"github.com/officegames/rating-system/services"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Game        *handlers.GameHandler
	Season      *handlers.SeasonHandler
	Match       *handlers.MatchHandler
	Leaderboard *handlers.LeaderboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func Setup(router *chi.Mux, h Handlers, auth services.AuthService, allowedOrigins []string, registry *prometheus.Registry) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Get("/offices", h.Game.ListOffices)
	router.Get("/offices/{officeID}/games", h.Game.ListByOffice)

	router.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/", h.Game.GetByID)
		r.Get("/leaderboard", h.Leaderboard.GetPage)
		r.Get("/matches", h.Match.ListByGame)
		r.Get("/ws", h.WebSocket.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))
			r.Post("/matches", h.Match.Record)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Use(middleware.Authenticate(auth))
		r.Delete("/{matchID}", h.Match.Delete)
	})

	router.Route("/seasons", func(r chi.Router) {
		r.Get("/{seasonID}", h.Season.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))
			r.Use(middleware.Authorize(models.RoleAdmin))
			r.Post("/", h.Season.Create)
			r.Delete("/{seasonID}", h.Season.Delete)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", h.User.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth))
			r.Post("/avatar", h.User.UploadAvatar)
		})
	})

	router.Route("/guests", func(r chi.Router) {
		r.Use(middleware.Authenticate(auth))
		r.Post("/", h.User.CreateGuest)
		r.Post("/{guestID}/claim", h.User.ClaimGuest)
	})
}
