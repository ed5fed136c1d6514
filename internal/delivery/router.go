package delivery

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authDelivery "checkers_backend/internal/delivery/auth"
	gameDelivery "checkers_backend/internal/delivery/game"
	ownMiddleware "checkers_backend/internal/middleware"
)

type Handlers struct {
	Auth     *authDelivery.AuthHandler
	Game     *gameDelivery.GameHandler
	Sessions ownMiddleware.SessionResolver
}

// Router mounts every route of the server. isLocalCors opens the API to a
// frontend served from another origin.
func (h *Handlers) Router(log *zap.SugaredLogger, isLocalCors bool) *chi.Mux {
	r := chi.NewRouter()
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)
	r.Post("/logout", h.Auth.Logout)
	r.Get("/leaderboard", h.Auth.Leaderboard)
	r.Get("/players/{id}", h.Auth.GetPlayer)

	r.Group(func(r chi.Router) {
		r.Use(ownMiddleware.RequireSession(h.Sessions, log))

		r.Get("/me", h.Auth.Me)
		r.Route("/games", func(r chi.Router) {
			r.Post("/", h.Game.HandleNewGame)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Game.GetGame)
				r.Post("/select", h.Game.Select)
				r.Post("/move", h.Game.Move)
				r.Post("/opponent", h.Game.Opponent)
				r.Get("/moves", h.Game.Moves)
				r.Get("/ws", h.Game.HandleWS)
			})
		})
	})

	return r
}
