package app

import (
	"log/slog"
	"time"

	"github.com/homegame/platform/internal/auth"
	"github.com/homegame/platform/internal/guard"
	"github.com/homegame/platform/internal/handler"
	"github.com/homegame/platform/internal/infra"
	"github.com/homegame/platform/internal/ledger"
	"github.com/homegame/platform/internal/repository"
	"github.com/homegame/platform/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	JWTMgr *auth.JWTManager
	Hub    *infra.WSHub
	Logger *slog.Logger

	RequestRateLimit  int
	RequestRateWindow time.Duration
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	gameRepo := repository.NewGameRepository()
	userRepo := repository.NewUserRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Ledger applier: every game mutation commits through it
	applier := ledger.NewApplier(gameRepo, outboxRepo, repository.NewPgxTxRunner(pool), logger)

	// Services
	authSvc := service.NewAuthService(pool, userRepo, outboxRepo, jwtMgr)
	gameSvc := service.NewGameService(pool, gameRepo, applier, deps.Hub, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	gameHandler := handler.NewGameHandler(gameSvc)
	wsHandler := handler.NewWSHandler(deps.Hub, jwtMgr, logger)

	requestLimiter := guard.NewRateLimiter(deps.RequestRateLimit, deps.RequestRateWindow)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// WebSocket subscription (token carried in query string, upgrade skips the
	// JSON content-type middleware)
	r.Get("/games/{id}/ws", wsHandler.Subscribe)

	r.Group(func(r chi.Router) {
		r.Use(handler.JSONContentType)

		// Auth routes (no auth)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(jwtMgr))

			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.CreateGame)
				r.Get("/", gameHandler.ListGames)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", gameHandler.GetGame)
					r.Get("/history", gameHandler.GetHistory)
					r.Get("/settlement", gameHandler.GetSettlement)
					r.Post("/end", gameHandler.EndGame)

					// Player-facing request submission is rate limited
					r.Group(func(r chi.Router) {
						r.Use(handler.RateLimit(requestLimiter))
						r.Post("/buy-ins", gameHandler.RequestBuyIn)
						r.Post("/cash-outs", gameHandler.RequestCashOut)
					})

					// Host resolutions
					r.Post("/buy-ins/{requestID}/approve", gameHandler.ApproveBuyIn)
					r.Post("/buy-ins/{requestID}/decline", gameHandler.DeclineBuyIn)
					r.Post("/cash-outs/{requestID}/process", gameHandler.ProcessCashOut)
					r.Post("/host/buy-ins", gameHandler.HostBuyIn)
					r.Post("/host/cash-outs", gameHandler.HostCashOut)
					r.Patch("/players/{playerID}", gameHandler.UpdatePlayer)
				})
			})
		})
	})

	return r
}
