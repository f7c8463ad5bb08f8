package service

import (
	"context"
	"log/slog"

	"github.com/homegame/platform/internal/domain"
	"github.com/homegame/platform/internal/engine"
	"github.com/homegame/platform/internal/infra"
	"github.com/homegame/platform/internal/ledger"
	"github.com/homegame/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameService exposes the game operations to the transport layer. Mutations
// go through the ledger applier; after each commit the full updated record is
// published to the game's websocket room.
type GameService struct {
	pool    *pgxpool.Pool
	games   repository.GameRepository
	applier *ledger.Applier
	hub     *infra.WSHub
	logger  *slog.Logger
}

// NewGameService creates a GameService.
func NewGameService(pool *pgxpool.Pool, games repository.GameRepository, applier *ledger.Applier, hub *infra.WSHub, logger *slog.Logger) *GameService {
	return &GameService{
		pool:    pool,
		games:   games,
		applier: applier,
		hub:     hub,
		logger:  logger,
	}
}

// CreateGameInput holds the game creation fields. Blinds are optional stakes
// metadata in cents.
type CreateGameInput struct {
	SmallBlind int64 `json:"small_blind"`
	BigBlind   int64 `json:"big_blind"`
}

// Create starts a new game hosted by the acting user.
func (s *GameService) Create(ctx context.Context, creatorID uuid.UUID, creatorName string, input CreateGameInput) (*domain.Game, error) {
	if err := domain.ValidateStakes(input.SmallBlind, input.BigBlind); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	game := domain.NewGame(creatorID, creatorName, input.SmallBlind, input.BigBlind)
	if err := s.applier.Create(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created", "game_id", game.ID, "creator_id", creatorID)
	s.publish(game)
	return game, nil
}

// Get returns the full aggregate snapshot.
func (s *GameService) Get(ctx context.Context, gameID uuid.UUID) (*domain.Game, error) {
	game, _, err := s.games.FindByID(ctx, s.pool, gameID)
	if err != nil {
		return nil, domain.ErrInternal("read game", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound("game", gameID.String())
	}
	return game, nil
}

// ListByCreator returns games hosted by the given user, newest first.
func (s *GameService) ListByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]domain.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	games, err := s.games.ListByCreator(ctx, s.pool, creatorID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list games", err)
	}
	return games, nil
}

// History returns journal entries, most recent first.
func (s *GameService) History(ctx context.Context, gameID uuid.UUID, limit int) ([]domain.GameEvent, error) {
	game, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.HistoryView(limit), nil
}

// Settlement returns the cached settlement transactions of a Completed game.
func (s *GameService) Settlement(ctx context.Context, gameID uuid.UUID) ([]domain.SettlementTransaction, error) {
	game, err := s.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != domain.GameCompleted {
		return nil, domain.ErrNotFound("settlement for game", gameID.String())
	}
	if game.SettlementTransactions == nil {
		return []domain.SettlementTransaction{}, nil
	}
	return game.SettlementTransactions, nil
}

// RequestBuyIn submits a pending buy-in request.
func (s *GameService) RequestBuyIn(ctx context.Context, gameID, userID uuid.UUID, displayName string, amount int64) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.RequestBuyIn(game, userID, displayName, amount)
	})
}

// ApproveBuyIn approves a pending buy-in request (host only).
func (s *GameService) ApproveBuyIn(ctx context.Context, gameID, actorID, requestID uuid.UUID) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.ApproveBuyIn(game, actorID, requestID)
	})
}

// DeclineBuyIn declines a pending buy-in request (host only).
func (s *GameService) DeclineBuyIn(ctx context.Context, gameID, actorID, requestID uuid.UUID) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.DeclineBuyIn(game, actorID, requestID)
	})
}

// RequestCashOut submits a pending cash-out request.
func (s *GameService) RequestCashOut(ctx context.Context, gameID, userID uuid.UUID, amount int64) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.RequestCashOut(game, userID, amount)
	})
}

// ProcessCashOut confirms a pending cash-out request (host only).
func (s *GameService) ProcessCashOut(ctx context.Context, gameID, actorID, requestID uuid.UUID) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.ProcessCashOut(game, actorID, requestID)
	})
}

// HostBuyIn records the host's own buy-in or rebuy.
func (s *GameService) HostBuyIn(ctx context.Context, gameID, actorID uuid.UUID, displayName string, amount int64) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.HostBuyIn(game, actorID, displayName, amount)
	})
}

// HostCashOut force-resolves an active seat at a stated amount (host only).
func (s *GameService) HostCashOut(ctx context.Context, gameID, actorID, playerID uuid.UUID, amount int64) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.HostCashOut(game, actorID, playerID, amount)
	})
}

// UpdatePlayerValues overwrites a seat's stack and cumulative buy-in (host only).
func (s *GameService) UpdatePlayerValues(ctx context.Context, gameID, actorID, playerID uuid.UUID, newCurrentStack, newTotalBuyIn int64) (*domain.Game, error) {
	return s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.UpdatePlayerValues(game, actorID, playerID, newCurrentStack, newTotalBuyIn)
	})
}

// End completes the game and caches the settlement (host only).
func (s *GameService) End(ctx context.Context, gameID, actorID uuid.UUID) (*domain.Game, error) {
	game, err := s.apply(ctx, gameID, func(game *domain.Game) (*engine.Result, error) {
		return engine.EndGame(game, actorID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("game ended",
		"game_id", gameID,
		"players", len(game.Players),
		"settlement_transactions", len(game.SettlementTransactions),
	)
	return game, nil
}

func (s *GameService) apply(ctx context.Context, gameID uuid.UUID, fn ledger.TransitionFunc) (*domain.Game, error) {
	game, err := s.applier.Apply(ctx, gameID, fn)
	if err != nil {
		return nil, err
	}
	s.publish(game)
	return game, nil
}

func (s *GameService) publish(game *domain.Game) {
	s.hub.Publish(infra.GameRoom(game.ID.String()), "game.updated", game)
}
