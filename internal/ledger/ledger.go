// Package ledger is the synchronization boundary around the pure transition
// functions in engine: every mutation is applied as an optimistic
// compare-and-swap transaction against the stored game record. Read the
// record and its version, run the transition, write the full next state
// conditioned on the version being unchanged; on conflict, re-read and retry
// the whole operation against the fresh record.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/homegame/platform/internal/domain"
	"github.com/homegame/platform/internal/engine"
	"github.com/homegame/platform/internal/repository"
	"github.com/google/uuid"
)

const defaultMaxAttempts = 5

// errVersionConflict signals a lost compare-and-swap race within one attempt.
var errVersionConflict = errors.New("game version conflict")

// TransitionFunc is one engine operation bound to its parameters, ready to
// run against whatever snapshot the current attempt reads.
type TransitionFunc func(game *domain.Game) (*engine.Result, error)

// Applier applies transitions atomically: game write, journal append (part of
// the document) and outbox insert commit in one transaction or not at all.
type Applier struct {
	games       repository.GameRepository
	outbox      repository.OutboxRepository
	runner      repository.TxRunner
	logger      *slog.Logger
	maxAttempts int
}

// NewApplier creates an Applier with the default retry budget.
func NewApplier(games repository.GameRepository, outbox repository.OutboxRepository, runner repository.TxRunner, logger *slog.Logger) *Applier {
	return &Applier{
		games:       games,
		outbox:      outbox,
		runner:      runner,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

// Create persists a new game together with its created outbox event.
func (a *Applier) Create(ctx context.Context, game *domain.Game) error {
	err := a.runner.InTx(ctx, func(tx repository.DBTX) error {
		if err := a.games.Create(ctx, tx, game); err != nil {
			return err
		}
		return a.outbox.Insert(ctx, tx, domain.NewGameCreatedEvent(game))
	})
	if err != nil {
		return domain.ErrInternal("create game", err)
	}
	return nil
}

// Apply runs fn against the current stored record and commits the result.
// Domain errors from the transition pass through untouched. A lost version
// race is retried transparently up to the budget, after which the caller
// gets a Conflict error rather than a silently dropped request.
func (a *Applier) Apply(ctx context.Context, gameID uuid.UUID, fn TransitionFunc) (*domain.Game, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		var applied *domain.Game

		err := a.runner.InTx(ctx, func(tx repository.DBTX) error {
			game, version, err := a.games.FindByID(ctx, tx, gameID)
			if err != nil {
				return fmt.Errorf("read game: %w", err)
			}
			if game == nil {
				return domain.ErrNotFound("game", gameID.String())
			}

			result, err := fn(game)
			if err != nil {
				return err
			}

			ok, err := a.games.UpdateVersioned(ctx, tx, result.Game, version)
			if err != nil {
				return fmt.Errorf("write game: %w", err)
			}
			if !ok {
				return errVersionConflict
			}

			if err := a.outbox.Insert(ctx, tx, domain.NewGameUpdatedEvent(result.Game, result.Event)); err != nil {
				return fmt.Errorf("insert outbox event: %w", err)
			}

			applied = result.Game
			return nil
		})

		if err == nil {
			return applied, nil
		}
		if errors.Is(err, errVersionConflict) {
			a.logger.Debug("game update lost version race, retrying",
				"game_id", gameID, "attempt", attempt)
			continue
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, domain.ErrInternal("apply game transition", err)
	}

	return nil, domain.ErrConflict("game was modified concurrently, try again")
}
