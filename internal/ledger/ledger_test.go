package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/homegame/platform/internal/domain"
	"github.com/homegame/platform/internal/engine"
	"github.com/homegame/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTxRunner executes the function directly; the fakes below stand in for
// the transactional stores.
type fakeTxRunner struct{}

func (fakeTxRunner) InTx(ctx context.Context, fn func(tx repository.DBTX) error) error {
	return fn(nil)
}

// fakeGameRepo holds one game in memory and can be scripted to lose a given
// number of version races before accepting a write.
type fakeGameRepo struct {
	repository.GameRepository

	game      *domain.Game
	version   int64
	conflicts int

	reads  int
	writes int
}

func (f *fakeGameRepo) Create(ctx context.Context, db repository.DBTX, game *domain.Game) error {
	f.game = game.Clone()
	f.version = 1
	return nil
}

func (f *fakeGameRepo) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Game, int64, error) {
	f.reads++
	if f.game == nil || f.game.ID != id {
		return nil, 0, nil
	}
	return f.game.Clone(), f.version, nil
}

func (f *fakeGameRepo) UpdateVersioned(ctx context.Context, db repository.DBTX, game *domain.Game, expectedVersion int64) (bool, error) {
	if f.conflicts > 0 {
		f.conflicts--
		// Simulate a concurrent writer bumping the stored version.
		f.version++
		return false, nil
	}
	if expectedVersion != f.version {
		return false, nil
	}
	f.writes++
	f.game = game.Clone()
	f.version++
	return true, nil
}

type fakeOutbox struct {
	repository.OutboxRepository
	drafts []domain.OutboxDraft
}

func (f *fakeOutbox) Insert(ctx context.Context, db repository.DBTX, draft domain.OutboxDraft) error {
	f.drafts = append(f.drafts, draft)
	return nil
}

func newTestApplier(games *fakeGameRepo, outbox *fakeOutbox) *Applier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApplier(games, outbox, fakeTxRunner{}, logger)
}

func hostBuyInTransition(hostID uuid.UUID) TransitionFunc {
	return func(game *domain.Game) (*engine.Result, error) {
		return engine.HostBuyIn(game, hostID, "Host", 10000)
	}
}

func TestApplierCreate(t *testing.T) {
	games := &fakeGameRepo{}
	outbox := &fakeOutbox{}
	applier := newTestApplier(games, outbox)

	game := domain.NewGame(uuid.New(), "Host", 0, 0)
	require.NoError(t, applier.Create(context.Background(), game))

	assert.Equal(t, int64(1), games.version)
	require.Len(t, outbox.drafts, 1)
	assert.Equal(t, domain.EventGameCreated, outbox.drafts[0].EventType)
	assert.Equal(t, game.ID.String(), outbox.drafts[0].PartitionKey)
}

func TestApplierApply(t *testing.T) {
	hostID := uuid.New()

	setup := func(t *testing.T) (*fakeGameRepo, *fakeOutbox, *Applier, *domain.Game) {
		games := &fakeGameRepo{}
		outbox := &fakeOutbox{}
		applier := newTestApplier(games, outbox)
		game := domain.NewGame(hostID, "Host", 0, 0)
		require.NoError(t, applier.Create(context.Background(), game))
		outbox.drafts = nil
		return games, outbox, applier, game
	}

	t.Run("commits the transition and one outbox event", func(t *testing.T) {
		games, outbox, applier, game := setup(t)

		updated, err := applier.Apply(context.Background(), game.ID, hostBuyInTransition(hostID))
		require.NoError(t, err)

		require.Len(t, updated.Players, 1)
		assert.Equal(t, int64(2), games.version)
		require.Len(t, outbox.drafts, 1)
		assert.Equal(t, domain.EventGameUpdated, outbox.drafts[0].EventType)
	})

	t.Run("ended transition emits the ended event type", func(t *testing.T) {
		_, outbox, applier, game := setup(t)

		updated, err := applier.Apply(context.Background(), game.ID, func(g *domain.Game) (*engine.Result, error) {
			return engine.EndGame(g, hostID)
		})
		require.NoError(t, err)

		assert.Equal(t, domain.GameCompleted, updated.Status)
		require.Len(t, outbox.drafts, 1)
		assert.Equal(t, domain.EventGameEnded, outbox.drafts[0].EventType)
	})

	t.Run("retries a lost version race and succeeds", func(t *testing.T) {
		games, outbox, applier, game := setup(t)
		games.conflicts = 2

		updated, err := applier.Apply(context.Background(), game.ID, hostBuyInTransition(hostID))
		require.NoError(t, err)

		assert.Len(t, updated.Players, 1)
		assert.Equal(t, 3, games.reads)
		assert.Equal(t, 1, games.writes)
		assert.Len(t, outbox.drafts, 1)
	})

	t.Run("exhausted retry budget surfaces CONFLICT", func(t *testing.T) {
		games, outbox, applier, game := setup(t)
		games.conflicts = 100

		_, err := applier.Apply(context.Background(), game.ID, hostBuyInTransition(hostID))

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.Empty(t, outbox.drafts)
	})

	t.Run("unknown game id", func(t *testing.T) {
		_, _, applier, _ := setup(t)

		_, err := applier.Apply(context.Background(), uuid.New(), hostBuyInTransition(hostID))

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("domain error from the transition passes through unwrapped", func(t *testing.T) {
		games, outbox, applier, game := setup(t)

		_, err := applier.Apply(context.Background(), game.ID, func(g *domain.Game) (*engine.Result, error) {
			return engine.HostBuyIn(g, uuid.New(), "Impostor", 10000)
		})

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UNAUTHORIZED", appErr.Code)
		assert.Equal(t, 1, games.reads)
		assert.Empty(t, outbox.drafts)
	})

	t.Run("infrastructure error becomes INTERNAL_ERROR", func(t *testing.T) {
		_, _, applier, game := setup(t)

		boom := errors.New("disk on fire")
		_, err := applier.Apply(context.Background(), game.ID, func(g *domain.Game) (*engine.Result, error) {
			return nil, boom
		})

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
		assert.ErrorIs(t, err, boom)
	})
}
