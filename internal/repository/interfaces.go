package repository

import (
	"context"

	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxRunner runs a function inside a database transaction. The synchronization
// boundary depends on this instead of a concrete pool so its retry loop is
// testable without a database.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx DBTX) error) error
}

// GameRepository provides access to the games table. The aggregate is stored
// whole as a jsonb document alongside a version counter; every write replaces
// the complete document, so readers never observe a partially updated game.
type GameRepository interface {
	// Create inserts a new game at version 1.
	Create(ctx context.Context, db DBTX, game *domain.Game) error

	// FindByID returns the game and its current version, or (nil, 0, nil)
	// when the id is unknown.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, int64, error)

	// UpdateVersioned writes the full document conditioned on the stored
	// version still being expectedVersion. Returns false on a version
	// mismatch (concurrent writer won the race).
	UpdateVersioned(ctx context.Context, db DBTX, game *domain.Game, expectedVersion int64) (bool, error)

	// ListByCreator returns games hosted by the given user, newest first.
	ListByCreator(ctx context.Context, db DBTX, creatorID uuid.UUID, limit int) ([]domain.Game, error)
}

// UserRepository provides access to the users table.
type UserRepository interface {
	// FindByEmail returns a user by email, or nil when unknown.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.User, error)

	// FindByID returns a user by id, or nil when unknown.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)

	// Create inserts a new user.
	Create(ctx context.Context, db DBTX, user *domain.User) error
}

// OutboxRow is an outbox event plus its table sequence id.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// game write it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublishedRows returns pending events for the outbox poller.
	FetchUnpublishedRows(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished removes delivered events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
