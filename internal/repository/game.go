package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type gameRepo struct{}

// NewGameRepository returns a pgx-backed GameRepository.
func NewGameRepository() GameRepository {
	return &gameRepo{}
}

func (r *gameRepo) Create(ctx context.Context, db DBTX, game *domain.Game) error {
	doc, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO games (id, status, creator_id, small_blind, big_blind, version, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $8)`,
		game.ID,
		string(game.Status),
		game.CreatorID,
		Int64ToNumeric(game.SmallBlind),
		Int64ToNumeric(game.BigBlind),
		doc,
		game.CreatedAt,
		game.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *gameRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Game, int64, error) {
	var doc []byte
	var version int64
	err := db.QueryRow(ctx, `SELECT doc, version FROM games WHERE id = $1`, id).Scan(&doc, &version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("select game: %w", err)
	}

	var game domain.Game
	if err := json.Unmarshal(doc, &game); err != nil {
		return nil, 0, fmt.Errorf("unmarshal game: %w", err)
	}
	return &game, version, nil
}

func (r *gameRepo) UpdateVersioned(ctx context.Context, db DBTX, game *domain.Game, expectedVersion int64) (bool, error) {
	doc, err := json.Marshal(game)
	if err != nil {
		return false, fmt.Errorf("marshal game: %w", err)
	}

	tag, err := db.Exec(ctx, `
		UPDATE games
		SET status = $2, doc = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $4`,
		game.ID,
		string(game.Status),
		doc,
		expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("update game: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *gameRepo) ListByCreator(ctx context.Context, db DBTX, creatorID uuid.UUID, limit int) ([]domain.Game, error) {
	rows, err := db.Query(ctx, `
		SELECT doc FROM games
		WHERE creator_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		var game domain.Game
		if err := json.Unmarshal(doc, &game); err != nil {
			return nil, fmt.Errorf("unmarshal game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
