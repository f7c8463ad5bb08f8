// Package engine implements the request state machine: pure transition
// functions over a Game snapshot. Each operation takes the current snapshot
// plus the acting identity, and returns either an updated deep copy or a
// typed domain error. Inputs are never mutated, so every operation is safe to
// retry when the synchronization boundary loses a compare-and-swap race.
package engine

import (
	"time"

	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
)

// nowFunc is swapped out in tests that pin timestamps.
var nowFunc = time.Now

// Result carries the next game state produced by one transition, plus the
// journal entry it appended (nil when the transition journals nothing, e.g. a
// request submission awaiting host action).
type Result struct {
	Game  *domain.Game
	Event *domain.GameEvent
}

// requireOpen rejects any mutation against a Completed game.
func requireOpen(game *domain.Game) error {
	if game.Status != domain.GameActive {
		return domain.ErrGameClosed()
	}
	return nil
}

// requireHost rejects host-only operations invoked by anyone else.
func requireHost(game *domain.Game, actorID uuid.UUID) error {
	if actorID != game.CreatorID {
		return domain.ErrUnauthorized("only the game host may perform this action")
	}
	return nil
}

// creditBuyIn applies an approved buy-in to the user's seat: a rebuy on an
// existing Active seat, or a fresh seat otherwise. Returns the seat and
// whether it was newly created.
func creditBuyIn(game *domain.Game, userID uuid.UUID, displayName string, amount int64) (*domain.Player, bool) {
	if p := game.ActivePlayerByUserID(userID); p != nil {
		p.CurrentStack += amount
		p.TotalBuyIn += amount
		return p, false
	}

	game.Players = append(game.Players, domain.Player{
		ID:           uuid.New(),
		UserID:       userID,
		DisplayName:  displayName,
		CurrentStack: amount,
		TotalBuyIn:   amount,
		Status:       domain.PlayerActive,
		JoinedAt:     nowFunc(),
	})
	return &game.Players[len(game.Players)-1], true
}

// appendJournal appends one journal entry and returns a copy for the Result.
func appendJournal(game *domain.Game, ev domain.GameEvent) *domain.GameEvent {
	game.History = domain.AppendEvent(game.History, ev)
	out := ev
	return &out
}
