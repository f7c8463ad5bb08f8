package engine

import (
	"github.com/homegame/platform/internal/domain"
	"github.com/homegame/platform/internal/settlement"
	"github.com/google/uuid"
)

// EndGame completes the game: it freezes the record, computes the settlement
// transaction list, and journals the Ended event. Host only.
//
// Ending is rejected while any seat is still Active — the host must resolve
// or force every cash-out first (ProcessCashOut / HostCashOut). Silently
// treating a live stack as zero would fabricate a house imbalance the
// settlement pass then redistributes to the winners.
func EndGame(game *domain.Game, actorID uuid.UUID) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}
	if game.HasActivePlayers() {
		return nil, domain.ErrValidation("cannot end game while players are still active; cash them out first")
	}

	next := game.Clone()
	now := nowFunc()
	next.Status = domain.GameCompleted
	next.SettlementTransactions = settlement.Compute(next.Players)

	ev := appendJournal(next, domain.GameEvent{
		ID:          uuid.New(),
		Kind:        domain.EventEnded,
		UserID:      actorID,
		Description: "game ended",
		Timestamp:   now,
	})

	return &Result{Game: next, Event: ev}, nil
}
