package engine

import (
	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
)

// UpdatePlayerValues is the host's correction tool: a direct overwrite of a
// seat's stack and cumulative buy-in, with no request involved. Host only,
// and never permitted once the game is Completed.
func UpdatePlayerValues(game *domain.Game, actorID, playerID uuid.UUID, newCurrentStack, newTotalBuyIn int64) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}
	if err := domain.ValidateNonNegativeAmount(newCurrentStack); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}
	if err := domain.ValidateNonNegativeAmount(newTotalBuyIn); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}

	next := game.Clone()
	player := next.PlayerByID(playerID)
	if player == nil {
		return nil, domain.ErrNotFound("player", playerID.String())
	}

	player.CurrentStack = newCurrentStack
	player.TotalBuyIn = newTotalBuyIn
	return &Result{Game: next}, nil
}
