package engine

import (
	"fmt"
	"time"

	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
)

// RequestCashOut appends a Pending cash-out request for an Active player.
// Amount is the chip count the player claims to be leaving with; zero is
// legal (busted).
func RequestCashOut(game *domain.Game, userID uuid.UUID, amount int64) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := domain.ValidateNonNegativeAmount(amount); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}
	player := game.ActivePlayerByUserID(userID)
	if player == nil {
		return nil, domain.ErrNotFound("active player", userID.String())
	}
	if game.HasPendingRequest(domain.RequestCashOutKind, userID) {
		return nil, domain.ErrAlreadyPending(domain.RequestCashOutKind)
	}

	next := game.Clone()
	next.CashOutRequests = append(next.CashOutRequests, domain.NewRequest(domain.RequestCashOutKind, userID, player.DisplayName, amount))
	return &Result{Game: next}, nil
}

// ProcessCashOut confirms a Pending cash-out: the request becomes Processed
// and the player's stack is frozen at the requested amount. Host only.
func ProcessCashOut(game *domain.Game, actorID, requestID uuid.UUID) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}

	next := game.Clone()
	req := next.RequestByID(domain.RequestCashOutKind, requestID)
	if req == nil {
		return nil, domain.ErrNotFound("cash-out request", requestID.String())
	}
	if req.Resolved() {
		return nil, domain.ErrAlreadyResolved(requestID.String())
	}
	player := next.ActivePlayerByUserID(req.UserID)
	if player == nil {
		return nil, domain.ErrNotFound("active player", req.UserID.String())
	}

	now := nowFunc()
	req.Status = domain.RequestProcessed
	req.ResolvedAt = &now
	cashOutPlayer(player, req.Amount, now)

	ev := appendJournal(next, domain.GameEvent{
		ID:          uuid.New(),
		Kind:        domain.EventCashOut,
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: fmt.Sprintf("%s cashed out for %d", player.DisplayName, req.Amount),
		Timestamp:   now,
	})

	return &Result{Game: next, Event: ev}, nil
}

// HostCashOut force-resolves an Active seat at a stated amount, without a
// request from the player. This is how the host clears stragglers before
// ending the game. Host only.
func HostCashOut(game *domain.Game, actorID, playerID uuid.UUID, amount int64) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}
	if err := domain.ValidateNonNegativeAmount(amount); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}

	next := game.Clone()
	player := next.PlayerByID(playerID)
	if player == nil {
		return nil, domain.ErrNotFound("player", playerID.String())
	}
	if player.Status != domain.PlayerActive {
		return nil, domain.ErrAlreadyResolved(playerID.String())
	}

	now := nowFunc()
	cashOutPlayer(player, amount, now)

	ev := appendJournal(next, domain.GameEvent{
		ID:          uuid.New(),
		Kind:        domain.EventPlayerLeft,
		UserID:      player.UserID,
		Amount:      amount,
		Description: fmt.Sprintf("%s was cashed out by the host for %d", player.DisplayName, amount),
		Timestamp:   now,
	})

	return &Result{Game: next, Event: ev}, nil
}

// cashOutPlayer freezes a seat: the stack becomes the cashed-out amount and
// the Active -> CashedOut transition happens exactly once.
func cashOutPlayer(player *domain.Player, amount int64, now time.Time) {
	player.CurrentStack = amount
	player.Status = domain.PlayerCashedOut
	t := now
	player.CashedOutAt = &t
}
