package engine

import (
	"fmt"

	"github.com/homegame/platform/internal/domain"
	"github.com/google/uuid"
)

// RequestBuyIn appends a Pending buy-in request for the user. It does not
// touch players — approval is a separate host step.
func RequestBuyIn(game *domain.Game, userID uuid.UUID, displayName string, amount int64) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}
	if game.HasPendingRequest(domain.RequestBuyInKind, userID) {
		return nil, domain.ErrAlreadyPending(domain.RequestBuyInKind)
	}

	next := game.Clone()
	next.BuyInRequests = append(next.BuyInRequests, domain.NewRequest(domain.RequestBuyInKind, userID, displayName, amount))
	return &Result{Game: next}, nil
}

// ApproveBuyIn transitions a Pending buy-in request to Approved and credits
// the requesting user's seat, creating one if needed. Host only.
func ApproveBuyIn(game *domain.Game, actorID, requestID uuid.UUID) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}

	next := game.Clone()
	req := next.RequestByID(domain.RequestBuyInKind, requestID)
	if req == nil {
		return nil, domain.ErrNotFound("buy-in request", requestID.String())
	}
	if req.Resolved() {
		return nil, domain.ErrAlreadyResolved(requestID.String())
	}

	now := nowFunc()
	req.Status = domain.RequestApproved
	req.ResolvedAt = &now

	player, created := creditBuyIn(next, req.UserID, req.DisplayName, req.Amount)

	kind := domain.EventBuyIn
	desc := fmt.Sprintf("%s rebought for %d", player.DisplayName, req.Amount)
	if created {
		kind = domain.EventPlayerJoined
		desc = fmt.Sprintf("%s joined with a buy-in of %d", player.DisplayName, req.Amount)
	}
	ev := appendJournal(next, domain.GameEvent{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: desc,
		Timestamp:   now,
	})

	return &Result{Game: next, Event: ev}, nil
}

// DeclineBuyIn transitions a Pending buy-in request to Declined. No player
// mutation, no journal entry. Host only.
func DeclineBuyIn(game *domain.Game, actorID, requestID uuid.UUID) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}

	next := game.Clone()
	req := next.RequestByID(domain.RequestBuyInKind, requestID)
	if req == nil {
		return nil, domain.ErrNotFound("buy-in request", requestID.String())
	}
	if req.Resolved() {
		return nil, domain.ErrAlreadyResolved(requestID.String())
	}

	now := nowFunc()
	req.Status = domain.RequestDeclined
	req.ResolvedAt = &now
	return &Result{Game: next}, nil
}

// HostBuyIn lets the host buy in (or rebuy) directly, bypassing the approval
// step. Host only.
func HostBuyIn(game *domain.Game, actorID uuid.UUID, displayName string, amount int64) (*Result, error) {
	if err := requireOpen(game); err != nil {
		return nil, err
	}
	if err := requireHost(game, actorID); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, domain.ErrInvalidAmount(err.Error())
	}

	next := game.Clone()
	player, created := creditBuyIn(next, actorID, displayName, amount)

	kind := domain.EventBuyIn
	desc := fmt.Sprintf("%s rebought for %d", player.DisplayName, amount)
	if created {
		kind = domain.EventPlayerJoined
		desc = fmt.Sprintf("%s joined with a buy-in of %d", player.DisplayName, amount)
	}
	ev := appendJournal(next, domain.GameEvent{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      actorID,
		Amount:      amount,
		Description: desc,
		Timestamp:   nowFunc(),
	})

	return &Result{Game: next, Event: ev}, nil
}
