package domain

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus tracks the lifecycle of a game. Active -> Completed exactly once.
type GameStatus string

const (
	GameActive    GameStatus = "active"
	GameCompleted GameStatus = "completed"
)

// PlayerStatus tracks a player's participation. Active -> CashedOut is one-way.
type PlayerStatus string

const (
	PlayerActive    PlayerStatus = "active"
	PlayerCashedOut PlayerStatus = "cashed_out"
)

// Player is a seat at the table. ID is a stable per-seat identifier, distinct
// from UserID — a user who cashes out and rejoins gets a fresh seat.
type Player struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	DisplayName  string       `json:"display_name"`
	CurrentStack int64        `json:"current_stack"`
	TotalBuyIn   int64        `json:"total_buy_in"`
	Status       PlayerStatus `json:"status"`
	JoinedAt     time.Time    `json:"joined_at"`
	CashedOutAt  *time.Time   `json:"cashed_out_at,omitempty"`
}

// Net is the player's realized position: what they walked away with minus
// what they put in. Meaningful once the player has cashed out.
func (p *Player) Net() int64 {
	return p.CurrentStack - p.TotalBuyIn
}

// Game is the single owning aggregate for one session. Players, requests and
// history have no lifecycle outside it. All amounts are integer cents.
type Game struct {
	ID                     uuid.UUID               `json:"id"`
	Status                 GameStatus              `json:"status"`
	CreatorID              uuid.UUID               `json:"creator_id"`
	SmallBlind             int64                   `json:"small_blind,omitempty"`
	BigBlind               int64                   `json:"big_blind,omitempty"`
	Players                []Player                `json:"players"`
	BuyInRequests          []Request               `json:"buy_in_requests"`
	CashOutRequests        []Request               `json:"cash_out_requests"`
	History                []GameEvent             `json:"history"`
	SettlementTransactions []SettlementTransaction `json:"settlement_transactions,omitempty"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}

// NewGame creates an Active game owned by creatorID with a Created journal
// entry already appended.
func NewGame(creatorID uuid.UUID, creatorName string, smallBlind, bigBlind int64) *Game {
	now := time.Now()
	g := &Game{
		ID:         uuid.New(),
		Status:     GameActive,
		CreatorID:  creatorID,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	g.History = AppendEvent(g.History, GameEvent{
		ID:          uuid.New(),
		Kind:        EventCreated,
		UserID:      creatorID,
		Description: creatorName + " created the game",
		Timestamp:   now,
	})
	return g
}

// Clone returns a deep copy. Transition functions operate on clones so a
// failed or retried operation never leaves a half-mutated snapshot behind.
func (g *Game) Clone() *Game {
	out := *g

	out.Players = make([]Player, len(g.Players))
	copy(out.Players, g.Players)
	for i := range out.Players {
		if t := out.Players[i].CashedOutAt; t != nil {
			c := *t
			out.Players[i].CashedOutAt = &c
		}
	}

	out.BuyInRequests = cloneRequests(g.BuyInRequests)
	out.CashOutRequests = cloneRequests(g.CashOutRequests)

	out.History = make([]GameEvent, len(g.History))
	copy(out.History, g.History)

	if g.SettlementTransactions != nil {
		out.SettlementTransactions = make([]SettlementTransaction, len(g.SettlementTransactions))
		copy(out.SettlementTransactions, g.SettlementTransactions)
	}

	return &out
}

// ActivePlayerByUserID returns the user's Active seat, or nil.
func (g *Game) ActivePlayerByUserID(userID uuid.UUID) *Player {
	for i := range g.Players {
		if g.Players[i].UserID == userID && g.Players[i].Status == PlayerActive {
			return &g.Players[i]
		}
	}
	return nil
}

// PlayerByID returns the seat with the given id, or nil.
func (g *Game) PlayerByID(id uuid.UUID) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// HasActivePlayers reports whether any seat has not cashed out yet.
func (g *Game) HasActivePlayers() bool {
	for i := range g.Players {
		if g.Players[i].Status == PlayerActive {
			return true
		}
	}
	return false
}

// HasPendingRequest reports whether userID already has a Pending request of
// the given kind. At most one outstanding request per kind per user.
func (g *Game) HasPendingRequest(kind RequestKind, userID uuid.UUID) bool {
	for _, r := range g.requestsOf(kind) {
		if r.UserID == userID && r.Status == RequestPending {
			return true
		}
	}
	return false
}

// RequestByID returns the request of the given kind with the given id, or nil.
func (g *Game) RequestByID(kind RequestKind, id uuid.UUID) *Request {
	reqs := g.requestsOf(kind)
	for i := range reqs {
		if reqs[i].ID == id {
			return &reqs[i]
		}
	}
	return nil
}

func (g *Game) requestsOf(kind RequestKind) []Request {
	if kind == RequestCashOutKind {
		return g.CashOutRequests
	}
	return g.BuyInRequests
}
