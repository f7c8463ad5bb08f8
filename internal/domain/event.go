package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// GameEventKind enumerates journal entry types.
type GameEventKind string

const (
	EventCreated      GameEventKind = "created"
	EventPlayerJoined GameEventKind = "player_joined"
	EventPlayerLeft   GameEventKind = "player_left"
	EventBuyIn        GameEventKind = "buy_in"
	EventCashOut      GameEventKind = "cash_out"
	EventEnded        GameEventKind = "ended"
)

// GameEvent is one entry in the game's append-only journal. Entries are never
// mutated or deleted after append.
type GameEvent struct {
	ID          uuid.UUID     `json:"id"`
	Kind        GameEventKind `json:"kind"`
	UserID      uuid.UUID     `json:"user_id,omitempty"`
	Amount      int64         `json:"amount,omitempty"`
	Description string        `json:"description"`
	Timestamp   time.Time     `json:"timestamp"`
}

// AppendEvent returns history with event appended. The only legal write to a
// journal: no deletions, no reordering, no edits.
func AppendEvent(history []GameEvent, event GameEvent) []GameEvent {
	return append(history, event)
}

// HistoryView returns up to limit journal entries, most recent first.
// Ordering is by timestamp; ties resolve to insertion order (later entries
// first). limit <= 0 means all.
func (g *Game) HistoryView(limit int) []GameEvent {
	out := make([]GameEvent, len(g.History))
	for i, ev := range g.History {
		out[len(g.History)-1-i] = ev
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
