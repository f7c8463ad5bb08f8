package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all outbox event types.
type EventType string

const (
	EventGameCreated    EventType = "homegame.game.created"
	EventGameUpdated    EventType = "homegame.game.updated"
	EventGameEnded      EventType = "homegame.game.ended"
	EventUserRegistered EventType = "homegame.user.registered"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateGame AggregateType = "game"
	AggregateUser AggregateType = "user"
)

// OutboxDraft is the payload written to the event_outbox table, inserted in
// the same transaction as the write it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// NewGameCreatedEvent creates the outbox event for a freshly created game.
func NewGameCreatedEvent(game *Game) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"game_id":     game.ID.String(),
		"creator_id":  game.CreatorID.String(),
		"small_blind": game.SmallBlind,
		"big_blind":   game.BigBlind,
	})
	return newGameDraft(game, EventGameCreated, payload)
}

// NewGameUpdatedEvent creates the standard outbox event for a committed game
// mutation. journal is the journal entry appended by the transition, nil if
// the transition appended none.
func NewGameUpdatedEvent(game *Game, journal *GameEvent) OutboxDraft {
	evtType := EventGameUpdated
	if journal != nil && journal.Kind == EventEnded {
		evtType = EventGameEnded
	}
	body := map[string]interface{}{
		"game_id": game.ID.String(),
		"status":  game.Status,
	}
	if journal != nil {
		body["journal"] = journal
	}
	payload, _ := json.Marshal(body)
	return newGameDraft(game, evtType, payload)
}

func newGameDraft(game *Game, evtType EventType, payload json.RawMessage) OutboxDraft {
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateGame,
		AggregateID:   game.ID.String(),
		EventType:     evtType,
		PartitionKey:  game.ID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewUserRegisteredEvent creates a user lifecycle event.
func NewUserRegisteredEvent(userID uuid.UUID, email, displayName string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"user_id":      userID.String(),
		"email":        email,
		"display_name": displayName,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventUserRegistered,
		PartitionKey:  userID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
