package domain

import "github.com/google/uuid"

// SettlementTransaction is one peer-to-peer transfer in the computed
// settlement: FromPlayer pays ToPlayer Amount cents. The full list, once
// settled, reconciles every player's net position.
type SettlementTransaction struct {
	FromPlayerID uuid.UUID `json:"from_player_id"`
	FromName     string    `json:"from_name"`
	ToPlayerID   uuid.UUID `json:"to_player_id"`
	ToName       string    `json:"to_name"`
	Amount       int64     `json:"amount"`
}
