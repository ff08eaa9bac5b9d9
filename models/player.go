package models

import (
	"github.com/google/uuid"
)

// Player is one participant in a game. ClientID is the caller-supplied stable
// identity; a client may hold at most one player per game. Role stays
// unassigned (empty) until the host assigns hider or seeker.
type Player struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID uuid.UUID  `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_player_client_game"`
	GameID   uuid.UUID  `json:"game_id" gorm:"type:uuid;not null;uniqueIndex:idx_player_client_game"`
	Name     string     `json:"name" gorm:"not null"`
	Color    string     `json:"color" gorm:"not null"`
	Role     PlayerRole `json:"role"`
}
