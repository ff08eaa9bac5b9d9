package models

import (
	"time"

	"github.com/google/uuid"
)

// Game is one hide-and-seek session. JoinCode is unique while the game is not
// finished and cleared when it ends. Reverse navigation (game -> players,
// game -> questions) is always a query by GameID, never a stored relation.
type Game struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	MapID        uuid.UUID   `json:"map_id" gorm:"type:uuid;not null"`
	HostClientID uuid.UUID   `json:"-" gorm:"type:uuid;not null"`
	Status       GameStatus  `json:"status" gorm:"not null;default:'lobby'"`
	JoinCode     *string     `json:"join_code" gorm:"uniqueIndex"`
	Timing       TimingRules `json:"timing" gorm:"type:json"`
	Inventory    Inventory   `json:"inventory" gorm:"type:json"`
	CreatedAt    time.Time   `json:"created_at"`
}
