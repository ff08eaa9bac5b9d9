package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationUpdate is one appended position report. Rows are never updated or
// deleted; the autoincrement ID doubles as insertion order, so "latest
// location" is the row with the highest ID for a player.
type LocationUpdate struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PlayerID    uuid.UUID `json:"player_id" gorm:"type:uuid;not null;index"`
	GameID      uuid.UUID `json:"game_id" gorm:"type:uuid;not null;index"`
	Timestamp   time.Time `json:"timestamp"`
	Coordinates GeoPoint  `json:"coordinates" gorm:"type:json"`
}
