package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is one radar or thermometer query. Sequence is 1-based and dense
// per game in ask order. Radar questions are created answerable; thermometer
// questions start in_progress and become answerable at lock-in. Answered is
// terminal.
type Question struct {
	ID                  uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	GameID              uuid.UUID          `json:"game_id" gorm:"type:uuid;not null;index"`
	Sequence            int                `json:"sequence" gorm:"not null"`
	QuestionType        QuestionType       `json:"question_type" gorm:"not null"`
	Status              QuestionStatus     `json:"status" gorm:"not null"`
	Parameters          QuestionParameters `json:"parameters" gorm:"type:json"`
	AskedBy             uuid.UUID          `json:"asked_by" gorm:"type:uuid;not null"`
	AskedAt             time.Time          `json:"asked_at"`
	SeekerLocationStart GeoPoint           `json:"seeker_location_start" gorm:"type:json"`
	SeekerLocationEnd   *GeoPoint          `json:"seeker_location_end" gorm:"type:json"`
	AnsweredAt          *time.Time         `json:"answered_at"`
	HiderLocation       *GeoPoint          `json:"hider_location" gorm:"type:json"`
	Answer              *string            `json:"answer"`
	Exclusion           *GeoPolygon        `json:"exclusion" gorm:"type:json"`
}
