package services

import (
	"errors"
	"time"

	"hideandseek/apperr"
	"hideandseek/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationService owns the append-only location log and the visibility rule:
// everyone sees the seekers, nobody ever sees the hider until the post-game
// replay.
type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

type LocationReportRequest struct {
	Coordinates models.GeoPoint `json:"coordinates" binding:"required"`
	Timestamp   time.Time       `json:"timestamp" binding:"required"`
}

// VisiblePlayer is another player's latest known position.
type VisiblePlayer struct {
	PlayerID    uuid.UUID         `json:"player_id"`
	Name        string            `json:"name"`
	Color       string            `json:"color"`
	Role        models.PlayerRole `json:"role"`
	Coordinates models.GeoPoint   `json:"coordinates"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Report appends the caller's position and returns the players currently
// visible to them. Appends need no game lock; visibility reads observe
// whatever the log holds at query time.
func (s *LocationService) Report(gameID, playerID uuid.UUID, req *LocationReportRequest) ([]VisiblePlayer, error) {
	update := models.LocationUpdate{
		PlayerID:    playerID,
		GameID:      gameID,
		Timestamp:   req.Timestamp,
		Coordinates: req.Coordinates,
	}
	if err := s.db.Create(&update).Error; err != nil {
		return nil, apperr.Internal("failed to store location update", err)
	}

	return s.VisiblePlayers(gameID, playerID)
}

// VisiblePlayers returns the latest location of every seeker in the game
// except the caller. Hiders are never included; seekers who have not reported
// are omitted.
func (s *LocationService) VisiblePlayers(gameID, callerID uuid.UUID) ([]VisiblePlayer, error) {
	latest := s.db.Model(&models.LocationUpdate{}).
		Select("player_id, MAX(id) AS max_id").
		Where("game_id = ?", gameID).
		Group("player_id")

	visible := []VisiblePlayer{}
	err := s.db.Table("location_updates").
		Select("players.id AS player_id, players.name, players.color, players.role, location_updates.coordinates, location_updates.timestamp").
		Joins("JOIN (?) latest ON location_updates.id = latest.max_id", latest).
		Joins("JOIN players ON players.id = location_updates.player_id").
		Where("players.role = ? AND players.id <> ?", models.RoleSeeker, callerID).
		Scan(&visible).Error
	if err != nil {
		return nil, apperr.Internal("failed to load visible players", err)
	}
	return visible, nil
}

// History returns the full location log in insertion order for post-game
// replay. Only available once the game is finished.
func (s *LocationService) History(gameID uuid.UUID) ([]models.LocationUpdate, error) {
	var game models.Game
	if err := s.db.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Game not found.")
		}
		return nil, apperr.Internal("failed to load game", err)
	}
	if game.Status != models.GameStatusFinished {
		return nil, apperr.Conflict("Location history is only available after the game ends.")
	}

	updates := []models.LocationUpdate{}
	if err := s.db.Where("game_id = ?", gameID).Order("id").Find(&updates).Error; err != nil {
		return nil, apperr.Internal("failed to load location history", err)
	}
	return updates, nil
}
