package services

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"hideandseek/apperr"
	"hideandseek/logger"
	"hideandseek/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	joinCodeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeLength      = 4
	joinCodeMaxAttempts = 10
)

// GameService owns the game lifecycle: lobby creation, joining by code, role
// bookkeeping, and the lobby -> hiding and active -> finished transitions.
type GameService struct {
	db    *gorm.DB
	locks *GameLocks
}

func NewGameService(db *gorm.DB, locks *GameLocks) *GameService {
	return &GameService{db: db, locks: locks}
}

type CreateGameRequest struct {
	MapID uuid.UUID `json:"map_id" binding:"required"`
}

type JoinGameRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color" binding:"required"`
}

// PlayerUpdate is a partial update: only non-nil fields are applied.
type PlayerUpdate struct {
	Name  *string            `json:"name"`
	Color *string            `json:"color"`
	Role  *models.PlayerRole `json:"role"`
}

// GameDetail is a game together with its roster, assembled by query since the
// entities carry no relation fields.
type GameDetail struct {
	models.Game
	Players []models.Player `json:"players"`
}

// JoinGameResult carries the joined game plus the new player's id. Callers
// must remember the id: later requests resolve them by client id alone.
type JoinGameResult struct {
	Game     GameDetail `json:"game"`
	PlayerID uuid.UUID  `json:"player_id"`
}

// CreateGame creates a lobby on the given map, copying the map's default
// inventory and timing rules and reserving a fresh join code.
func (s *GameService) CreateGame(mapID, hostClientID uuid.UUID) (*GameDetail, error) {
	var gameMap models.GameMap
	if err := s.db.First(&gameMap, "id = ?", mapID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Map not found.")
		}
		return nil, apperr.Internal("failed to load map", err)
	}

	game := models.Game{
		ID:           uuid.New(),
		MapID:        gameMap.ID,
		HostClientID: hostClientID,
		Status:       models.GameStatusLobby,
		Timing:       gameMap.DefaultTiming,
		Inventory:    gameMap.DefaultInventory,
		CreatedAt:    time.Now().UTC(),
	}

	// Code generation and insertion run as one unit so two hosts cannot race
	// the same code past the uniqueness check. The unique index on join_code
	// is the backstop.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := generateJoinCode(tx)
		if err != nil {
			return err
		}
		game.JoinCode = &code
		return tx.Create(&game).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to create game", err)
	}

	logger.Log.Infow("game created", "game_id", game.ID, "map_id", gameMap.ID, "join_code", *game.JoinCode)
	return &GameDetail{Game: game, Players: []models.Player{}}, nil
}

// generateJoinCode samples 4-character codes until one is free among
// non-finished games. Finished games have their code cleared, so a live code
// collision means the code is genuinely taken.
func generateJoinCode(tx *gorm.DB) (string, error) {
	buf := make([]byte, joinCodeLength)
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		if _, err := rand.Read(buf); err != nil {
			return "", apperr.Internal("failed to read random bytes", err)
		}
		code := make([]byte, joinCodeLength)
		for i, b := range buf {
			code[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
		}

		var count int64
		if err := tx.Model(&models.Game{}).Where("join_code = ?", string(code)).Count(&count).Error; err != nil {
			return "", apperr.Internal("failed to check join code", err)
		}
		if count == 0 {
			return string(code), nil
		}
	}
	return "", apperr.Internal("failed to generate unique join code", nil)
}

// JoinGame adds a player to a lobby found by its join code. The lookup is
// case-insensitive; codes are stored uppercase.
func (s *GameService) JoinGame(req *JoinGameRequest, clientID uuid.UUID) (*JoinGameResult, error) {
	code := strings.ToUpper(req.JoinCode)

	var game models.Game
	if err := s.db.First(&game, "join_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Invalid join code.")
		}
		return nil, apperr.Internal("failed to look up join code", err)
	}

	mu := s.locks.Get(game.ID)
	mu.Lock()
	defer mu.Unlock()

	player := models.Player{
		ID:       uuid.New(),
		ClientID: clientID,
		GameID:   game.ID,
		Name:     req.Name,
		Color:    req.Color,
		Role:     models.RoleUnassigned,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read under the lock: the game may have started since the lookup.
		if err := tx.First(&game, "id = ?", game.ID).Error; err != nil {
			return apperr.Internal("failed to reload game", err)
		}
		if game.Status != models.GameStatusLobby {
			return apperr.Conflict("Game is not in lobby.")
		}

		var existing int64
		if err := tx.Model(&models.Player{}).
			Where("client_id = ? AND game_id = ?", clientID, game.ID).
			Count(&existing).Error; err != nil {
			return apperr.Internal("failed to check existing player", err)
		}
		if existing > 0 {
			return apperr.Conflict("You have already joined this game.")
		}

		return tx.Create(&player).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to join game", err)
	}

	detail, err := s.GetGame(game.ID)
	if err != nil {
		return nil, err
	}
	return &JoinGameResult{Game: *detail, PlayerID: player.ID}, nil
}

// GetGame returns a game with its roster.
func (s *GameService) GetGame(gameID uuid.UUID) (*GameDetail, error) {
	var game models.Game
	if err := s.db.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Game not found.")
		}
		return nil, apperr.Internal("failed to load game", err)
	}

	players, err := s.playersInGame(s.db, gameID)
	if err != nil {
		return nil, err
	}
	return &GameDetail{Game: game, Players: players}, nil
}

// PlayerByClient resolves the calling player within a game by client id.
func (s *GameService) PlayerByClient(gameID, clientID uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := s.db.First(&player, "game_id = ? AND client_id = ?", gameID, clientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Forbidden("You are not a player in this game.")
		}
		return nil, apperr.Internal("failed to resolve player", err)
	}
	return &player, nil
}

// UpdatePlayer applies the non-nil fields of upd to a player in the game.
// Role changes are allowed in any game status.
func (s *GameService) UpdatePlayer(gameID, playerID uuid.UUID, upd *PlayerUpdate) (*models.Player, error) {
	if upd.Role != nil && *upd.Role != models.RoleHider && *upd.Role != models.RoleSeeker {
		return nil, apperr.Invalid("Role must be hider or seeker.")
	}

	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var player models.Player
	if err := s.db.First(&player, "id = ? AND game_id = ?", playerID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Player not found in this game.")
		}
		return nil, apperr.Internal("failed to load player", err)
	}

	if upd.Name != nil {
		player.Name = *upd.Name
	}
	if upd.Color != nil {
		player.Color = *upd.Color
	}
	if upd.Role != nil {
		player.Role = *upd.Role
	}

	if err := s.db.Save(&player).Error; err != nil {
		return nil, apperr.Internal("failed to update player", err)
	}
	return &player, nil
}

// StartGame transitions lobby -> hiding once the roster is valid: at least
// one player, every role assigned, and both a hider and a seeker present.
func (s *GameService) StartGame(gameID uuid.UUID) (*GameDetail, error) {
	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var game models.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Game not found.")
			}
			return apperr.Internal("failed to load game", err)
		}
		if game.Status != models.GameStatusLobby {
			return apperr.Conflict("Game is not in lobby.")
		}

		players, err := s.playersInGame(tx, gameID)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return apperr.Conflict("No players in game.")
		}

		var hiders, seekers int
		for _, p := range players {
			switch p.Role {
			case models.RoleUnassigned:
				return apperr.Conflict("Not all players have assigned roles.")
			case models.RoleHider:
				hiders++
			case models.RoleSeeker:
				seekers++
			}
		}
		if hiders == 0 {
			return apperr.Conflict("At least one hider is required.")
		}
		if seekers == 0 {
			return apperr.Conflict("At least one seeker is required.")
		}

		game.Status = models.GameStatusHiding
		return tx.Save(&game).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to start game", err)
	}

	logger.Log.Infow("game started", "game_id", game.ID)
	return s.GetGame(gameID)
}

// EndGame transitions an active game to finished and releases its join code.
// Ending an already-finished game is a conflict, not a no-op.
func (s *GameService) EndGame(gameID uuid.UUID) (*GameDetail, error) {
	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var game models.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Game not found.")
			}
			return apperr.Internal("failed to load game", err)
		}

		switch game.Status {
		case models.GameStatusHiding, models.GameStatusSeeking, models.GameStatusEndgame:
		default:
			return apperr.Conflict("Cannot end game in %s state.", game.Status)
		}

		game.Status = models.GameStatusFinished
		game.JoinCode = nil
		return tx.Save(&game).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to end game", err)
	}

	logger.Log.Infow("game ended", "game_id", game.ID)
	return s.GetGame(gameID)
}

func (s *GameService) playersInGame(tx *gorm.DB, gameID uuid.UUID) ([]models.Player, error) {
	players := []models.Player{}
	if err := tx.Where("game_id = ?", gameID).Order("id").Find(&players).Error; err != nil {
		return nil, apperr.Internal("failed to load players", err)
	}
	return players, nil
}
