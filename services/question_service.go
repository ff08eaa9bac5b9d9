package services

import (
	"errors"
	"time"

	"hideandseek/apperr"
	"hideandseek/logger"
	"hideandseek/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionService owns the question lifecycle: spending inventory slots,
// sequence assignment, the in_progress -> answerable -> answered state
// machine, and delegation to the answer engine.
type QuestionService struct {
	db     *gorm.DB
	locks  *GameLocks
	engine AnswerEngine
}

func NewQuestionService(db *gorm.DB, locks *GameLocks, engine AnswerEngine) *QuestionService {
	return &QuestionService{db: db, locks: locks, engine: engine}
}

type AskQuestionRequest struct {
	QuestionType    models.QuestionType `json:"question_type" binding:"required,oneof=radar thermometer"`
	SlotIndex       *int                `json:"slot_index" binding:"required"`
	CustomDistanceM *int                `json:"custom_distance_m"`
}

// AskQuestion spends an inventory slot and creates the question. The open-
// question check, slot consumption, sequence assignment, and insert all run
// under the game lock in one transaction.
func (s *QuestionService) AskQuestion(gameID, playerID uuid.UUID, req *AskQuestionRequest) (*models.Question, error) {
	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := tx.First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Game not found.")
			}
			return apperr.Internal("failed to load game", err)
		}
		if game.Status != models.GameStatusSeeking {
			return apperr.Conflict("Questions can only be asked during seeking.")
		}

		var player models.Player
		if err := tx.First(&player, "id = ? AND game_id = ?", playerID, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Player not found in this game.")
			}
			return apperr.Internal("failed to load player", err)
		}
		if player.Role != models.RoleSeeker {
			return apperr.Forbidden("Only seekers can ask questions.")
		}

		var open int64
		if err := tx.Model(&models.Question{}).
			Where("game_id = ? AND status <> ?", gameID, models.QuestionStatusAnswered).
			Count(&open).Error; err != nil {
			return apperr.Internal("failed to check open questions", err)
		}
		if open > 0 {
			return apperr.Conflict("There is already an unanswered question.")
		}

		slots := game.Inventory.Radars
		if req.QuestionType == models.QuestionTypeThermometer {
			slots = game.Inventory.Thermometers
		}
		idx := *req.SlotIndex
		if idx < 0 || idx >= len(slots) {
			return apperr.Invalid("Invalid slot index.")
		}

		distance := slots[idx].DistanceM
		if distance == nil {
			// Wildcard slot: the seeker supplies the distance.
			if req.CustomDistanceM == nil {
				return apperr.Invalid("custom_distance_m is required for custom slots.")
			}
			distance = req.CustomDistanceM
		}

		seekerLocation, err := s.avgSeekerLocation(tx, gameID)
		if err != nil {
			return err
		}
		if seekerLocation == nil {
			return apperr.Conflict("No seeker locations available.")
		}

		// Consume the slot by index; later slots shift down.
		remaining := make([]models.DistanceSlot, 0, len(slots)-1)
		remaining = append(remaining, slots[:idx]...)
		remaining = append(remaining, slots[idx+1:]...)
		if req.QuestionType == models.QuestionTypeRadar {
			game.Inventory.Radars = remaining
		} else {
			game.Inventory.Thermometers = remaining
		}
		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).
			Update("inventory", game.Inventory).Error; err != nil {
			return apperr.Internal("failed to update inventory", err)
		}

		var total int64
		if err := tx.Model(&models.Question{}).Where("game_id = ?", gameID).Count(&total).Error; err != nil {
			return apperr.Internal("failed to count questions", err)
		}

		question = models.Question{
			ID:                  uuid.New(),
			GameID:              gameID,
			Sequence:            int(total) + 1,
			QuestionType:        req.QuestionType,
			AskedBy:             player.ID,
			AskedAt:             time.Now().UTC(),
			SeekerLocationStart: *seekerLocation,
		}
		if req.QuestionType == models.QuestionTypeRadar {
			question.Status = models.QuestionStatusAnswerable
			question.Parameters = models.QuestionParameters{RadiusM: distance}
		} else {
			question.Status = models.QuestionStatusInProgress
			question.Parameters = models.QuestionParameters{MinTravelM: distance}
		}

		return tx.Create(&question).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to ask question", err)
	}

	logger.Log.Infow("question asked",
		"game_id", gameID, "question_id", question.ID,
		"type", question.QuestionType, "sequence", question.Sequence)
	return &question, nil
}

// LockIn snapshots the asking seeker's current position as the thermometer
// end point and makes the question answerable.
func (s *QuestionService) LockIn(gameID, questionID, playerID uuid.UUID) (*models.Question, error) {
	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q, err := s.questionInGame(tx, gameID, questionID)
		if err != nil {
			return err
		}
		if q.Status != models.QuestionStatusInProgress {
			return apperr.Conflict("Question is not in progress.")
		}
		if q.AskedBy != playerID {
			return apperr.Forbidden("Only the asking seeker can lock in.")
		}

		latest, err := latestLocation(tx, playerID, gameID)
		if err != nil {
			return err
		}
		if latest == nil {
			return apperr.Conflict("No location reported yet.")
		}

		q.SeekerLocationEnd = &latest.Coordinates
		q.Status = models.QuestionStatusAnswerable
		question = *q
		return tx.Save(q).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to lock in question", err)
	}
	return &question, nil
}

// PreviewAnswer computes the provisional answer for an answerable question.
// It mutates nothing, so repeated calls return the same result until the
// underlying state changes.
func (s *QuestionService) PreviewAnswer(gameID, questionID uuid.UUID) (*EvaluateResult, error) {
	q, err := s.questionInGame(s.db, gameID, questionID)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuestionStatusAnswerable {
		return nil, apperr.Conflict("Question is not answerable.")
	}

	result, err := s.engine.Evaluate(EvaluateInput{
		Type:          q.QuestionType,
		Parameters:    q.Parameters,
		SeekerStart:   q.SeekerLocationStart,
		SeekerEnd:     q.SeekerLocationEnd,
		HiderLocation: q.HiderLocation,
	})
	if err != nil {
		return nil, apperr.Internal("answer evaluation failed", err)
	}
	return &result, nil
}

// AnswerQuestion snapshots the hider's latest position (absent is allowed),
// runs the final evaluation, and closes the question.
func (s *QuestionService) AnswerQuestion(gameID, questionID, playerID uuid.UUID) (*models.Question, error) {
	mu := s.locks.Get(gameID)
	mu.Lock()
	defer mu.Unlock()

	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var player models.Player
		if err := tx.First(&player, "id = ? AND game_id = ?", playerID, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Player not found in this game.")
			}
			return apperr.Internal("failed to load player", err)
		}
		if player.Role != models.RoleHider {
			return apperr.Forbidden("Only the hider can answer questions.")
		}

		q, err := s.questionInGame(tx, gameID, questionID)
		if err != nil {
			return err
		}
		if q.Status != models.QuestionStatusAnswerable {
			return apperr.Conflict("Question is not answerable.")
		}

		latest, err := latestLocation(tx, playerID, gameID)
		if err != nil {
			return err
		}
		if latest != nil {
			q.HiderLocation = &latest.Coordinates
		}

		result, err := s.engine.Evaluate(EvaluateInput{
			Type:          q.QuestionType,
			Parameters:    q.Parameters,
			SeekerStart:   q.SeekerLocationStart,
			SeekerEnd:     q.SeekerLocationEnd,
			HiderLocation: q.HiderLocation,
		})
		if err != nil {
			return apperr.Internal("answer evaluation failed", err)
		}

		now := time.Now().UTC()
		q.Answer = &result.Answer
		q.Exclusion = result.Exclusion
		q.AnsweredAt = &now
		q.Status = models.QuestionStatusAnswered
		question = *q
		return tx.Save(q).Error
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperr.Internal("failed to answer question", err)
	}

	logger.Log.Infow("question answered", "game_id", gameID, "question_id", question.ID)
	return &question, nil
}

// ListQuestions returns all questions for a game in ask order. Seekers never
// see the hider's recorded location, whatever the question status.
func (s *QuestionService) ListQuestions(gameID uuid.UUID, callerRole models.PlayerRole) ([]models.Question, error) {
	questions := []models.Question{}
	if err := s.db.Where("game_id = ?", gameID).Order("sequence").Find(&questions).Error; err != nil {
		return nil, apperr.Internal("failed to list questions", err)
	}
	if callerRole == models.RoleSeeker {
		for i := range questions {
			questions[i].HiderLocation = nil
		}
	}
	return questions, nil
}

func (s *QuestionService) questionInGame(tx *gorm.DB, gameID, questionID uuid.UUID) (*models.Question, error) {
	var q models.Question
	if err := tx.First(&q, "id = ? AND game_id = ?", questionID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Question not found.")
		}
		return nil, apperr.Internal("failed to load question", err)
	}
	return &q, nil
}

// avgSeekerLocation is the arithmetic mean of the latest reported location of
// every current seeker. Seekers who have never reported are skipped; nil
// means no seeker has reported at all.
func (s *QuestionService) avgSeekerLocation(tx *gorm.DB, gameID uuid.UUID) (*models.GeoPoint, error) {
	var seekers []models.Player
	if err := tx.Where("game_id = ? AND role = ?", gameID, models.RoleSeeker).Find(&seekers).Error; err != nil {
		return nil, apperr.Internal("failed to load seekers", err)
	}
	if len(seekers) == 0 {
		return nil, nil
	}

	var sumLng, sumLat float64
	var count int
	for _, seeker := range seekers {
		latest, err := latestLocation(tx, seeker.ID, gameID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}
		sumLng += latest.Coordinates.Coordinates[0]
		sumLat += latest.Coordinates.Coordinates[1]
		count++
	}
	if count == 0 {
		return nil, nil
	}

	point := models.NewGeoPoint(sumLng/float64(count), sumLat/float64(count))
	return &point, nil
}

// latestLocation returns the most recent report for a player in a game, or
// nil when none exists. Recency is insertion order (highest id).
func latestLocation(tx *gorm.DB, playerID, gameID uuid.UUID) (*models.LocationUpdate, error) {
	var update models.LocationUpdate
	err := tx.Where("player_id = ? AND game_id = ?", playerID, gameID).
		Order("id DESC").First(&update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("failed to load latest location", err)
	}
	return &update, nil
}
