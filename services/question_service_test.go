package services

import (
	"reflect"
	"testing"

	"hideandseek/apperr"
	"hideandseek/models"

	"gorm.io/gorm"
)

// setupSeekingGame returns a seeking-phase game with one hider and one seeker
// who have both reported a location.
func setupSeekingGame(t *testing.T, db *gorm.DB) (*models.Game, *models.Player, *models.Player) {
	t.Helper()
	game := createTestGame(t, db, models.GameStatusSeeking)
	hider := createTestPlayer(t, db, game.ID, "Hider", models.RoleHider)
	seeker := createTestPlayer(t, db, game.ID, "Seeker", models.RoleSeeker)
	reportTestLocation(t, db, game.ID, seeker.ID, -0.1, 51.5)
	reportTestLocation(t, db, game.ID, hider.ID, 0.0, 51.0)
	return game, hider, seeker
}

func newQuestionService(db *gorm.DB) *QuestionService {
	return NewQuestionService(db, NewGameLocks(), PendingAnswerEngine{})
}

func askRadar(t *testing.T, svc *QuestionService, game *models.Game, seeker *models.Player, slot int) *models.Question {
	t.Helper()
	q, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(slot),
	})
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}
	return q
}

func TestAskRadarQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	q := askRadar(t, svc, game, seeker, 0)

	if q.Status != models.QuestionStatusAnswerable {
		t.Errorf("expected answerable, got %s", q.Status)
	}
	if q.Parameters.RadiusM == nil || *q.Parameters.RadiusM != 3000 {
		t.Errorf("expected radius 3000, got %+v", q.Parameters)
	}
	if q.Sequence != 1 {
		t.Errorf("expected sequence 1, got %d", q.Sequence)
	}

	var reloaded models.Game
	if err := db.First(&reloaded, "id = ?", game.ID).Error; err != nil {
		t.Fatalf("failed to reload game: %v", err)
	}
	radars := reloaded.Inventory.Radars
	if len(radars) != 2 {
		t.Fatalf("expected 2 radar slots left, got %d", len(radars))
	}
	// Slot 0 (3000m) was consumed; the rest shift down in order.
	if radars[0].DistanceM == nil || *radars[0].DistanceM != 5000 {
		t.Errorf("expected first remaining slot 5000, got %+v", radars[0])
	}
	if radars[1].DistanceM != nil {
		t.Errorf("expected second remaining slot to be the wildcard, got %+v", radars[1])
	}
}

func TestAskThermometerQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	q, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeThermometer,
		SlotIndex:    intPtr(0),
	})
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}

	if q.Status != models.QuestionStatusInProgress {
		t.Errorf("expected in_progress, got %s", q.Status)
	}
	if q.Parameters.MinTravelM == nil || *q.Parameters.MinTravelM != 500 {
		t.Errorf("expected min travel 500, got %+v", q.Parameters)
	}
}

func TestAskWildcardSlotRequiresDistance(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	_, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(2),
	})
	assertKind(t, err, apperr.KindInvalid)

	q, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType:    models.QuestionTypeRadar,
		SlotIndex:       intPtr(2),
		CustomDistanceM: intPtr(4000),
	})
	if err != nil {
		t.Fatalf("AskQuestion with custom distance failed: %v", err)
	}
	if q.Parameters.RadiusM == nil || *q.Parameters.RadiusM != 4000 {
		t.Errorf("expected radius 4000, got %+v", q.Parameters)
	}
}

func TestAskInvalidSlotIndex(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	_, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(3),
	})
	assertKind(t, err, apperr.KindInvalid)

	_, err = svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(-1),
	})
	assertKind(t, err, apperr.KindInvalid)
}

func TestAskRequiresSeekingStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game := createTestGame(t, db, models.GameStatusLobby)
	seeker := createTestPlayer(t, db, game.ID, "Seeker", models.RoleSeeker)

	_, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(0),
	})
	assertKind(t, err, apperr.KindConflict)
}

func TestAskRequiresSeekerRole(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, _ := setupSeekingGame(t, db)

	_, err := svc.AskQuestion(game.ID, hider.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(0),
	})
	assertKind(t, err, apperr.KindForbidden)
}

func TestAskRejectsOpenQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, seeker := setupSeekingGame(t, db)

	first := askRadar(t, svc, game, seeker, 0)

	_, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(0),
	})
	assertKind(t, err, apperr.KindConflict)

	if _, err := svc.AnswerQuestion(game.ID, first.ID, hider.ID); err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}

	second := askRadar(t, svc, game, seeker, 0)
	if second.Sequence != 2 {
		t.Errorf("expected dense sequence 2, got %d", second.Sequence)
	}
}

func TestAskRequiresSeekerLocations(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game := createTestGame(t, db, models.GameStatusSeeking)
	seeker := createTestPlayer(t, db, game.ID, "Seeker", models.RoleSeeker)

	_, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeRadar,
		SlotIndex:    intPtr(0),
	})
	assertKind(t, err, apperr.KindConflict)
}

func TestAskAveragesSeekerLocations(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game := createTestGame(t, db, models.GameStatusSeeking)
	seeker1 := createTestPlayer(t, db, game.ID, "Seeker1", models.RoleSeeker)
	seeker2 := createTestPlayer(t, db, game.ID, "Seeker2", models.RoleSeeker)
	reportTestLocation(t, db, game.ID, seeker1.ID, 0.0, 0.0)
	reportTestLocation(t, db, game.ID, seeker2.ID, 2.0, 2.0)

	q := askRadar(t, svc, game, seeker1, 0)

	coords := q.SeekerLocationStart.Coordinates
	if coords[0] != 1.0 || coords[1] != 1.0 {
		t.Errorf("expected averaged start (1, 1), got %v", coords)
	}
}

func TestThermometerLockIn(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, seeker := setupSeekingGame(t, db)

	q, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeThermometer,
		SlotIndex:    intPtr(0),
	})
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}

	// Only the asker may lock in.
	_, err = svc.LockIn(game.ID, q.ID, hider.ID)
	assertKind(t, err, apperr.KindForbidden)

	// The seeker moves, then locks in; the end point is the newest report.
	reportTestLocation(t, db, game.ID, seeker.ID, -0.15, 51.52)
	locked, err := svc.LockIn(game.ID, q.ID, seeker.ID)
	if err != nil {
		t.Fatalf("LockIn failed: %v", err)
	}
	if locked.Status != models.QuestionStatusAnswerable {
		t.Errorf("expected answerable, got %s", locked.Status)
	}
	if locked.SeekerLocationEnd == nil {
		t.Fatal("expected end location snapshot")
	}
	if locked.SeekerLocationEnd.Coordinates[0] != -0.15 {
		t.Errorf("expected latest report as end location, got %v", locked.SeekerLocationEnd.Coordinates)
	}

	// Lock-in is not repeatable.
	_, err = svc.LockIn(game.ID, q.ID, seeker.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestLockInRequiresReportedLocation(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)
	silent := createTestPlayer(t, db, game.ID, "Silent", models.RoleSeeker)
	_ = seeker

	q, err := svc.AskQuestion(game.ID, silent.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeThermometer,
		SlotIndex:    intPtr(0),
	})
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}

	_, err = svc.LockIn(game.ID, q.ID, silent.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestPreviewAnswer(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	q := askRadar(t, svc, game, seeker, 0)

	first, err := svc.PreviewAnswer(game.ID, q.ID)
	if err != nil {
		t.Fatalf("PreviewAnswer failed: %v", err)
	}
	second, err := svc.PreviewAnswer(game.ID, q.ID)
	if err != nil {
		t.Fatalf("PreviewAnswer failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical previews, got %+v then %+v", first, second)
	}
	if first.Answer != "pending" {
		t.Errorf("expected pending answer, got %q", first.Answer)
	}
}

func TestPreviewRequiresAnswerable(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, _, seeker := setupSeekingGame(t, db)

	q, err := svc.AskQuestion(game.ID, seeker.ID, &AskQuestionRequest{
		QuestionType: models.QuestionTypeThermometer,
		SlotIndex:    intPtr(0),
	})
	if err != nil {
		t.Fatalf("AskQuestion failed: %v", err)
	}

	_, err = svc.PreviewAnswer(game.ID, q.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestAnswerQuestion(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, seeker := setupSeekingGame(t, db)

	q := askRadar(t, svc, game, seeker, 0)

	// Seekers cannot answer.
	_, err := svc.AnswerQuestion(game.ID, q.ID, seeker.ID)
	assertKind(t, err, apperr.KindForbidden)

	answered, err := svc.AnswerQuestion(game.ID, q.ID, hider.ID)
	if err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}
	if answered.Status != models.QuestionStatusAnswered {
		t.Errorf("expected answered, got %s", answered.Status)
	}
	if answered.Answer == nil || *answered.Answer != "pending" {
		t.Errorf("expected pending answer, got %v", answered.Answer)
	}
	if answered.AnsweredAt == nil {
		t.Error("expected answered_at to be stamped")
	}
	if answered.HiderLocation == nil {
		t.Fatal("expected hider location snapshot")
	}
	if answered.HiderLocation.Coordinates[1] != 51.0 {
		t.Errorf("expected hider's latest report, got %v", answered.HiderLocation.Coordinates)
	}

	// Answered is terminal.
	_, err = svc.AnswerQuestion(game.ID, q.ID, hider.ID)
	assertKind(t, err, apperr.KindConflict)
}

func TestAnswerWithoutHiderLocation(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game := createTestGame(t, db, models.GameStatusSeeking)
	hider := createTestPlayer(t, db, game.ID, "Hider", models.RoleHider)
	seeker := createTestPlayer(t, db, game.ID, "Seeker", models.RoleSeeker)
	reportTestLocation(t, db, game.ID, seeker.ID, -0.1, 51.5)

	q := askRadar(t, svc, game, seeker, 0)

	answered, err := svc.AnswerQuestion(game.ID, q.ID, hider.ID)
	if err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}
	if answered.HiderLocation != nil {
		t.Errorf("expected absent hider location, got %v", answered.HiderLocation)
	}
}

func TestListQuestionsHidesHiderLocationFromSeekers(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, seeker := setupSeekingGame(t, db)

	q := askRadar(t, svc, game, seeker, 0)
	if _, err := svc.AnswerQuestion(game.ID, q.ID, hider.ID); err != nil {
		t.Fatalf("AnswerQuestion failed: %v", err)
	}

	asHider, err := svc.ListQuestions(game.ID, models.RoleHider)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(asHider) != 1 || asHider[0].HiderLocation == nil {
		t.Errorf("expected hider to see the hider location, got %+v", asHider)
	}

	asSeeker, err := svc.ListQuestions(game.ID, models.RoleSeeker)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(asSeeker) != 1 {
		t.Fatalf("expected 1 question, got %d", len(asSeeker))
	}
	if asSeeker[0].HiderLocation != nil {
		t.Error("expected hider location hidden from seekers")
	}
}

func TestQuestionSequencesAreDense(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuestionService(db)
	game, hider, seeker := setupSeekingGame(t, db)

	for i := 1; i <= 3; i++ {
		q := askRadar(t, svc, game, seeker, 0)
		if q.Sequence != i {
			t.Errorf("expected sequence %d, got %d", i, q.Sequence)
		}
		if _, err := svc.AnswerQuestion(game.ID, q.ID, hider.ID); err != nil {
			t.Fatalf("AnswerQuestion failed: %v", err)
		}
	}
}
