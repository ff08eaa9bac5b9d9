package services

import (
	"hideandseek/models"
)

// EvaluateInput is everything the geographic evaluator needs: the question's
// parameters plus the recorded locations. SeekerEnd is set for thermometer
// questions after lock-in; HiderLocation is set once the hider answers.
type EvaluateInput struct {
	Type          models.QuestionType
	Parameters    models.QuestionParameters
	SeekerStart   models.GeoPoint
	SeekerEnd     *models.GeoPoint
	HiderLocation *models.GeoPoint
}

// EvaluateResult is the computed answer plus the region it rules out.
type EvaluateResult struct {
	Answer    string             `json:"answer"`
	Exclusion *models.GeoPolygon `json:"exclusion"`
}

// AnswerEngine computes the geographic answer for a question. The computation
// itself lives outside this service; implementations must be deterministic
// for identical input so previews stay idempotent.
type AnswerEngine interface {
	Evaluate(in EvaluateInput) (EvaluateResult, error)
}

// PendingAnswerEngine is the default evaluator: it defers all geo math and
// reports every answer as pending with no exclusion zone.
type PendingAnswerEngine struct{}

func (PendingAnswerEngine) Evaluate(EvaluateInput) (EvaluateResult, error) {
	return EvaluateResult{Answer: "pending", Exclusion: nil}, nil
}
