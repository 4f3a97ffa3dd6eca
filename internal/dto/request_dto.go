package dto

import "encoding/json"

// SubmitAnswersRequest is the body of POST /answers. UserAnswers is kept raw
// so that its shape can be validated before anything is sent for scoring.
type SubmitAnswersRequest struct {
	QuizID      string          `json:"quiz_id"`
	UserAnswers json.RawMessage `json:"userAnswers" swaggertype:"object"`
	QuizData    *QuizReference  `json:"quizData,omitempty"`
}

type QuizReference struct {
	QuizID string `json:"quiz_id"`
}

// ResolvedQuizID prefers the top-level quiz_id over quizData.quiz_id.
func (r SubmitAnswersRequest) ResolvedQuizID() string {
	if r.QuizID != "" {
		return r.QuizID
	}
	if r.QuizData != nil {
		return r.QuizData.QuizID
	}
	return ""
}
