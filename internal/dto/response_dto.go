package dto

import (
	"time"

	"github.com/google/uuid"
)

type QuestionResponse struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"question"`
	OptionList    []string  `json:"options"`
	CorrectAnswer string    `json:"answer"`
	Explanation   string    `json:"explanation"`
	QuestionType  string    `json:"question_type"`
}

type UploadResponse struct {
	QuizID    uuid.UUID          `json:"quiz_id"`
	FileID    uuid.UUID          `json:"file_id"`
	Questions []QuestionResponse `json:"questions"`
}

type QuizDetailResponse struct {
	QuizID    uuid.UUID          `json:"quiz_id"`
	FileID    uuid.UUID          `json:"file_id"`
	CreatedAt time.Time          `json:"created_at"`
	Questions []QuestionResponse `json:"questions"`
}

// ScoredAnswer is one graded question. IsCorrect is null when the grader
// could not decide.
type ScoredAnswer struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     *bool     `json:"is_correct"`
	Explanation   string    `json:"explanation"`
}

type SubmitAnswersResponse struct {
	QuizID      uuid.UUID      `json:"quiz_id"`
	AttemptID   uuid.UUID      `json:"attempt_id"`
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Results     []ScoredAnswer `json:"results"`
}

type AnswerHistoryItem struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	Question      string    `json:"question"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	IsCorrect     *bool     `json:"is_correct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type UserResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
