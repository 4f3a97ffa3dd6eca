package dto

import (
	"time"

	"github.com/google/uuid"
)

type DashboardQuizItem struct {
	QuizID        uuid.UUID `json:"quiz_id"`
	FileName      string    `json:"file_name"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
}

type FileResponse struct {
	ID           uuid.UUID `json:"file_id"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type SectionResponse struct {
	QuizID        uuid.UUID          `json:"quiz_id"`
	SectionNumber int                `json:"section_number"`
	CreatedAt     time.Time          `json:"created_at"`
	Questions     []QuestionResponse `json:"questions"`
}

type GenerateSectionResponse struct {
	QuizID        uuid.UUID          `json:"quiz_id"`
	FileID        uuid.UUID          `json:"file_id"`
	SectionNumber int                `json:"section_number"`
	Questions     []QuestionResponse `json:"questions"`
}

type HistoryItem struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	Label        string    `json:"label"`
	Score        *int      `json:"score"`
	SubmittedAt  time.Time `json:"submitted_at"`
	NumQuestions int       `json:"num_questions"`
}

type AttemptSummary struct {
	ID          uuid.UUID `json:"attempt_id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	Score       *int      `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// WeeklyScore.WeekStart is the Monday of the week as YYYY-MM-DD.
type WeeklyScore struct {
	WeekStart string  `json:"week_start"`
	AvgScore  float64 `json:"avg_score"`
}
