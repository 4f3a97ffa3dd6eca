package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/monitoring"
	"github.com/rs/zerolog/log"
)

const (
	generationModeFull        = "full"
	generationModeIncremental = "incremental"
)

const questionFormatBlock = `Return JSON in the following format:
{
  "questions": [
    {
      "question": "Question here",
      "options": ["A", "B", "C", "D"],
      "answer": "A",
      "explanation": "Explanation here",
      "question_type": "mcq"
    },
    {
      "question": "Explain ...",
      "answer": "Text answer here",
      "explanation": "Explanation here",
      "question_type": "text"
    }
  ]
}`

// QuizGenerationService asks the model for a quiz and returns its raw reply.
// Parsing is left to QuestionNormalizer.
type QuizGenerationService interface {
	GenerateFull(ctx context.Context, text string) (string, error)
	GenerateIncremental(ctx context.Context, text string, priorQuestionTexts []string) (string, error)
}

type quizGenerationService struct {
	textService GenerativeTextService
}

func NewQuizGenerationService(textService GenerativeTextService) QuizGenerationService {
	return &quizGenerationService{textService: textService}
}

func (s *quizGenerationService) GenerateFull(ctx context.Context, text string) (string, error) {
	return s.generate(ctx, generationModeFull, buildFullQuizPrompt(text))
}

func (s *quizGenerationService) GenerateIncremental(ctx context.Context, text string, priorQuestionTexts []string) (string, error) {
	return s.generate(ctx, generationModeIncremental, buildIncrementalQuizPrompt(text, priorQuestionTexts))
}

func (s *quizGenerationService) generate(ctx context.Context, mode, prompt string) (string, error) {
	raw, err := s.textService.GenerateText(ctx, prompt)
	monitoring.QuizGenerations.WithLabelValues(mode, monitoring.Outcome(err)).Inc()
	if err != nil {
		log.Error().Err(err).Str("mode", mode).Msg("Quiz generation call failed")
		return "", &apperr.GenerationServiceError{Err: err}
	}
	log.Debug().Str("mode", mode).Int("responseChars", len(raw)).Msg("Quiz generation call returned")
	return raw, nil
}

func buildFullQuizPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant helping students learn. Based on the following content, ")
	sb.WriteString("generate a quiz with 5 multiple-choice questions and 5 text-based open-ended questions.\n\n")
	sb.WriteString("Each MCQ must have 4 options and exactly one correct answer.\n")
	sb.WriteString("Each text-based question should include an expected answer and explanation.\n\n")
	sb.WriteString("Text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(questionFormatBlock)
	return sb.String()
}

func buildIncrementalQuizPrompt(text string, prior []string) string {
	if prior == nil {
		prior = []string{}
	}
	priorJSON, err := json.Marshal(prior)
	if err != nil {
		priorJSON = []byte("[]")
	}

	var sb strings.Builder
	sb.WriteString("You are a quiz-generating assistant.\n\n")
	sb.WriteString("Based on the text below, generate new multiple-choice and text-based questions (5 each) ")
	sb.WriteString("that are not duplicates of these:\n\n")
	sb.Write(priorJSON)
	sb.WriteString("\n\nEach MCQ must have 4 options and exactly one correct answer.\n\n")
	sb.WriteString(fmt.Sprintf("Text:\n%s\n\n", text))
	sb.WriteString(questionFormatBlock)
	return sb.String()
}
