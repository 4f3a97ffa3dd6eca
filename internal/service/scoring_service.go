package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/model"
	"github.com/lshigami/nexera-quiz/internal/monitoring"
	"github.com/rs/zerolog/log"
)

const UnansweredPlaceholder = "Unanswered"

// Correctness is the grader's verdict on one answer.
type Correctness int

const (
	Indeterminate Correctness = iota
	Correct
	Incorrect
)

// Bool maps Correct and Incorrect to true and false, anything else to nil.
func (c Correctness) Bool() *bool {
	var v bool
	switch c {
	case Correct:
		v = true
	case Incorrect:
		v = false
	default:
		return nil
	}
	return &v
}

func (c Correctness) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "indeterminate"
	}
}

type Verdict struct {
	QuestionID    uuid.UUID
	Question      string
	UserAnswer    string
	CorrectAnswer string
	Correctness   Correctness
	Explanation   string
}

type ScoringResult struct {
	QuizID   uuid.UUID
	Verdicts []Verdict
}

// ReconciledAnswer pairs a quiz question with what the user submitted.
type ReconciledAnswer struct {
	QuestionID string
	Answer     string
	Answered   bool
}

type ScoringService interface {
	ValidateAnswers(raw json.RawMessage) (any, error)
	ReconcileAnswers(questionIDs []string, userAnswers any) []ReconciledAnswer
	Score(ctx context.Context, quiz *model.Quiz, rawAnswers json.RawMessage) (*ScoringResult, error)
}

type scoringService struct {
	textService GenerativeTextService
}

func NewScoringService(textService GenerativeTextService) ScoringService {
	return &scoringService{textService: textService}
}

// ValidateAnswers accepts a JSON list or object and rejects everything else.
func (s *scoringService) ValidateAnswers(raw json.RawMessage) (any, error) {
	if isJSONNull(raw) {
		return nil, apperr.ErrInvalidAnswerPayload
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidAnswerPayload, err)
	}
	switch v.(type) {
	case []any, map[string]any:
		return v, nil
	default:
		return nil, apperr.ErrInvalidAnswerPayload
	}
}

func (s *scoringService) ReconcileAnswers(questionIDs []string, userAnswers any) []ReconciledAnswer {
	submitted := make(map[string]string)
	switch answers := userAnswers.(type) {
	case map[string]any:
		for id, value := range answers {
			if text, ok := answerText(value); ok {
				submitted[answerKey(id)] = text
			}
		}
	case []any:
		for _, entry := range answers {
			item, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			id, _ := firstString(item, "id", "question_id")
			if id == "" {
				continue
			}
			value, present := firstPresent(item, "answer", "user_answer")
			if !present {
				continue
			}
			if text, ok := answerText(value); ok {
				submitted[answerKey(id)] = text
			}
		}
	}

	reconciled := make([]ReconciledAnswer, 0, len(questionIDs))
	for _, id := range questionIDs {
		if text, ok := submitted[answerKey(id)]; ok {
			reconciled = append(reconciled, ReconciledAnswer{QuestionID: id, Answer: text, Answered: true})
			continue
		}
		reconciled = append(reconciled, ReconciledAnswer{QuestionID: id, Answer: UnansweredPlaceholder})
	}
	return reconciled
}

func (s *scoringService) Score(ctx context.Context, quiz *model.Quiz, rawAnswers json.RawMessage) (*ScoringResult, error) {
	userAnswers, err := s.ValidateAnswers(rawAnswers)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]string, 0, len(quiz.Questions))
	questions := make(map[uuid.UUID]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionIDs = append(questionIDs, q.ID.String())
		questions[q.ID] = q
	}

	reconciled := s.ReconcileAnswers(questionIDs, userAnswers)
	unanswered := 0
	byID := make(map[string]ReconciledAnswer, len(reconciled))
	for _, r := range reconciled {
		byID[r.QuestionID] = r
		if !r.Answered {
			unanswered++
		}
	}
	log.Info().Str("quizID", quiz.ID.String()).Int("questions", len(reconciled)).Int("unanswered", unanswered).Msg("Scoring submission")

	prompt, err := buildScoringPrompt(quiz, rawAnswers)
	if err != nil {
		return nil, &apperr.ScoringServiceError{Err: err}
	}

	raw, err := s.textService.GenerateText(ctx, prompt)
	if err != nil {
		monitoring.ScoringRequests.WithLabelValues(monitoring.OutcomeFailure).Inc()
		log.Error().Err(err).Str("quizID", quiz.ID.String()).Msg("Scoring call failed")
		return nil, &apperr.ScoringServiceError{Err: err}
	}

	verdicts, err := parseVerdicts(raw, questions, byID)
	monitoring.ScoringRequests.WithLabelValues(monitoring.Outcome(err)).Inc()
	if err != nil {
		log.Error().Err(err).Str("quizID", quiz.ID.String()).Msg("Scoring response rejected")
		return nil, &apperr.ScoringServiceError{Err: err}
	}
	return &ScoringResult{QuizID: quiz.ID, Verdicts: verdicts}, nil
}

type scoringQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Explanation  string   `json:"explanation"`
}

func buildScoringPrompt(quiz *model.Quiz, rawAnswers json.RawMessage) (string, error) {
	payload := struct {
		QuizID    string            `json:"quiz_id"`
		Questions []scoringQuestion `json:"questions"`
	}{QuizID: quiz.ID.String()}
	for _, q := range quiz.Questions {
		payload.Questions = append(payload.Questions, scoringQuestion{
			ID:           q.ID.String(),
			Question:     q.Text,
			QuestionType: q.QuestionType,
			Options:      q.OptionList(),
			Answer:       q.CorrectAnswer,
			Explanation:  q.Explanation,
		})
	}
	quizJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode quiz payload: %w", err)
	}
	var answers bytes.Buffer
	if err := json.Compact(&answers, rawAnswers); err != nil {
		return "", fmt.Errorf("encode user answers: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are an AI tutor.\n\n")
	sb.WriteString("Below is a quiz and a user's selected answers. For each question, return:\n")
	sb.WriteString("- the correct answer\n- whether the user was right\n- a brief explanation\n\n")
	sb.WriteString("Unanswered questions are wrong. If you cannot decide, set \"is_correct\" to null.\n\n")
	sb.WriteString(`Respond strictly in JSON format as:
{
  "results": [
    {
      "id": "uuid",
      "question": "...",
      "user_answer": "...",
      "correct_answer": "...",
      "is_correct": true,
      "explanation": "..."
    }
  ]
}`)
	sb.WriteString("\n\nQuiz:\n")
	sb.Write(quizJSON)
	sb.WriteString("\n\nUser Answers:\n")
	sb.Write(answers.Bytes())
	sb.WriteString("\n")
	return sb.String(), nil
}

type gradedItem struct {
	ID            json.RawMessage `json:"id"`
	Question      json.RawMessage `json:"question"`
	UserAnswer    json.RawMessage `json:"user_answer"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	IsCorrect     json.RawMessage `json:"is_correct"`
	Explanation   json.RawMessage `json:"explanation"`
}

func parseVerdicts(raw string, questions map[uuid.UUID]model.Question, answers map[string]ReconciledAnswer) ([]Verdict, error) {
	object, ok := extractJSONObject(raw)
	if !ok {
		return nil, errors.New("no JSON object in scoring response")
	}
	var document map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &document); err != nil {
		return nil, fmt.Errorf("decode scoring response: %w", err)
	}
	resultsRaw, ok := document["results"]
	if !ok || isJSONNull(resultsRaw) {
		return nil, errors.New("scoring response has no \"results\" list")
	}
	var results []gradedItem
	if err := json.Unmarshal(resultsRaw, &results); err != nil {
		return nil, fmt.Errorf("decode scoring results: %w", err)
	}
	if len(results) == 0 && len(questions) > 0 {
		return nil, errors.New("scoring response has no verdicts")
	}

	verdicts := make([]Verdict, 0, len(results))
	seen := make(map[uuid.UUID]bool, len(results))
	for i, item := range results {
		idText, _ := jsonString(item.ID)
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("result %d: invalid question id %q", i, idText)
		}
		question, ok := questions[id]
		if !ok {
			return nil, fmt.Errorf("result %d: question %s is not part of the quiz", i, id)
		}
		if seen[id] {
			log.Warn().Str("questionID", id.String()).Msg("Duplicate verdict ignored")
			continue
		}
		seen[id] = true

		v := Verdict{
			QuestionID:  id,
			Question:    question.Text,
			Correctness: correctnessOf(item.IsCorrect),
		}
		if text, ok := jsonString(item.Question); ok && text != "" {
			v.Question = text
		}
		if text, ok := jsonString(item.UserAnswer); ok {
			v.UserAnswer = text
		} else {
			v.UserAnswer = answers[id.String()].Answer
		}
		if text, ok := jsonString(item.CorrectAnswer); ok {
			v.CorrectAnswer = text
		} else {
			v.CorrectAnswer = question.CorrectAnswer
		}
		if text, ok := jsonString(item.Explanation); ok {
			v.Explanation = text
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// correctnessOf accepts only JSON booleans; strings, numbers and null are
// indeterminate.
func correctnessOf(raw json.RawMessage) Correctness {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return Correct
	case "false":
		return Incorrect
	default:
		return Indeterminate
	}
}

func answerText(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return fmt.Sprint(v), true
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}

// answerKey folds the spellings uuid.Parse accepts (upper case, braces, urn
// prefix) into the canonical form. Other ids are only trimmed.
func answerKey(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

func firstString(item map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := item[key]; ok {
			switch s := v.(type) {
			case string:
				return s, true
			case json.Number:
				return s.String(), true
			}
		}
	}
	return "", false
}

func firstPresent(item map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := item[key]; ok {
			return v, true
		}
	}
	return nil, false
}
