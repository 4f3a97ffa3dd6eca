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
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/rs/zerolog/log"
)

const maxIdentifierAttempts = 5

// NormalizedQuestion is a generated question ready to be stored.
// Options is nil for every type except mcq.
type NormalizedQuestion struct {
	ID            uuid.UUID
	Text          string
	QuestionType  string
	Options       []string
	CorrectAnswer string
	Explanation   string
}

type QuestionNormalizer interface {
	Normalize(ctx context.Context, raw string) ([]NormalizedQuestion, error)
}

type questionNormalizer struct {
	questionRepo repository.QuestionRepository
	newID        func() uuid.UUID
}

func NewQuestionNormalizer(questionRepo repository.QuestionRepository) QuestionNormalizer {
	return &questionNormalizer{questionRepo: questionRepo, newID: uuid.New}
}

type generatedQuestion struct {
	Question     json.RawMessage `json:"question"`
	Options      json.RawMessage `json:"options"`
	Answer       json.RawMessage `json:"answer"`
	Explanation  json.RawMessage `json:"explanation"`
	QuestionType json.RawMessage `json:"question_type"`
}

func (n *questionNormalizer) Normalize(ctx context.Context, raw string) ([]NormalizedQuestion, error) {
	items, err := parseGeneratedQuestions(raw)
	if err != nil {
		return nil, err
	}

	taken := make(map[uuid.UUID]struct{}, len(items))
	normalized := make([]NormalizedQuestion, 0, len(items))
	for i, item := range items {
		q, err := normalizeItem(i, item)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Generated question rejected")
			return nil, err
		}
		q.ID, err = n.assignID(ctx, taken)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, q)
	}
	return normalized, nil
}

func parseGeneratedQuestions(raw string) ([]generatedQuestion, error) {
	object, ok := extractJSONObject(raw)
	if !ok {
		return nil, &apperr.UnparsableResponseError{Raw: raw, Err: errors.New("no JSON object found")}
	}

	var document map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &document); err != nil {
		return nil, &apperr.UnparsableResponseError{Raw: raw, Err: err}
	}

	questionsRaw, ok := document["questions"]
	if !ok || isJSONNull(questionsRaw) {
		return nil, fmt.Errorf("%w: missing \"questions\"", apperr.ErrInvalidQuestionSchema)
	}
	var items []generatedQuestion
	if err := json.Unmarshal(questionsRaw, &items); err != nil {
		return nil, fmt.Errorf("%w: \"questions\" is not a list of objects: %v", apperr.ErrInvalidQuestionSchema, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: \"questions\" is empty", apperr.ErrInvalidQuestionSchema)
	}
	return items, nil
}

func normalizeItem(index int, item generatedQuestion) (NormalizedQuestion, error) {
	var q NormalizedQuestion

	text, ok := jsonString(item.Question)
	if !ok || strings.TrimSpace(text) == "" {
		return q, apperr.InvalidSchema(index, "question text is missing")
	}
	q.Text = text

	q.QuestionType = model.QuestionTypeMCQ
	if qt, ok := jsonString(item.QuestionType); ok && strings.TrimSpace(qt) != "" {
		q.QuestionType = strings.ToLower(strings.TrimSpace(qt))
	}

	if q.QuestionType == model.QuestionTypeMCQ {
		var options []string
		if len(item.Options) == 0 || json.Unmarshal(item.Options, &options) != nil || len(options) == 0 {
			return q, apperr.InvalidSchema(index, "mcq requires a non-empty list of string options")
		}
		q.Options = options
	}

	q.CorrectAnswer = jsonScalarText(item.Answer)

	q.Explanation = model.DefaultExplanation
	if explanation, ok := jsonString(item.Explanation); ok && strings.TrimSpace(explanation) != "" {
		q.Explanation = explanation
	}
	return q, nil
}

// assignID draws fresh IDs until one is unused both in this batch and in the
// database, giving up after maxIdentifierAttempts.
func (n *questionNormalizer) assignID(ctx context.Context, taken map[uuid.UUID]struct{}) (uuid.UUID, error) {
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		id := n.newID()
		if _, dup := taken[id]; dup {
			continue
		}
		exists, err := n.questionRepo.ExistsByID(ctx, id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("check question id: %w", err)
		}
		if !exists {
			taken[id] = struct{}{}
			return id, nil
		}
	}
	log.Error().Int("attempts", maxIdentifierAttempts).Msg("Question ID generation exhausted")
	return uuid.Nil, apperr.ErrIdentifierExhausted
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonString(raw json.RawMessage) (string, bool) {
	if isJSONNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// jsonScalarText renders strings as-is and other scalars in their JSON form.
func jsonScalarText(raw json.RawMessage) string {
	if isJSONNull(raw) {
		return ""
	}
	if s, ok := jsonString(raw); ok {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
