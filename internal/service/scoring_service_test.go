package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/model"
)

func scoringQuiz(n int) *model.Quiz {
	quiz := &model.Quiz{ID: uuid.New()}
	for i := 0; i < n; i++ {
		q := model.Question{
			ID:            uuid.New(),
			QuizID:        quiz.ID,
			Text:          fmt.Sprintf("Question %d", i+1),
			QuestionType:  model.QuestionTypeMCQ,
			CorrectAnswer: "A",
			Explanation:   "Because.",
		}
		q.SetOptions([]string{"A", "B", "C", "D"})
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

func TestValidateAnswers(t *testing.T) {
	svc := NewScoringService(&stubTextService{})
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{`[{"id": "x", "answer": "A"}]`, false},
		{`{"x": "A"}`, false},
		{`[]`, false},
		{`"A"`, true},
		{`42`, true},
		{`true`, true},
		{`null`, true},
		{``, true},
		{`{broken`, true},
	}
	for _, tc := range tests {
		_, err := svc.ValidateAnswers(json.RawMessage(tc.raw))
		if tc.wantErr && !errors.Is(err, apperr.ErrInvalidAnswerPayload) {
			t.Errorf("ValidateAnswers(%q) err = %v, want ErrInvalidAnswerPayload", tc.raw, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("ValidateAnswers(%q) unexpected err %v", tc.raw, err)
		}
	}
}

func TestScoreRejectsInvalidPayloadWithoutCallingService(t *testing.T) {
	stub := &stubTextService{responses: []string{`{"results": []}`}}
	svc := NewScoringService(stub)

	_, err := svc.Score(context.Background(), scoringQuiz(2), json.RawMessage(`"just a string"`))
	if !errors.Is(err, apperr.ErrInvalidAnswerPayload) {
		t.Fatalf("err = %v, want ErrInvalidAnswerPayload", err)
	}
	if stub.calls() != 0 {
		t.Fatalf("scoring service called %d times, want 0", stub.calls())
	}
}

func TestReconcileAnswersFillsUnanswered(t *testing.T) {
	svc := NewScoringService(&stubTextService{})
	ids := []string{"q1", "q2", "q3", "q4"}

	t.Run("list", func(t *testing.T) {
		answers, err := svc.ValidateAnswers(json.RawMessage(`[
			{"id": "q1", "answer": "A"},
			{"question_id": "q3", "user_answer": "C"},
			{"id": "q4", "answer": ""},
			{"id": "other", "answer": "Z"}
		]`))
		if err != nil {
			t.Fatal(err)
		}
		got := svc.ReconcileAnswers(ids, answers)
		want := []ReconciledAnswer{
			{QuestionID: "q1", Answer: "A", Answered: true},
			{QuestionID: "q2", Answer: UnansweredPlaceholder},
			{QuestionID: "q3", Answer: "C", Answered: true},
			{QuestionID: "q4", Answer: UnansweredPlaceholder},
		}
		assertReconciled(t, got, want)
	})

	t.Run("map", func(t *testing.T) {
		answers, err := svc.ValidateAnswers(json.RawMessage(`{"q2": "B", "q4": 7}`))
		if err != nil {
			t.Fatal(err)
		}
		got := svc.ReconcileAnswers(ids, answers)
		want := []ReconciledAnswer{
			{QuestionID: "q1", Answer: UnansweredPlaceholder},
			{QuestionID: "q2", Answer: "B", Answered: true},
			{QuestionID: "q3", Answer: UnansweredPlaceholder},
			{QuestionID: "q4", Answer: "7", Answered: true},
		}
		assertReconciled(t, got, want)
	})
}

func assertReconciled(t *testing.T, got, want []ReconciledAnswer) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScoreParsesVerdicts(t *testing.T) {
	quiz := scoringQuiz(3)
	q := quiz.Questions
	reply := fmt.Sprintf("```json\n{\"results\": ["+
		`{"id": %q, "question": "Question 1", "user_answer": "A", "correct_answer": "A", "is_correct": true, "explanation": "Right."},`+
		`{"id": %q, "is_correct": false, "explanation": "Wrong."},`+
		`{"id": %q, "user_answer": "maybe", "correct_answer": "A", "is_correct": "unclear"}`+
		"]}\n```", q[0].ID, q[1].ID, q[2].ID)
	stub := &stubTextService{responses: []string{reply}}
	svc := NewScoringService(stub)

	result, err := svc.Score(context.Background(), quiz, json.RawMessage(fmt.Sprintf(`{%q: "A"}`, q[0].ID)))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(result.Verdicts) != 3 {
		t.Fatalf("got %d verdicts, want 3", len(result.Verdicts))
	}

	v := result.Verdicts
	if v[0].Correctness != Correct || v[1].Correctness != Incorrect || v[2].Correctness != Indeterminate {
		t.Errorf("correctness = %v %v %v", v[0].Correctness, v[1].Correctness, v[2].Correctness)
	}
	if v[1].UserAnswer != UnansweredPlaceholder {
		t.Errorf("missing user_answer filled with %q, want %q", v[1].UserAnswer, UnansweredPlaceholder)
	}
	if v[1].CorrectAnswer != "A" || v[1].Question != "Question 2" {
		t.Errorf("missing fields not taken from quiz: %+v", v[1])
	}

	prompt := stub.prompts[0]
	if !strings.Contains(prompt, q[2].ID.String()) || !strings.Contains(prompt, `"answer": "A"`) {
		t.Errorf("prompt lacks quiz payload:\n%s", prompt)
	}
}

func TestScoreRejectsVerdictForUnknownQuestion(t *testing.T) {
	quiz := scoringQuiz(1)
	stub := &stubTextService{responses: []string{fmt.Sprintf(`{"results": [{"id": %q, "is_correct": true}]}`, uuid.New())}}

	_, err := NewScoringService(stub).Score(context.Background(), quiz, json.RawMessage(`[]`))
	if !errors.Is(err, apperr.ErrScoringService) {
		t.Fatalf("err = %v, want ErrScoringService", err)
	}
}

func TestScoreWrapsServiceFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *stubTextService
	}{
		{"transport", &stubTextService{err: errors.New("connection reset")}},
		{"unparsable", &stubTextService{responses: []string{"Sorry, I cannot grade this."}}},
		{"results missing", &stubTextService{responses: []string{`{"verdicts": []}`}}},
		{"results null", &stubTextService{responses: []string{`{"results": null}`}}},
		{"results not a list", &stubTextService{responses: []string{`{"results": {"id": "x"}}`}}},
		{"results empty", &stubTextService{responses: []string{`{"results": []}`}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScoringService(tc.stub).Score(context.Background(), scoringQuiz(1), json.RawMessage(`{}`))
			var scoringErr *apperr.ScoringServiceError
			if !errors.As(err, &scoringErr) {
				t.Fatalf("err = %T %v, want *ScoringServiceError", err, err)
			}
		})
	}
}

func TestCorrectnessBool(t *testing.T) {
	if b := Correct.Bool(); b == nil || !*b {
		t.Error("Correct should map to true")
	}
	if b := Incorrect.Bool(); b == nil || *b {
		t.Error("Incorrect should map to false")
	}
	if Indeterminate.Bool() != nil {
		t.Error("Indeterminate should map to nil")
	}
}

func TestReconcileAnswersCanonicalizesQuestionIDs(t *testing.T) {
	svc := NewScoringService(&stubTextService{})
	first, second := uuid.New(), uuid.New()
	ids := []string{first.String(), second.String()}

	answers, err := svc.ValidateAnswers(json.RawMessage(fmt.Sprintf(
		`{%q: "Paris", %q: "Rome"}`, strings.ToUpper(first.String()), "{"+second.String()+"}")))
	if err != nil {
		t.Fatal(err)
	}
	got := svc.ReconcileAnswers(ids, answers)
	want := []ReconciledAnswer{
		{QuestionID: first.String(), Answer: "Paris", Answered: true},
		{QuestionID: second.String(), Answer: "Rome", Answered: true},
	}
	assertReconciled(t, got, want)
}

func TestScoreKeepsAnswerSubmittedUnderUpperCaseID(t *testing.T) {
	quiz := scoringQuiz(1)
	id := quiz.Questions[0].ID
	stub := &stubTextService{responses: []string{fmt.Sprintf(`{"results": [{"id": %q, "is_correct": true}]}`, id)}}

	raw := json.RawMessage(fmt.Sprintf(`[{"id": %q, "answer": "A"}]`, strings.ToUpper(id.String())))
	result, err := NewScoringService(stub).Score(context.Background(), quiz, raw)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := result.Verdicts[0].UserAnswer; got != "A" {
		t.Fatalf("user answer = %q, want %q", got, "A")
	}
}
