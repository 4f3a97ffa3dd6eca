package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/lshigami/nexera-quiz/internal/storage"
	"github.com/lshigami/nexera-quiz/internal/testutil"
	"gorm.io/gorm"
)

// stubTextService replays canned replies in order (the last one repeats)
// unless respond is set.
type stubTextService struct {
	mu        sync.Mutex
	responses []string
	respond   func(prompt string) (string, error)
	err       error
	prompts   []string
}

func (s *stubTextService) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if s.respond != nil {
		return s.respond(prompt)
	}
	if len(s.responses) == 0 {
		return "", errors.New("no stubbed response")
	}
	reply := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return reply, nil
}

func (s *stubTextService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func mcqOptions(i int) []string {
	return []string{
		fmt.Sprintf("Option %d-A", i),
		fmt.Sprintf("Option %d-B", i),
		fmt.Sprintf("Option %d-C", i),
		fmt.Sprintf("Option %d-D", i),
	}
}

// sampleQuizReply mimics a model reply: five mcq and five text questions
// wrapped in a markdown fence and some chatter.
func sampleQuizReply(prefix string) string {
	var items []string
	for i := 1; i <= 5; i++ {
		opts := mcqOptions(i)
		items = append(items, fmt.Sprintf(
			`{"question": "%s MCQ question %d?", "options": ["%s", "%s", "%s", "%s"], "answer": "%s", "explanation": "Because %d.", "question_type": "mcq"}`,
			prefix, i, opts[0], opts[1], opts[2], opts[3], opts[0], i))
	}
	for i := 1; i <= 5; i++ {
		items = append(items, fmt.Sprintf(
			`{"question": "%s Explain topic %d.", "answer": "Expected answer %d", "explanation": "Topic %d {matters}.", "question_type": "text"}`,
			prefix, i, i, i))
	}
	return "Sure! Here is your quiz:\n```json\n{\"questions\": [" + strings.Join(items, ",\n") + "]}\n```\nGood luck!"
}

type testEnv struct {
	db           *gorm.DB
	docRepo      repository.SourceDocumentRepository
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.QuizAttemptRepository
	answerRepo   repository.UserAnswerRepository
	text         *stubTextService

	uploads   UploadService
	sections  SectionService
	answers   AnswerService
	quizzes   QuizService
	dashboard DashboardService
}

func newTestEnv(t *testing.T, text *stubTextService) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	env := &testEnv{
		db:           db,
		docRepo:      repository.NewSourceDocumentRepository(db),
		quizRepo:     repository.NewQuizRepository(db),
		questionRepo: repository.NewQuestionRepository(db),
		attemptRepo:  repository.NewQuizAttemptRepository(db),
		answerRepo:   repository.NewUserAnswerRepository(db),
		text:         text,
	}

	fileStorage := storage.NewLocalStorage(t.TempDir())
	generator := NewQuizGenerationService(text)
	normalizer := NewQuestionNormalizer(env.questionRepo)
	persistence := NewQuizPersistenceService(db, env.quizRepo, env.questionRepo)
	scoring := NewScoringService(text)
	recorder := NewAttemptRecorder(db, env.attemptRepo, env.answerRepo)

	env.uploads = NewUploadService(fileStorage, env.docRepo, generator, normalizer, persistence)
	env.sections = NewSectionService(fileStorage, env.docRepo, env.quizRepo, env.questionRepo, generator, normalizer, persistence)
	env.answers = NewAnswerService(env.quizRepo, env.answerRepo, scoring, recorder)
	env.quizzes = NewQuizService(env.quizRepo)
	env.dashboard = NewDashboardService(env.docRepo, env.quizRepo, env.questionRepo, env.attemptRepo)
	return env
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
