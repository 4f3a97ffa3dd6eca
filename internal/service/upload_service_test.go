package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/model"
)

func TestUploadTextFileCreatesQuiz(t *testing.T) {
	stub := &stubTextService{responses: []string{sampleQuizReply("Photo")}}
	env := newTestEnv(t, stub)
	userID := uuid.New()

	resp, err := env.uploads.Upload(context.Background(), userID, "notes.txt", []byte("Photosynthesis converts light into energy."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.Contains(stub.prompts[0], "Photosynthesis converts light into energy.") {
		t.Errorf("prompt does not carry the document text")
	}
	if len(resp.Questions) != 10 {
		t.Fatalf("got %d questions, want 10", len(resp.Questions))
	}
	for i, q := range resp.Questions[:5] {
		if q.QuestionType != model.QuestionTypeMCQ || !reflect.DeepEqual(q.OptionList, mcqOptions(i+1)) {
			t.Errorf("mcq %d = %+v", i, q)
		}
	}
	for i, q := range resp.Questions[5:] {
		if q.QuestionType != model.QuestionTypeText || q.OptionList != nil {
			t.Errorf("text %d = %+v", i, q)
		}
	}

	detail, err := env.quizzes.GetQuiz(context.Background(), userID, resp.QuizID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if !reflect.DeepEqual(detail.Questions, resp.Questions) {
		t.Errorf("stored questions differ from upload response")
	}

	doc, err := env.docRepo.FindByIDForUser(context.Background(), resp.FileID, userID)
	if err != nil {
		t.Fatalf("FindByIDForUser: %v", err)
	}
	if doc.FileType != "text" || doc.OriginalName != "notes.txt" || !strings.HasSuffix(doc.Filename, ".txt") || len(doc.Filename) != 36 {
		t.Errorf("document = %+v", doc)
	}
}

func TestUploadRejectsBeforeCallingGenerator(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     error
	}{
		{"unsupported type", "slides.pptx", "whatever", apperr.ErrUnsupportedType},
		{"whitespace only", "empty.txt", " \n\t ", apperr.ErrEmptyContent},
		{"bad encoding", "latin.txt", "caf\xe9", apperr.ErrUnsupportedEncoding},
		{"corrupt docx", "broken.docx", "not a zip", apperr.ErrCorruptDocument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubTextService{responses: []string{sampleQuizReply("X")}}
			env := newTestEnv(t, stub)

			_, err := env.uploads.Upload(context.Background(), uuid.New(), tc.filename, []byte(tc.data))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if stub.calls() != 0 {
				t.Fatalf("generator called %d times", stub.calls())
			}
			if n := countRows(t, env.db, &model.SourceDocument{}); n != 0 {
				t.Fatalf("documents = %d, want 0", n)
			}
		})
	}
}

func TestUploadWithInvalidSchemaCreatesNoQuiz(t *testing.T) {
	stub := &stubTextService{responses: []string{`{"questions": [{"question": "Q", "question_type": "mcq", "answer": "A"}]}`}}
	env := newTestEnv(t, stub)

	_, err := env.uploads.Upload(context.Background(), uuid.New(), "notes.txt", []byte("Cells divide."))
	if !errors.Is(err, apperr.ErrInvalidQuestionSchema) {
		t.Fatalf("err = %v, want ErrInvalidQuestionSchema", err)
	}
	if n := countRows(t, env.db, &model.Quiz{}); n != 0 {
		t.Fatalf("quizzes = %d, want 0", n)
	}
	if n := countRows(t, env.db, &model.Question{}); n != 0 {
		t.Fatalf("questions = %d, want 0", n)
	}
}

func TestUploadGenerationFailure(t *testing.T) {
	stub := &stubTextService{err: errors.New("quota exceeded")}
	env := newTestEnv(t, stub)

	_, err := env.uploads.Upload(context.Background(), uuid.New(), "notes.txt", []byte("Cells divide."))
	var genErr *apperr.GenerationServiceError
	if !errors.As(err, &genErr) {
		t.Fatalf("err = %T %v, want *GenerationServiceError", err, err)
	}
	if n := countRows(t, env.db, &model.Quiz{}); n != 0 {
		t.Fatalf("quizzes = %d, want 0", n)
	}
}

func TestGenerateMoreAddsSection(t *testing.T) {
	stub := &stubTextService{responses: []string{sampleQuizReply("First"), sampleQuizReply("Second")}}
	env := newTestEnv(t, stub)
	userID := uuid.New()

	first, err := env.uploads.Upload(context.Background(), userID, "notes.txt", []byte("Mitochondria produce ATP."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	more, err := env.sections.GenerateMore(context.Background(), userID, first.FileID)
	if err != nil {
		t.Fatalf("GenerateMore: %v", err)
	}
	if more.SectionNumber != 2 {
		t.Errorf("section = %d, want 2", more.SectionNumber)
	}
	if len(more.Questions) != 10 || more.Questions[0].OptionList == nil || more.Questions[9].OptionList != nil {
		t.Errorf("incremental questions not normalized: %+v", more.Questions)
	}

	prompt := stub.prompts[1]
	if !strings.Contains(prompt, "Mitochondria produce ATP.") || !strings.Contains(prompt, `"First MCQ question 1?"`) {
		t.Errorf("incremental prompt lacks text or prior questions:\n%s", prompt)
	}

	sections, err := env.sections.ListSections(context.Background(), userID, first.FileID)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 2 || sections[0].QuizID != first.QuizID || sections[1].SectionNumber != 2 {
		t.Fatalf("sections = %+v", sections)
	}
}

func TestGenerateMoreForOtherUsersFile(t *testing.T) {
	stub := &stubTextService{responses: []string{sampleQuizReply("A")}}
	env := newTestEnv(t, stub)

	first, err := env.uploads.Upload(context.Background(), uuid.New(), "notes.txt", []byte("Content."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	_, err = env.sections.GenerateMore(context.Background(), uuid.New(), first.FileID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestQuizAndFilesAreScopedToOwner(t *testing.T) {
	stub := &stubTextService{responses: []string{sampleQuizReply("Own")}}
	env := newTestEnv(t, stub)
	owner := uuid.New()

	resp, err := env.uploads.Upload(context.Background(), owner, "notes.txt", []byte("Owned content."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	stranger := uuid.New()
	if _, err := env.quizzes.GetQuiz(context.Background(), stranger, resp.QuizID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetQuiz by stranger: err = %v, want ErrNotFound", err)
	}
	if _, err := env.sections.ListSections(context.Background(), stranger, resp.FileID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("ListSections by stranger: err = %v, want ErrNotFound", err)
	}

	files, err := env.dashboard.Files(context.Background(), owner)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || files[0].ID != resp.FileID || files[0].OriginalName != "notes.txt" || files[0].FileType != "text" {
		t.Fatalf("files = %+v", files)
	}
	others, err := env.dashboard.Files(context.Background(), stranger)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("stranger sees %d files", len(others))
	}
}
