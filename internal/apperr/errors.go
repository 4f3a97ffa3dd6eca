package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType              = errors.New("unsupported file type")
	ErrCorruptDocument              = errors.New("document is invalid or corrupted")
	ErrUnsupportedEncoding          = errors.New("text file is not valid UTF-8")
	ErrEmptyContent                 = errors.New("uploaded file has no readable content")
	ErrGenerationService            = errors.New("quiz generation service failed")
	ErrScoringService               = errors.New("answer scoring service failed")
	ErrUnparsableGenerationResponse = errors.New("generation service returned unparsable JSON")
	ErrInvalidQuestionSchema        = errors.New("generated question does not match the expected schema")
	ErrIdentifierExhausted          = errors.New("could not allocate a unique question identifier")
	ErrInvalidAnswerPayload         = errors.New("userAnswers must be a list or dict")
	ErrNotFound                     = errors.New("record not found")
)

// GenerationServiceError wraps a transport or service failure of the quiz
// generation call.
type GenerationServiceError struct {
	Err error
}

func (e *GenerationServiceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrGenerationService, e.Err)
}

func (e *GenerationServiceError) Unwrap() error { return e.Err }

func (e *GenerationServiceError) Is(target error) bool { return target == ErrGenerationService }

// ScoringServiceError covers the grading call and the parsing of its verdicts.
type ScoringServiceError struct {
	Err error
}

func (e *ScoringServiceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrScoringService, e.Err)
}

func (e *ScoringServiceError) Unwrap() error { return e.Err }

func (e *ScoringServiceError) Is(target error) bool { return target == ErrScoringService }

// UnparsableResponseError keeps the raw model output for diagnostics.
type UnparsableResponseError struct {
	Raw string
	Err error
}

func (e *UnparsableResponseError) Error() string {
	if e.Err == nil {
		return ErrUnparsableGenerationResponse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrUnparsableGenerationResponse, e.Err)
}

func (e *UnparsableResponseError) Unwrap() error { return e.Err }

func (e *UnparsableResponseError) Is(target error) bool {
	return target == ErrUnparsableGenerationResponse
}

// InvalidSchema builds an ErrInvalidQuestionSchema error for the item at index.
func InvalidSchema(index int, reason string) error {
	return fmt.Errorf("%w: question %d: %s", ErrInvalidQuestionSchema, index, reason)
}
