package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/nexera-quiz/config"
	"github.com/lshigami/nexera-quiz/internal/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
)

// GenerativeTextService turns a prompt into model text. It is the only
// boundary to the hosted model, so tests replace it with a stub.
type GenerativeTextService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var errGeminiUnavailable = errors.New("gemini client not initialized")

type geminiTextService struct {
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiTextService(cfg *config.Config) (GenerativeTextService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Quiz generation and scoring will fail.")
		return &geminiTextService{modelName: cfg.Gemini.Model}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Gemini.Model)
	model.ResponseMIMEType = "application/json"
	return &geminiTextService{model: model, modelName: cfg.Gemini.Model}, nil
}

func (s *geminiTextService) GenerateText(ctx context.Context, prompt string) (text string, err error) {
	ctx, span := tracing.StartSpan(ctx, "gemini.GenerateContent")
	span.SetAttributes(attribute.String("gemini.model", s.modelName), attribute.Int("gemini.prompt_chars", len(prompt)))
	defer func() { tracing.EndSpan(span, err) }()

	if s.model == nil {
		return "", errGeminiUnavailable
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("model", s.modelName).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned no text content")
	}
	span.SetAttributes(attribute.Int("gemini.response_chars", sb.Len()))
	return sb.String(), nil
}
