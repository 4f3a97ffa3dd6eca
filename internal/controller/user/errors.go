package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/internal/apperr"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/middleware"
	"github.com/rs/zerolog/log"
)

// statusFor maps domain errors to an HTTP status and a client-facing
// message. Upstream failures get a generic message; the cause is only logged.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, apperr.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "Unsupported file type. Upload a .pdf, .docx or .txt file.", true
	case errors.Is(err, apperr.ErrCorruptDocument),
		errors.Is(err, apperr.ErrUnsupportedEncoding),
		errors.Is(err, apperr.ErrEmptyContent):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, apperr.ErrInvalidAnswerPayload):
		return http.StatusUnprocessableEntity, apperr.ErrInvalidAnswerPayload.Error() + ".", false
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not found", false
	case errors.Is(err, apperr.ErrUnparsableGenerationResponse),
		errors.Is(err, apperr.ErrInvalidQuestionSchema):
		return http.StatusBadGateway, "The quiz generator returned an invalid quiz. Please try again.", false
	case errors.Is(err, apperr.ErrGenerationService):
		return http.StatusInternalServerError, "Quiz generation failed. Please try again later.", false
	case errors.Is(err, apperr.ErrScoringService):
		return http.StatusInternalServerError, "Answer scoring failed. Please try again later.", false
	case errors.Is(err, apperr.ErrIdentifierExhausted):
		return http.StatusInternalServerError, "Could not allocate question identifiers", false
	default:
		return http.StatusInternalServerError, "Internal server error", false
	}
}

func respondError(c *gin.Context, err error, action string) {
	status, message, withDetails := statusFor(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Str("path", c.FullPath()).Msg(action)

	resp := dto.ErrorResponse{Message: message}
	if withDetails {
		resp.Details = []string{err.Error()}
	}
	c.JSON(status, resp)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// generationContext bounds calls to the hosted model. A zero timeout means no limit.
func generationContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
