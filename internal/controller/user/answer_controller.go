package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/nexera-quiz/config"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/service"
)

type AnswerController struct {
	answerService service.AnswerService
	cfg           *config.Config
}

func NewAnswerController(answerService service.AnswerService, cfg *config.Config) *AnswerController {
	return &AnswerController{answerService: answerService, cfg: cfg}
}

// SubmitAnswers godoc
// @Summary Submit answers for a quiz
// @Description Grades the answers with the AI tutor and records the attempt. userAnswers may be a list of {id, answer} objects or a map of question id to answer.
// @Tags Answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmitAnswersRequest true "Quiz id and answers"
// @Success 200 {object} dto.SubmitAnswersResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed body or quiz id"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 422 {object} dto.ErrorResponse "userAnswers must be a list or dict."
// @Failure 500 {object} dto.ErrorResponse "Scoring failed"
// @Router /answers [post]
func (ctrl *AnswerController) SubmitAnswers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	quizID, err := uuid.Parse(req.ResolvedQuizID())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz_id format"})
		return
	}

	ctx, cancel := generationContext(c, ctrl.cfg.Gemini.Timeout)
	defer cancel()
	resp, err := ctrl.answerService.Submit(ctx, userID, quizID, req.UserAnswers)
	if err != nil {
		respondError(c, err, "SubmitAnswers failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAnswerHistory godoc
// @Summary List every graded answer of the current user
// @Tags Answers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AnswerHistoryItem
// @Failure 500 {object} dto.ErrorResponse
// @Router /answers/attempts [get]
func (ctrl *AnswerController) GetAnswerHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := ctrl.answerService.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "GetAnswerHistory failed")
		return
	}
	c.JSON(http.StatusOK, history)
}
