package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/middleware"
	"github.com/lshigami/nexera-quiz/internal/service"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(quizService service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// GetQuiz godoc
// @Summary Get a quiz with its questions
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id} [get]
func (ctrl *QuizController) GetQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	quiz, err := ctrl.quizService.GetQuiz(c.Request.Context(), userID, quizID)
	if err != nil {
		respondError(c, err, "GetQuiz failed")
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Me godoc
// @Summary Identity of the current user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /user/me [get]
func (ctrl *QuizController) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{UserID: userID, Email: c.GetString(middleware.ContextEmail)})
}
