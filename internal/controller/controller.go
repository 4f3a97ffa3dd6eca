package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/nexera-quiz/config"
	userctrl "github.com/lshigami/nexera-quiz/internal/controller/user"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/middleware"
	"github.com/lshigami/nexera-quiz/internal/monitoring"
)

// Controller owns the route table.
type Controller struct {
	cfg       *config.Config
	limiter   *middleware.RateLimiter
	uploads   *userctrl.UploadController
	answers   *userctrl.AnswerController
	quizzes   *userctrl.QuizController
	dashboard *userctrl.DashboardController
}

func NewController(
	cfg *config.Config,
	limiter *middleware.RateLimiter,
	uploads *userctrl.UploadController,
	answers *userctrl.AnswerController,
	quizzes *userctrl.QuizController,
	dashboard *userctrl.DashboardController,
) *Controller {
	return &Controller{
		cfg:       cfg,
		limiter:   limiter,
		uploads:   uploads,
		answers:   answers,
		quizzes:   quizzes,
		dashboard: dashboard,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/", Health)
	router.GET("/metrics", monitoring.PrometheusHandler())

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(ctrl.cfg.JWT.Secret))
	{
		apiV1.POST("/upload", ctrl.limiter.Middleware(), ctrl.uploads.Upload)

		apiV1.POST("/answers", ctrl.answers.SubmitAnswers)
		apiV1.GET("/answers/attempts", ctrl.answers.GetAnswerHistory)

		apiV1.GET("/quizzes/:quiz_id", ctrl.quizzes.GetQuiz)

		user := apiV1.Group("/user")
		user.GET("/me", ctrl.quizzes.Me)

		dashboard := user.Group("/dashboard")
		dashboard.GET("", ctrl.dashboard.Overview)
		dashboard.GET("/files", ctrl.dashboard.Files)
		dashboard.GET("/files/:file_id/sections", ctrl.dashboard.Sections)
		dashboard.POST("/files/:file_id/generate", ctrl.limiter.Middleware(), ctrl.dashboard.GenerateSection)
		dashboard.GET("/history", ctrl.dashboard.History)
		dashboard.GET("/quiz/:quiz_id/attempts", ctrl.dashboard.QuizAttempts)
		dashboard.GET("/weekly-scores", ctrl.dashboard.WeeklyScores)
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router / [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
