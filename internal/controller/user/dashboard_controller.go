package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/nexera-quiz/config"
	"github.com/lshigami/nexera-quiz/internal/service"
)

type DashboardController struct {
	dashboardService service.DashboardService
	sectionService   service.SectionService
	cfg              *config.Config
}

func NewDashboardController(dashboardService service.DashboardService, sectionService service.SectionService, cfg *config.Config) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, sectionService: sectionService, cfg: cfg}
}

// Overview godoc
// @Summary Quizzes generated from the user's files
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.DashboardQuizItem
// @Failure 500 {object} dto.ErrorResponse
// @Router /user/dashboard [get]
func (ctrl *DashboardController) Overview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := ctrl.dashboardService.Overview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Dashboard overview failed")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Files godoc
// @Summary Documents uploaded by the user
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FileResponse
// @Router /user/dashboard/files [get]
func (ctrl *DashboardController) Files(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	files, err := ctrl.dashboardService.Files(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Dashboard files failed")
		return
	}
	c.JSON(http.StatusOK, files)
}

// Sections godoc
// @Summary Quiz sections generated from one file
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param file_id path string true "File ID"
// @Success 200 {array} dto.SectionResponse
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Router /user/dashboard/files/{file_id}/sections [get]
func (ctrl *DashboardController) Sections(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fileID, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}
	sections, err := ctrl.sectionService.ListSections(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err, "Dashboard sections failed")
		return
	}
	c.JSON(http.StatusOK, sections)
}

// GenerateSection godoc
// @Summary Generate another quiz section from a stored file
// @Description Re-reads the document and asks for questions that do not repeat earlier sections.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param file_id path string true "File ID"
// @Success 200 {object} dto.GenerateSectionResponse
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 502 {object} dto.ErrorResponse "Generator returned an invalid quiz"
// @Failure 500 {object} dto.ErrorResponse "Generation failed"
// @Router /user/dashboard/files/{file_id}/generate [post]
func (ctrl *DashboardController) GenerateSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	fileID, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}
	ctx, cancel := generationContext(c, ctrl.cfg.Gemini.Timeout)
	defer cancel()
	resp, err := ctrl.sectionService.GenerateMore(ctx, userID, fileID)
	if err != nil {
		respondError(c, err, "Generate section failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Latest attempt per quiz
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.HistoryItem
// @Router /user/dashboard/history [get]
func (ctrl *DashboardController) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := ctrl.dashboardService.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Dashboard history failed")
		return
	}
	c.JSON(http.StatusOK, items)
}

// QuizAttempts godoc
// @Summary All attempts of the user for one quiz
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {array} dto.AttemptSummary
// @Router /user/dashboard/quiz/{quiz_id}/attempts [get]
func (ctrl *DashboardController) QuizAttempts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	attempts, err := ctrl.dashboardService.QuizAttempts(c.Request.Context(), userID, quizID)
	if err != nil {
		respondError(c, err, "Dashboard quiz attempts failed")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// WeeklyScores godoc
// @Summary Average score per week over the last 90 days
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.WeeklyScore
// @Router /user/dashboard/weekly-scores [get]
func (ctrl *DashboardController) WeeklyScores(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	scores, err := ctrl.dashboardService.WeeklyScores(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Dashboard weekly scores failed")
		return
	}
	c.JSON(http.StatusOK, scores)
}
