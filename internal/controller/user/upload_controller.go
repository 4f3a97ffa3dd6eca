package user

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/nexera-quiz/config"
	"github.com/lshigami/nexera-quiz/internal/dto"
	"github.com/lshigami/nexera-quiz/internal/service"
	"github.com/rs/zerolog/log"
)

type UploadController struct {
	uploadService service.UploadService
	cfg           *config.Config
}

func NewUploadController(uploadService service.UploadService, cfg *config.Config) *UploadController {
	return &UploadController{uploadService: uploadService, cfg: cfg}
}

// Upload godoc
// @Summary Upload a document and generate a quiz
// @Description Accepts a .pdf, .docx or .txt file, extracts its text and generates 5 multiple-choice and 5 open-ended questions.
// @Tags Quizzes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document to generate the quiz from"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing, empty or unreadable file"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 415 {object} dto.ErrorResponse "Unsupported file type"
// @Failure 502 {object} dto.ErrorResponse "Generator returned an invalid quiz"
// @Failure 500 {object} dto.ErrorResponse "Generation failed"
// @Router /upload [post]
func (ctrl *UploadController) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "A file is required in the 'file' form field", Details: []string{err.Error()}})
		return
	}
	if ctrl.cfg.Upload.MaxBytes > 0 && header.Size > ctrl.cfg.Upload.MaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Message: "File is too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}

	log.Info().Str("userID", userID.String()).Str("filename", header.Filename).Int("bytes", len(data)).Msg("Upload received")

	ctx, cancel := generationContext(c, ctrl.cfg.Gemini.Timeout)
	defer cancel()
	resp, err := ctrl.uploadService.Upload(ctx, userID, header.Filename, data)
	if err != nil {
		respondError(c, err, "Upload failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}
