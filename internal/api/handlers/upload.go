package handlers

import (
	"errors"
	"net/http"

	"github.com/binaryshield/godeye-console/internal/validate"
	"github.com/binaryshield/godeye-console/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UploadHandler struct {
	logger *logrus.Logger
}

func NewUploadHandler(logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{logger: logger}
}

// UploadPreview is the metadata echoed back for a validated image. The file
// itself goes nowhere; this surface exists for client-side preview only.
type UploadPreview struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
}

// HandleUpload validates an uploaded image and returns preview metadata.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "No image file provided", err)
		return
	}

	mime := file.Header.Get("Content-Type")
	if err := validate.File(file.Filename, file.Size, mime); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, validate.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		utils.ErrorResponse(c, status, "Invalid image", err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"name": file.Filename,
		"size": file.Size,
		"mime": mime,
	}).Debug("Image validated for preview")

	utils.SuccessResponse(c, http.StatusOK, "Image accepted", UploadPreview{
		Name: file.Filename,
		Size: file.Size,
		Mime: mime,
	})
}
