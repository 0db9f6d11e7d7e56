package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/service"
)

type UploadHandler struct {
	uploadService service.UploadUseCase
}

func NewUploadHandler(uploadService service.UploadUseCase) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload stores a single image sent as "file" or "image".
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
			return
		}
	}

	url, err := h.uploadService.UploadMultipart(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
