package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/logger"
)

// respondError maps service and landing errors to status codes.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *landing.ValidationError
		uploadErr     *landing.UploadError
		persistErr    *landing.PersistenceError
		limitErr      *landing.SelectionLimitError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          err.Error(),
			"errors":         validationErr.Messages(),
			"section_errors": validationErr.Sections,
		})

	case errors.As(err, &uploadErr):
		status := http.StatusBadGateway
		if isRejectedUpload(uploadErr.Err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": uploadErr.Error(), "section_id": uploadErr.SectionID})

	case errors.Is(err, service.ErrPageNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrSlugConflict),
		errors.Is(err, service.ErrCategoryExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &limitErr),
		errors.Is(err, service.ErrInvalidPageType),
		errors.Is(err, service.ErrPageTitleRequired),
		errors.Is(err, landing.ErrSectionNotFound),
		errors.Is(err, landing.ErrUnsupportedKind),
		errors.Is(err, landing.ErrNotAnImage),
		errors.Is(err, landing.ErrBannerLimit),
		errors.Is(err, landing.ErrButtonLimit),
		errors.Is(err, landing.ErrFieldNotApplicable),
		isRejectedUpload(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &persistErr):
		logger.FromContext(c.Request.Context()).WithError(err).Error("Landing page persistence failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": persistErr.Error()})

	default:
		logger.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isRejectedUpload(err error) bool {
	return errors.Is(err, service.ErrUploadTooLarge) ||
		errors.Is(err, service.ErrUnsupportedUpload) ||
		errors.Is(err, service.ErrEmptyUpload) ||
		errors.Is(err, landing.ErrNotAnImage)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page id"})
		return 0, false
	}
	return uint(id), true
}

func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}
