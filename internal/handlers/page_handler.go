package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/service"
)

type PageHandler struct {
	pageService service.PageUseCase
}

func NewPageHandler(pageService service.PageUseCase) *PageHandler {
	return &PageHandler{pageService: pageService}
}

func (h *PageHandler) Create(c *gin.Context) {
	var req models.LandingPagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.CreatePage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"page": page})
}

func (h *PageHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.LandingPagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.UpdatePage(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.pageService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page deleted successfully"})
}

func (h *PageHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, err := h.pageService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) GetBySlug(c *gin.Context) {
	page, err := h.pageService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

// GetBySlugAdmin previews a page by slug, drafts included.
func (h *PageHandler) GetBySlugAdmin(c *gin.Context) {
	page, err := h.pageService.GetBySlugAdmin(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PageHandler) GetAll(c *gin.Context) {
	pages, err := h.pageService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) GetAllAdmin(c *gin.Context) {
	pages, err := h.pageService.GetAllAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) PublishPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, err := h.pageService.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page published successfully", "page": page})
}

func (h *PageHandler) UnpublishPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	page, err := h.pageService.Unpublish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "page unpublished successfully", "page": page})
}
