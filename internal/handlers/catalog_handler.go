package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/validator"
)

// CatalogHandler serves the category and product listings the selection
// editors pick from.
type CatalogHandler struct {
	categories service.CategoryUseCase
	products   service.ProductUseCase
}

func NewCatalogHandler(categories service.CategoryUseCase, products service.ProductUseCase) *CatalogHandler {
	return &CatalogHandler{categories: categories, products: products}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context(), parseLimit(c, constants.DefaultListingLimit))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")
	if !validator.IsReferenceID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context(), parseLimit(c, constants.DefaultListingLimit))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}
