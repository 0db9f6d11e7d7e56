package seed

import (
	"context"
	_ "embed"
	"encoding/json"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/logger"
)

//go:embed data/catalog.json
var defaultCatalog []byte

type catalogDefinition struct {
	Categories []models.CreateCategoryRequest `json:"categories"`
	Products   []models.CreateProductRequest  `json:"products"`
}

// EnsureDefaultCatalog fills an empty catalog with sample categories and
// products. A catalog that already has entries is left untouched.
func EnsureDefaultCatalog(ctx context.Context, categories service.CategoryUseCase, products service.ProductUseCase) {
	var definition catalogDefinition
	if err := json.Unmarshal(defaultCatalog, &definition); err != nil {
		logger.Error(err, "Failed to parse embedded catalog", nil)
		return
	}

	existing, err := categories.ListCategories(ctx, 1)
	if err != nil {
		logger.Error(err, "Failed to verify default categories", nil)
		return
	}
	if len(existing) == 0 {
		created := 0
		for _, req := range definition.Categories {
			if _, err := categories.Create(ctx, req); err != nil {
				logger.Error(err, "Failed to create default category", map[string]interface{}{"name": req.Name})
				continue
			}
			created++
		}
		logger.Info("Created default categories", map[string]interface{}{"count": created})
	}

	existingProducts, err := products.ListProducts(ctx, 1)
	if err != nil {
		logger.Error(err, "Failed to verify default products", nil)
		return
	}
	if len(existingProducts) > 0 {
		return
	}

	created := 0
	for _, req := range definition.Products {
		if _, err := products.Create(ctx, req); err != nil {
			logger.Error(err, "Failed to create default product", map[string]interface{}{"title": req.Title})
			continue
		}
		created++
	}
	logger.Info("Created default products", map[string]interface{}{"count": created})
}
