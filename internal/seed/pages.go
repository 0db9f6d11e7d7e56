package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/utils"
)

//go:embed data/pages/*.json
var defaultPagesFS embed.FS

// Dependencies of EnsureDefaultPages.
type PageSeeder struct {
	Pages      service.PageUseCase
	Landing    service.LandingPageUseCase
	Categories service.CategoryUseCase
	Products   service.ProductUseCase
}

// EnsureDefaultPages creates and publishes the embedded landing pages whose
// slug is not taken yet. Empty collection and product sections are filled
// from the current catalog.
func (s PageSeeder) EnsureDefaultPages(ctx context.Context) {
	entries, err := fs.ReadDir(defaultPagesFS, "data/pages")
	if err != nil {
		logger.Error(err, "Failed to read embedded page definitions", nil)
		return
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	existing, err := s.Pages.GetAllAdmin(ctx)
	if err != nil {
		logger.Error(err, "Failed to list pages", nil)
		return
	}
	taken := make(map[string]struct{}, len(existing))
	for _, page := range existing {
		taken[page.Slug] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		fields := map[string]interface{}{"source": name}

		data, err := defaultPagesFS.ReadFile(fmt.Sprintf("data/pages/%s", name))
		if err != nil {
			logger.Error(err, "Failed to read embedded page file", fields)
			continue
		}

		var definition models.LandingPagePayload
		if err := json.Unmarshal(data, &definition); err != nil {
			logger.Error(err, "Failed to parse embedded page file", fields)
			continue
		}

		slug := utils.GenerateSlug(definition.Title)
		fields["slug"] = slug
		if _, ok := taken[slug]; ok {
			logger.Info("Default page already present", fields)
			continue
		}

		page, err := s.createPage(ctx, definition)
		if err != nil {
			logger.Error(err, "Failed to create default page", fields)
			continue
		}
		if _, err := s.Pages.Publish(ctx, page.ID); err != nil {
			logger.Error(err, "Failed to publish default page", fields)
			continue
		}
		logger.Info("Ensured default page", fields)
	}
}

func (s PageSeeder) createPage(ctx context.Context, definition models.LandingPagePayload) (*models.Page, error) {
	categories, err := s.Categories.ListCategories(ctx, constants.MaxCollectionCategories*2)
	if err != nil {
		return nil, err
	}
	products, err := s.Products.ListProducts(ctx, constants.MaxProductSelections)
	if err != nil {
		return nil, err
	}

	categoryIDs := make([]string, 0, constants.MaxCollectionCategories)
	for _, c := range categories {
		if c.IsActive && len(categoryIDs) < constants.MaxCollectionCategories {
			categoryIDs = append(categoryIDs, c.ID)
		}
	}
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	sections, _ := landing.ToEditorShape(definition.Sections)
	for i, section := range sections {
		switch v := section.(type) {
		case landing.CollectionSection:
			if len(v.CategoryIDs) == 0 {
				v.CategoryIDs = categoryIDs
			}
			sections[i] = v
		case landing.ProductSection:
			if len(v.ProductIDs) == 0 {
				v.ProductIDs = productIDs
			}
			sections[i] = v
		}
	}

	return s.Landing.Submit(ctx, service.SubmitRequest{
		Title:    definition.Title,
		Content:  definition.Content,
		Sections: sections,
	})
}
