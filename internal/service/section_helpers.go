package service

import (
	"fmt"
	"html"
	"strings"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/validator"
)

const maxCleanPasses = 4

// PrepareSections normalises sections before they are stored: type names
// are mapped to their persisted form, text is stripped of markup, reference
// ids are re-checked and missing section ids and orders are filled in.
func PrepareSections(sections []models.LandingSection) (models.LandingSections, error) {
	if len(sections) == 0 {
		return models.LandingSections{}, nil
	}

	prepared := make(models.LandingSections, 0, len(sections))
	for i, section := range sections {
		sectionType := strings.TrimSpace(strings.ToLower(section.Type))
		if sectionType == "" {
			return nil, fmt.Errorf("section %d: type is required", i+1)
		}
		if kind, ok := landing.ParseKind(sectionType); ok {
			sectionType = kind.BackendType()
		}
		section.Type = sectionType

		if strings.TrimSpace(section.ID) == "" {
			section.ID = landing.NewClientID()
		}
		section.Order = i + 1

		section.Title = cleanText(section.Title)
		section.Subtitle = cleanText(section.Subtitle)
		section.BackgroundImage = strings.TrimSpace(section.BackgroundImage)

		items := make([]models.LandingSectionItem, 0, len(section.Items))
		for _, item := range section.Items {
			item.Title = cleanText(item.Title)
			item.Name = cleanText(item.Name)
			item.Description = cleanText(item.Description)
			item.Link = strings.TrimSpace(item.Link)
			items = append(items, item)
		}
		section.Items = items

		switch sectionType {
		case models.SectionTypeCategories:
			section.CategoryIDs = landing.SanitizeIDs(landing.RefCategory, section.CategoryIDs)
		case models.SectionTypeProducts, models.SectionTypeDeals:
			section.ProductIDs = landing.SanitizeIDs(landing.RefProduct, section.ProductIDs)
		}

		if section.ExpandAllButton != nil {
			link := *section.ExpandAllButton
			link.Title = cleanText(link.Title)
			link.Link = strings.TrimSpace(link.Link)
			section.ExpandAllButton = &link
		}

		prepared = append(prepared, section)
	}

	return prepared, nil
}

// cleanText returns plain text with entities decoded. Decoding and
// stripping repeat until stable so encoded tags cannot come back as markup.
func cleanText(value string) string {
	text := html.UnescapeString(value)
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(validator.SanitizeString(text))
		if next == text {
			return validator.NormalizeSpaces(text)
		}
		text = next
	}
	return validator.NormalizeSpaces(validator.SanitizeString(text))
}
