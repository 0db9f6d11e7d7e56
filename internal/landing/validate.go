package landing

import (
	"fmt"
	"strings"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
)

const (
	msgTitleRequired    = "Page title is required."
	msgBannerRequired   = "At least one banner section is required."
	msgSectionTitle     = "Title is required"
	msgSectionSubtitle  = "Subtitle is required"
	msgSectionImage     = "Image is required"
	msgSelectCategory   = "Select at least one category"
	msgSelectProduct    = "Select at least one product"
	msgDuplicateSection = "Section id is used more than once"
)

var msgTooManyBanners = fmt.Sprintf("A page can have at most %d banner sections.", constants.MaxBannerSections)

// ValidateSections checks a page before anything is uploaded or sent.
// images may be nil; a staged image counts as present.
func ValidateSections(title string, sections []Section, images ImageStager) *ValidationError {
	verr := &ValidationError{}

	if strings.TrimSpace(title) == "" {
		verr.Global = append(verr.Global, msgTitleRequired)
	}

	banners := 0
	for _, s := range sections {
		if s.Kind() == KindBanner {
			banners++
		}
	}
	if banners == 0 {
		verr.Global = append(verr.Global, msgBannerRequired)
	}
	if banners > constants.MaxBannerSections {
		verr.Global = append(verr.Global, msgTooManyBanners)
	}

	seen := make(map[string]struct{}, len(sections))
	for _, s := range sections {
		id := s.Base().ID
		if _, dup := seen[id]; dup {
			verr.addSection(id, msgDuplicateSection)
		}
		seen[id] = struct{}{}

		if strings.TrimSpace(s.Base().Title) == "" {
			if _, unknown := s.(UnknownSection); !unknown {
				verr.addSection(id, msgSectionTitle)
			}
		}

		switch v := s.(type) {
		case BannerSection:
			if strings.TrimSpace(v.Subtitle) == "" {
				verr.addSection(id, msgSectionSubtitle)
			}
			if !bannerHasImage(v, images) {
				verr.addSection(id, msgSectionImage)
			}
			if len(v.Buttons) > constants.MaxBannerButtons {
				verr.addSection(id, ErrButtonLimit.Error())
			}
		case CollectionSection:
			if len(v.CategoryIDs) == 0 {
				verr.addSection(id, msgSelectCategory)
			}
			if len(v.CategoryIDs) > constants.MaxCollectionCategories {
				verr.addSection(id, fmt.Sprintf("Select at most %d categories", constants.MaxCollectionCategories))
			}
		case ProductSection:
			if len(v.ProductIDs) == 0 {
				verr.addSection(id, msgSelectProduct)
			}
			if len(v.ProductIDs) > constants.MaxProductSelections {
				verr.addSection(id, fmt.Sprintf("Select at most %d products", constants.MaxProductSelections))
			}
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

func bannerHasImage(b BannerSection, images ImageStager) bool {
	if strings.TrimSpace(b.ImageURL) != "" {
		return true
	}
	if images == nil {
		return false
	}
	_, ok := images.Pending(b.ID)
	return ok
}

// ValidateBackendSections re-checks persisted sections on the server side.
// Unknown section types are accepted as long as they carry a type.
func ValidateBackendSections(title string, backend []models.LandingSection) *ValidationError {
	for i, raw := range backend {
		if strings.TrimSpace(raw.Type) == "" {
			verr := &ValidationError{}
			verr.addSection(raw.ID, fmt.Sprintf("Section %d has no type", i+1))
			return verr
		}
		if strings.TrimSpace(raw.ID) == "" {
			verr := &ValidationError{}
			verr.Global = append(verr.Global, fmt.Sprintf("Section %d has no id", i+1))
			return verr
		}
	}

	sections, _ := ToEditorShape(backend)
	// ToEditorShape replaces repeated ids, so compare against the input.
	verr := ValidateSections(title, sections, nil)
	seen := make(map[string]struct{}, len(backend))
	for _, raw := range backend {
		if _, dup := seen[raw.ID]; dup {
			if verr == nil {
				verr = &ValidationError{}
			}
			verr.addSection(raw.ID, msgDuplicateSection)
		}
		seen[raw.ID] = struct{}{}
	}
	return verr
}
