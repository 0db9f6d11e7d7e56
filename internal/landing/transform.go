package landing

import (
	"context"
	"errors"

	"storefront-cms-backend/internal/models"
)

// ToEditorShape maps persisted sections to editor sections. Item payloads of
// collection and product sections seed the returned display index. Missing
// or repeated section ids are replaced; nothing else is invented.
func ToEditorShape(backend []models.LandingSection) ([]Section, *DisplayIndex) {
	display := NewDisplayIndex()
	out := make([]Section, 0, len(backend))
	seen := make(map[string]struct{}, len(backend))

	for _, raw := range backend {
		id := raw.ID
		if _, dup := seen[id]; id == "" || dup {
			id = NewClientID()
		}
		seen[id] = struct{}{}

		base := SectionBase{ID: id, Title: raw.Title, Subtitle: raw.Subtitle, Order: raw.Order}
		kind, known := ParseKind(raw.Type)
		if !known {
			raw.ID = id
			out = append(out, cloneSection(UnknownSection{SectionBase: base, Raw: raw}))
			continue
		}

		switch kind {
		case KindBanner:
			buttons := make([]Button, 0, len(raw.Items))
			for _, item := range raw.Items {
				buttonID := item.ID
				if buttonID == "" {
					buttonID = NewClientID()
				}
				buttons = append(buttons, Button{ID: buttonID, Title: item.Title, Link: item.Link})
			}
			out = append(out, BannerSection{SectionBase: base, ImageURL: raw.BackgroundImage, Buttons: buttons})

		case KindCollection:
			for _, item := range raw.Items {
				display.AddCategories(categoryDisplayFromItem(item))
			}
			section := CollectionSection{
				SectionBase: base,
				CategoryIDs: SanitizeIDs(RefCategory, raw.CategoryIDs),
			}
			if raw.ExpandAllButton != nil {
				section.ExpandAllButton = Link{Title: raw.ExpandAllButton.Title, Link: raw.ExpandAllButton.Link}
			}
			out = append(out, section)

		case KindProducts, KindDeals:
			for _, item := range raw.Items {
				display.AddProducts(productDisplayFromItem(item))
			}
			ids := SanitizeIDs(RefProduct, raw.ProductIDs)
			if kind == KindDeals {
				out = append(out, DealsSection{SectionBase: base, ProductIDs: ids})
			} else {
				out = append(out, ProductSection{SectionBase: base, ProductIDs: ids})
			}

		case KindFeatures:
			items := make([]FeatureItem, 0, len(raw.Items))
			for _, item := range raw.Items {
				items = append(items, FeatureItem{
					ID:          item.ID,
					Title:       item.Title,
					Description: item.Description,
					Icon:        item.Icon,
				})
			}
			out = append(out, FeaturesSection{SectionBase: base, Items: items})
		}
	}

	return out, display
}

// BackendOptions feeds ToBackendShape. Both fields are optional.
type BackendOptions struct {
	Uploads *UploadSession
	Display DisplayLookup
}

// ToBackendShape maps editor sections to the persisted shape. Pending images
// of the banners in sections are uploaded first; any failure aborts the whole mapping and names the
// section it came from. Orders are rewritten to the 1-based position.
func ToBackendShape(ctx context.Context, sections []Section, opts BackendOptions) ([]models.LandingSection, error) {
	var urls map[string]string
	if opts.Uploads != nil {
		banners := []string{}
		for _, s := range sections {
			if s.Kind() == KindBanner {
				banners = append(banners, s.Base().ID)
			}
		}
		resolved, err := opts.Uploads.ResolvePending(ctx, banners...)
		if err != nil {
			var uploadErr *UploadError
			if errors.As(err, &uploadErr) {
				for _, s := range sections {
					if s.Base().ID == uploadErr.SectionID {
						uploadErr.SectionTitle = s.Base().Title
						break
					}
				}
			}
			return nil, err
		}
		urls = resolved
	}

	display := opts.Display
	if display == nil {
		display = (*DisplayIndex)(nil)
	}

	out := make([]models.LandingSection, 0, len(sections))
	for i, s := range sections {
		base := s.Base()
		row := models.LandingSection{
			ID:       base.ID,
			Type:     s.Kind().BackendType(),
			Title:    base.Title,
			Subtitle: base.Subtitle,
			Order:    i + 1,
			Items:    []models.LandingSectionItem{},
		}

		switch v := s.(type) {
		case BannerSection:
			row.BackgroundImage = v.ImageURL
			if url, ok := urls[base.ID]; ok {
				row.BackgroundImage = url
			}
			for _, b := range v.Buttons {
				row.Items = append(row.Items, models.LandingSectionItem{ID: b.ID, Title: b.Title, Link: b.Link})
			}

		case CollectionSection:
			row.CategoryIDs = SanitizeIDs(RefCategory, v.CategoryIDs)
			for _, c := range display.Categories(row.CategoryIDs) {
				row.Items = append(row.Items, models.LandingSectionItem{
					ID:       c.ID,
					Name:     c.Name,
					ImageURL: c.ImageURL,
					Link:     c.Link,
				})
			}
			if !v.ExpandAllButton.IsZero() {
				row.ExpandAllButton = &models.LandingLink{Title: v.ExpandAllButton.Title, Link: v.ExpandAllButton.Link}
			}

		case ProductSection:
			row.ProductIDs = SanitizeIDs(RefProduct, v.ProductIDs)
			row.Items = productItems(display, row.ProductIDs)

		case DealsSection:
			row.ProductIDs = SanitizeIDs(RefProduct, v.ProductIDs)
			row.Items = productItems(display, row.ProductIDs)

		case FeaturesSection:
			for _, item := range v.Items {
				row.Items = append(row.Items, models.LandingSectionItem{
					ID:          item.ID,
					Title:       item.Title,
					Description: item.Description,
					Icon:        item.Icon,
				})
			}

		case UnknownSection:
			raw := cloneSection(v).(UnknownSection).Raw
			raw.ID = base.ID
			raw.Title = base.Title
			raw.Subtitle = base.Subtitle
			raw.Order = i + 1
			if raw.Items == nil {
				raw.Items = []models.LandingSectionItem{}
			}
			row = raw

		default:
			return nil, unsupportedKind(s.Kind())
		}

		out = append(out, row)
	}

	return out, nil
}

func productItems(display DisplayLookup, ids []string) []models.LandingSectionItem {
	items := make([]models.LandingSectionItem, 0, len(ids))
	for _, p := range display.Products(ids) {
		items = append(items, models.LandingSectionItem{
			ID:       p.ID,
			Title:    p.Title,
			ImageURL: p.ImageURL,
			Link:     p.Link,
		})
	}
	return items
}
