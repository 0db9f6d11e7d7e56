package landing

import (
	"fmt"

	"storefront-cms-backend/internal/constants"
)

// SectionPatch is a partial section update. Nil fields are left untouched.
type SectionPatch struct {
	Title           *string
	Subtitle        *string
	ImageURL        *string
	Buttons         *[]Button
	CategoryIDs     *[]string
	ProductIDs      *[]string
	ExpandAllButton *Link
	Items           *[]FeatureItem
}

func (p SectionPatch) IsEmpty() bool {
	return p.Title == nil && p.Subtitle == nil && p.ImageURL == nil && p.Buttons == nil &&
		p.CategoryIDs == nil && p.ProductIDs == nil && p.ExpandAllButton == nil && p.Items == nil
}

// ApplyPatch returns a copy of s with p merged in. Reference ids are
// sanitized and selections may not grow past the section caps.
func ApplyPatch(s Section, p SectionPatch) (Section, error) {
	out := cloneSection(s)

	base := out.Base()
	if p.Title != nil {
		base.Title = *p.Title
	}
	if p.Subtitle != nil {
		base.Subtitle = *p.Subtitle
	}
	out = withBase(out, base)

	notApplicable := func(field string) error {
		return fmt.Errorf("%w: %s on %s", ErrFieldNotApplicable, field, s.Kind())
	}

	switch v := out.(type) {
	case BannerSection:
		if p.CategoryIDs != nil || p.ProductIDs != nil || p.ExpandAllButton != nil || p.Items != nil {
			return nil, notApplicable("references")
		}
		if p.ImageURL != nil {
			v.ImageURL = *p.ImageURL
		}
		if p.Buttons != nil {
			next := *p.Buttons
			if len(next) > constants.MaxBannerButtons && len(next) > len(v.Buttons) {
				return nil, ErrButtonLimit
			}
			v.Buttons = append([]Button{}, next...)
		}
		return v, nil

	case CollectionSection:
		if p.ImageURL != nil || p.Buttons != nil || p.ProductIDs != nil || p.Items != nil {
			return nil, notApplicable("banner or product fields")
		}
		if p.ExpandAllButton != nil {
			v.ExpandAllButton = *p.ExpandAllButton
		}
		if p.CategoryIDs != nil {
			ids, err := capSelection(KindCollection, v.CategoryIDs, *p.CategoryIDs, RefCategory, constants.MaxCollectionCategories)
			if err != nil {
				return nil, err
			}
			v.CategoryIDs = ids
		}
		return v, nil

	case ProductSection:
		if p.ImageURL != nil || p.Buttons != nil || p.CategoryIDs != nil || p.ExpandAllButton != nil || p.Items != nil {
			return nil, notApplicable("non product fields")
		}
		if p.ProductIDs != nil {
			ids, err := capSelection(KindProducts, v.ProductIDs, *p.ProductIDs, RefProduct, constants.MaxProductSelections)
			if err != nil {
				return nil, err
			}
			v.ProductIDs = ids
		}
		return v, nil

	case DealsSection:
		if p.ImageURL != nil || p.Buttons != nil || p.CategoryIDs != nil || p.ExpandAllButton != nil || p.Items != nil {
			return nil, notApplicable("non product fields")
		}
		if p.ProductIDs != nil {
			ids, err := capSelection(KindDeals, v.ProductIDs, *p.ProductIDs, RefProduct, constants.MaxProductSelections)
			if err != nil {
				return nil, err
			}
			v.ProductIDs = ids
		}
		return v, nil

	case FeaturesSection:
		if p.ImageURL != nil || p.Buttons != nil || p.CategoryIDs != nil || p.ProductIDs != nil || p.ExpandAllButton != nil {
			return nil, notApplicable("non feature fields")
		}
		if p.Items != nil {
			v.Items = append([]FeatureItem{}, (*p.Items)...)
		}
		return v, nil

	case UnknownSection:
		if p.ImageURL != nil || p.Buttons != nil || p.CategoryIDs != nil || p.ProductIDs != nil || p.ExpandAllButton != nil || p.Items != nil {
			return nil, notApplicable("typed fields")
		}
		v.Raw.Title = v.Title
		v.Raw.Subtitle = v.Subtitle
		return v, nil

	default:
		return nil, unsupportedKind(s.Kind())
	}
}

// capSelection sanitizes next and rejects it when it grows past limit.
// Shrinking an over-full selection is always allowed.
func capSelection(kind SectionKind, current, next []string, ref string, limit int) ([]string, error) {
	clean := SanitizeIDs(ref, next)
	if len(clean) > limit && len(clean) > len(current) {
		return nil, &SelectionLimitError{Kind: kind, Limit: limit, Requested: len(clean)}
	}
	return clean, nil
}
