package landing

import (
	"context"
	"fmt"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/logger"
)

// CategoryLister fetches the category options of a collection editor.
type CategoryLister interface {
	ListCategories(ctx context.Context, limit int) ([]models.Category, error)
}

// ProductLister fetches the product options of a product editor.
type ProductLister interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
}

// selectionChange sanitizes next and reports whether it differs from current
// as a set. Growth past limit is rejected.
func selectionChange(kind SectionKind, ref string, limit int, current, next []string) ([]string, bool, error) {
	clean, err := capSelection(kind, current, next, ref, limit)
	if err != nil {
		return nil, false, err
	}
	added, removed := diffIDs(current, clean)
	if len(added) == 0 && len(removed) == 0 {
		return nil, false, nil
	}
	logger.Debug("Section selection changed", map[string]interface{}{
		"kind":    string(kind),
		"added":   len(added),
		"removed": len(removed),
	})
	return clean, true, nil
}

// CollectionEditor edits one collection section.
type CollectionEditor struct {
	section  CollectionSection
	lister   CategoryLister
	onUpdate UpdateFunc
}

func NewCollectionEditor(section CollectionSection, lister CategoryLister, onUpdate UpdateFunc) *CollectionEditor {
	return &CollectionEditor{section: section, lister: lister, onUpdate: onUpdate}
}

func (e *CollectionEditor) Section() CollectionSection {
	return cloneSection(e.section).(CollectionSection)
}

func (e *CollectionEditor) Limit() int { return constants.MaxCollectionCategories }

func (e *CollectionEditor) SetTitle(title string) error {
	if title == e.section.Title {
		return nil
	}
	return e.emit(SectionPatch{Title: &title})
}

func (e *CollectionEditor) SetExpandAllButton(link Link) error {
	if link == e.section.ExpandAllButton {
		return nil
	}
	return e.emit(SectionPatch{ExpandAllButton: &link})
}

// Options lists the active categories that can be selected.
func (e *CollectionEditor) Options(ctx context.Context) ([]CategoryDisplay, error) {
	categories, err := e.lister.ListCategories(ctx, constants.DefaultListingLimit)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDisplay, 0, len(categories))
	for _, c := range categories {
		if !c.IsActive || !IsReferenceID(c.ID) {
			continue
		}
		out = append(out, CategoryDisplayFromModel(c))
	}
	return out, nil
}

// Select replaces the selected category ids with ids as emitted by the
// selection control. It reports whether an update was emitted.
func (e *CollectionEditor) Select(ids []string) (bool, error) {
	next, changed, err := selectionChange(KindCollection, RefCategory, constants.MaxCollectionCategories, e.section.CategoryIDs, ids)
	if err != nil || !changed {
		return false, err
	}
	if err := e.emit(SectionPatch{CategoryIDs: &next}); err != nil {
		return false, err
	}
	return true, nil
}

// Selected projects the current ids onto display data.
func (e *CollectionEditor) Selected(display DisplayLookup) []CategoryDisplay {
	if display == nil {
		return []CategoryDisplay{}
	}
	return display.Categories(e.section.CategoryIDs)
}

func (e *CollectionEditor) emit(patch SectionPatch) error {
	next, err := ApplyPatch(e.section, patch)
	if err != nil {
		return err
	}
	if e.onUpdate != nil {
		if err := e.onUpdate(patch); err != nil {
			return err
		}
	}
	e.section = next.(CollectionSection)
	return nil
}

// ProductEditor edits one product or deals section.
type ProductEditor struct {
	section  Section
	lister   ProductLister
	onUpdate UpdateFunc
}

func NewProductEditor(section Section, lister ProductLister, onUpdate UpdateFunc) (*ProductEditor, error) {
	switch section.(type) {
	case ProductSection, DealsSection:
	default:
		return nil, fmt.Errorf("%w: product editor for %s", ErrUnsupportedKind, section.Kind())
	}
	return &ProductEditor{section: cloneSection(section), lister: lister, onUpdate: onUpdate}, nil
}

func (e *ProductEditor) Section() Section { return cloneSection(e.section) }

func (e *ProductEditor) Limit() int { return constants.MaxProductSelections }

func (e *ProductEditor) ProductIDs() []string {
	switch v := e.section.(type) {
	case ProductSection:
		return append([]string(nil), v.ProductIDs...)
	case DealsSection:
		return append([]string(nil), v.ProductIDs...)
	}
	return nil
}

func (e *ProductEditor) SetTitle(title string) error {
	if title == e.section.Base().Title {
		return nil
	}
	return e.emit(SectionPatch{Title: &title})
}

// Options lists the products that can be selected.
func (e *ProductEditor) Options(ctx context.Context) ([]ProductDisplay, error) {
	products, err := e.lister.ListProducts(ctx, constants.DefaultListingLimit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDisplay, 0, len(products))
	for _, p := range products {
		if !IsReferenceID(p.ID) {
			continue
		}
		out = append(out, ProductDisplayFromModel(p))
	}
	return out, nil
}

// Select replaces the selected product ids. It reports whether an update
// was emitted.
func (e *ProductEditor) Select(ids []string) (bool, error) {
	next, changed, err := selectionChange(e.section.Kind(), RefProduct, constants.MaxProductSelections, e.ProductIDs(), ids)
	if err != nil || !changed {
		return false, err
	}
	if err := e.emit(SectionPatch{ProductIDs: &next}); err != nil {
		return false, err
	}
	return true, nil
}

func (e *ProductEditor) Selected(display DisplayLookup) []ProductDisplay {
	if display == nil {
		return []ProductDisplay{}
	}
	return display.Products(e.ProductIDs())
}

func (e *ProductEditor) emit(patch SectionPatch) error {
	next, err := ApplyPatch(e.section, patch)
	if err != nil {
		return err
	}
	if e.onUpdate != nil {
		if err := e.onUpdate(patch); err != nil {
			return err
		}
	}
	e.section = next
	return nil
}
