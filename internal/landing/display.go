package landing

import (
	"strings"

	"storefront-cms-backend/internal/models"
)

// CategoryDisplay is the human readable copy of a referenced category.
type CategoryDisplay struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link,omitempty"`
}

// ProductDisplay is the human readable copy of a referenced product.
type ProductDisplay struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link,omitempty"`
}

// DisplayLookup projects canonical id lists onto display data. Unknown ids
// are skipped, the order follows ids.
type DisplayLookup interface {
	Categories(ids []string) []CategoryDisplay
	Products(ids []string) []ProductDisplay
}

// DisplayIndex is a DisplayLookup fed from listing results and from the
// item payload of loaded pages. Later entries overwrite earlier ones.
type DisplayIndex struct {
	categories map[string]CategoryDisplay
	products   map[string]ProductDisplay
}

func NewDisplayIndex() *DisplayIndex {
	return &DisplayIndex{
		categories: make(map[string]CategoryDisplay),
		products:   make(map[string]ProductDisplay),
	}
}

func (d *DisplayIndex) AddCategories(items ...CategoryDisplay) {
	for _, item := range items {
		if IsReferenceID(item.ID) {
			d.categories[item.ID] = item
		}
	}
}

func (d *DisplayIndex) AddProducts(items ...ProductDisplay) {
	for _, item := range items {
		if IsReferenceID(item.ID) {
			d.products[item.ID] = item
		}
	}
}

// AddCategoryModels indexes listing results.
func (d *DisplayIndex) AddCategoryModels(categories []models.Category) {
	for _, c := range categories {
		d.AddCategories(CategoryDisplayFromModel(c))
	}
}

// AddProductModels indexes listing results.
func (d *DisplayIndex) AddProductModels(products []models.Product) {
	for _, p := range products {
		d.AddProducts(ProductDisplayFromModel(p))
	}
}

func (d *DisplayIndex) Categories(ids []string) []CategoryDisplay {
	out := make([]CategoryDisplay, 0, len(ids))
	if d == nil {
		return out
	}
	for _, id := range ids {
		if item, ok := d.categories[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

func (d *DisplayIndex) Products(ids []string) []ProductDisplay {
	out := make([]ProductDisplay, 0, len(ids))
	if d == nil {
		return out
	}
	for _, id := range ids {
		if item, ok := d.products[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

func CategoryDisplayFromModel(c models.Category) CategoryDisplay {
	link := c.Link
	if strings.TrimSpace(link) == "" && c.Slug != "" {
		link = "/categories/" + c.Slug
	}
	return CategoryDisplay{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL, Link: link}
}

func ProductDisplayFromModel(p models.Product) ProductDisplay {
	link := ""
	if p.Slug != "" {
		link = "/products/" + p.Slug
	}
	return ProductDisplay{ID: p.ID, Title: p.Title, ImageURL: p.ImageURL, Link: link}
}

func categoryDisplayFromItem(item models.LandingSectionItem) CategoryDisplay {
	name := item.Name
	if name == "" {
		name = item.Title
	}
	return CategoryDisplay{ID: item.ID, Name: name, ImageURL: item.ImageURL, Link: item.Link}
}

func productDisplayFromItem(item models.LandingSectionItem) ProductDisplay {
	title := item.Title
	if title == "" {
		title = item.Name
	}
	return ProductDisplay{ID: item.ID, Title: title, ImageURL: item.ImageURL, Link: item.Link}
}
