package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Backend section type names as stored in pages.sections.
const (
	SectionTypeHero       = "hero"
	SectionTypeCategories = "categories"
	SectionTypeProducts   = "products"
	SectionTypeDeals      = "deals"
	SectionTypeFeatures   = "features"
)

// LandingSections is the persisted, ordered section list of a page.
type LandingSections []LandingSection

// LandingSection is the persistence shape of one landing page section.
// Category and product references live in CategoryIDs / ProductIDs; Items
// carries display payload (buttons for heroes, cards for collections).
type LandingSection struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	Title           string               `json:"title"`
	Subtitle        string               `json:"subtitle,omitempty"`
	Order           int                  `json:"order,omitempty"`
	BackgroundImage string               `json:"backgroundImage,omitempty"`
	Items           []LandingSectionItem `json:"items"`
	CategoryIDs     []string             `json:"categoryIds,omitempty"`
	ProductIDs      []string             `json:"productIds,omitempty"`
	ExpandAllButton *LandingLink         `json:"expandAllButton,omitempty"`
	Settings        JSONMap              `json:"settings,omitempty"`
}

type LandingSectionItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Link        string `json:"link,omitempty"`
}

type LandingLink struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

func (ls *LandingSections) Scan(value interface{}) error {
	if value == nil {
		*ls = LandingSections{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan LandingSections")
	}

	return json.Unmarshal(raw, ls)
}

func (ls LandingSections) Value() (driver.Value, error) {
	if len(ls) == 0 {
		return "[]", nil
	}
	return json.Marshal(ls)
}

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*m = decoded
	return nil
}
