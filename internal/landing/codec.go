package landing

import (
	"encoding/json"
	"fmt"

	"storefront-cms-backend/internal/models"
)

// editorSection is the JSON form of an editor section. Unknown sections are
// encoded as their raw backend payload instead.
type editorSection struct {
	ID              string        `json:"id"`
	Type            SectionKind   `json:"type"`
	Title           string        `json:"title"`
	Subtitle        string        `json:"subtitle,omitempty"`
	Order           int           `json:"order,omitempty"`
	ImageURL        string        `json:"imageUrl,omitempty"`
	Buttons         []Button      `json:"buttons,omitempty"`
	CategoryIDs     []string      `json:"categoryIds,omitempty"`
	ExpandAllButton *Link         `json:"expandAllButton,omitempty"`
	ProductIDs      []string      `json:"productIds,omitempty"`
	Items           []FeatureItem `json:"items,omitempty"`
}

// MarshalSections encodes editor sections as a JSON array.
func MarshalSections(sections []Section) ([]byte, error) {
	out := make([]json.RawMessage, 0, len(sections))
	for _, s := range sections {
		raw, err := marshalSection(s)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func marshalSection(s Section) (json.RawMessage, error) {
	base := s.Base()
	wire := editorSection{
		ID:       base.ID,
		Type:     s.Kind(),
		Title:    base.Title,
		Subtitle: base.Subtitle,
		Order:    base.Order,
	}

	switch v := s.(type) {
	case BannerSection:
		wire.ImageURL = v.ImageURL
		wire.Buttons = v.Buttons
	case CollectionSection:
		wire.CategoryIDs = v.CategoryIDs
		if !v.ExpandAllButton.IsZero() {
			link := v.ExpandAllButton
			wire.ExpandAllButton = &link
		}
	case ProductSection:
		wire.ProductIDs = v.ProductIDs
	case DealsSection:
		wire.ProductIDs = v.ProductIDs
	case FeaturesSection:
		wire.Items = v.Items
	case UnknownSection:
		raw := v.Raw
		raw.ID, raw.Title, raw.Subtitle, raw.Order = base.ID, base.Title, base.Subtitle, base.Order
		return json.Marshal(raw)
	default:
		return nil, unsupportedKind(s.Kind())
	}

	return json.Marshal(wire)
}

// UnmarshalSections decodes a JSON array produced by MarshalSections or sent
// by an editor client. Backend type aliases are accepted. Reference ids are
// sanitized.
func UnmarshalSections(data []byte) ([]Section, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}

	out := make([]Section, 0, len(raws))
	for i, raw := range raws {
		var wire editorSection
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("failed to decode section %d: %w", i, err)
		}

		id := wire.ID
		if id == "" {
			id = NewClientID()
		}
		base := SectionBase{ID: id, Title: wire.Title, Subtitle: wire.Subtitle, Order: wire.Order}

		kind, known := ParseKind(string(wire.Type))
		if !known {
			var backend models.LandingSection
			if err := json.Unmarshal(raw, &backend); err != nil {
				return nil, fmt.Errorf("failed to decode section %d: %w", i, err)
			}
			if backend.Type == "" {
				return nil, fmt.Errorf("section %d: %w: missing type", i, ErrUnsupportedKind)
			}
			backend.ID = id
			out = append(out, UnknownSection{SectionBase: base, Raw: backend})
			continue
		}

		switch kind {
		case KindBanner:
			buttons := make([]Button, 0, len(wire.Buttons))
			for _, b := range wire.Buttons {
				if b.ID == "" {
					b.ID = NewClientID()
				}
				buttons = append(buttons, b)
			}
			out = append(out, BannerSection{SectionBase: base, ImageURL: wire.ImageURL, Buttons: buttons})
		case KindCollection:
			section := CollectionSection{SectionBase: base, CategoryIDs: SanitizeIDs(RefCategory, wire.CategoryIDs)}
			if wire.ExpandAllButton != nil {
				section.ExpandAllButton = *wire.ExpandAllButton
			}
			out = append(out, section)
		case KindProducts:
			out = append(out, ProductSection{SectionBase: base, ProductIDs: SanitizeIDs(RefProduct, wire.ProductIDs)})
		case KindDeals:
			out = append(out, DealsSection{SectionBase: base, ProductIDs: SanitizeIDs(RefProduct, wire.ProductIDs)})
		case KindFeatures:
			items := wire.Items
			if items == nil {
				items = []FeatureItem{}
			}
			out = append(out, FeaturesSection{SectionBase: base, Items: items})
		}
	}

	return out, nil
}
