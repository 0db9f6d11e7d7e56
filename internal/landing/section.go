// Package landing holds the landing page section model and the stateful
// editors that build a page out of sections.
package landing

import (
	"strings"

	"github.com/google/uuid"

	"storefront-cms-backend/internal/models"
)

// SectionKind is the editor-side discriminator of a section.
type SectionKind string

const (
	KindBanner     SectionKind = "banner"
	KindCollection SectionKind = "collection"
	KindProducts   SectionKind = "products"
	KindDeals      SectionKind = "deals"
	KindFeatures   SectionKind = "features"
)

// ParseKind resolves editor and backend type names. Unknown names report false.
func ParseKind(raw string) (SectionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(KindBanner), models.SectionTypeHero:
		return KindBanner, true
	case string(KindCollection), models.SectionTypeCategories:
		return KindCollection, true
	case string(KindProducts):
		return KindProducts, true
	case string(KindDeals):
		return KindDeals, true
	case string(KindFeatures):
		return KindFeatures, true
	default:
		return "", false
	}
}

// BackendType returns the persisted type name of the kind.
func (k SectionKind) BackendType() string {
	switch k {
	case KindBanner:
		return models.SectionTypeHero
	case KindCollection:
		return models.SectionTypeCategories
	default:
		return string(k)
	}
}

// NewClientID returns a time ordered section identifier.
func NewClientID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Section is one block of a landing page. The set of implementations is closed.
type Section interface {
	Base() SectionBase
	Kind() SectionKind
	isSection()
}

// SectionBase carries the fields shared by every section kind.
type SectionBase struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Order    int    `json:"order,omitempty"`
}

func (b SectionBase) Base() SectionBase { return b }

type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type Link struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

func (l Link) IsZero() bool {
	return strings.TrimSpace(l.Title) == "" && strings.TrimSpace(l.Link) == ""
}

type FeatureItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// BannerSection is the hero block: background image plus up to two buttons.
type BannerSection struct {
	SectionBase
	ImageURL string
	Buttons  []Button
}

func (BannerSection) Kind() SectionKind { return KindBanner }
func (BannerSection) isSection()        {}

// CollectionSection references categories by id. Display data is never stored here.
type CollectionSection struct {
	SectionBase
	CategoryIDs     []string
	ExpandAllButton Link
}

func (CollectionSection) Kind() SectionKind { return KindCollection }
func (CollectionSection) isSection()        {}

// ProductSection references products by id.
type ProductSection struct {
	SectionBase
	ProductIDs []string
}

func (ProductSection) Kind() SectionKind { return KindProducts }
func (ProductSection) isSection()        {}

type DealsSection struct {
	SectionBase
	ProductIDs []string
}

func (DealsSection) Kind() SectionKind { return KindDeals }
func (DealsSection) isSection()        {}

type FeaturesSection struct {
	SectionBase
	Items []FeatureItem
}

func (FeaturesSection) Kind() SectionKind { return KindFeatures }
func (FeaturesSection) isSection()        {}

// UnknownSection keeps a backend section whose type this build does not know,
// so it survives a load and save untouched.
type UnknownSection struct {
	SectionBase
	Raw models.LandingSection
}

func (u UnknownSection) Kind() SectionKind { return SectionKind(u.Raw.Type) }
func (UnknownSection) isSection()          {}

// cloneSection returns a copy that shares no slices with s.
func cloneSection(s Section) Section {
	switch v := s.(type) {
	case BannerSection:
		v.Buttons = append([]Button(nil), v.Buttons...)
		return v
	case CollectionSection:
		v.CategoryIDs = append([]string(nil), v.CategoryIDs...)
		return v
	case ProductSection:
		v.ProductIDs = append([]string(nil), v.ProductIDs...)
		return v
	case DealsSection:
		v.ProductIDs = append([]string(nil), v.ProductIDs...)
		return v
	case FeaturesSection:
		v.Items = append([]FeatureItem(nil), v.Items...)
		return v
	case UnknownSection:
		v.Raw.Items = append([]models.LandingSectionItem(nil), v.Raw.Items...)
		v.Raw.CategoryIDs = append([]string(nil), v.Raw.CategoryIDs...)
		v.Raw.ProductIDs = append([]string(nil), v.Raw.ProductIDs...)
		return v
	default:
		return s
	}
}

// withBase replaces the shared fields of s.
func withBase(s Section, base SectionBase) Section {
	switch v := s.(type) {
	case BannerSection:
		v.SectionBase = base
		return v
	case CollectionSection:
		v.SectionBase = base
		return v
	case ProductSection:
		v.SectionBase = base
		return v
	case DealsSection:
		v.SectionBase = base
		return v
	case FeaturesSection:
		v.SectionBase = base
		return v
	case UnknownSection:
		v.SectionBase = base
		return v
	default:
		return s
	}
}

// NewSection builds an empty section of kind with its defaults applied.
func NewSection(kind SectionKind) (Section, error) {
	base := SectionBase{ID: NewClientID()}
	switch kind {
	case KindBanner:
		return BannerSection{SectionBase: base, Buttons: []Button{}}, nil
	case KindCollection:
		return CollectionSection{
			SectionBase:     base,
			CategoryIDs:     []string{},
			ExpandAllButton: Link{Title: "View all", Link: "/categories"},
		}, nil
	case KindProducts:
		return ProductSection{SectionBase: base, ProductIDs: []string{}}, nil
	case KindDeals:
		return DealsSection{SectionBase: base, ProductIDs: []string{}}, nil
	case KindFeatures:
		return FeaturesSection{SectionBase: base, Items: []FeatureItem{}}, nil
	default:
		return nil, unsupportedKind(kind)
	}
}
