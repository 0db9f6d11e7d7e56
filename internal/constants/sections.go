package constants

import "time"

const (
	// MaxCollectionCategories caps the categories a collection section may reference.
	MaxCollectionCategories = 4
	// MaxProductSelections caps the products a product section may reference.
	MaxProductSelections = 8
	// MaxBannerSections caps the banner sections of a single landing page.
	MaxBannerSections = 5
	// MaxBannerButtons caps the call-to-action buttons of a banner.
	MaxBannerButtons = 2

	// PageTypeLanding marks pages built from landing sections.
	PageTypeLanding = "landing_page"
	// PageTypeStandard marks plain content pages.
	PageTypeStandard = "standard"

	// DefaultListingLimit is used when a listing request omits the limit.
	DefaultListingLimit = 100
	// MaxListingLimit bounds listing requests.
	MaxListingLimit = 500

	// DefaultListingFreshness is how long catalog listings stay cached.
	DefaultListingFreshness = 5 * time.Minute

	// ListingKindCategories and ListingKindProducts key listing cache entries.
	ListingKindCategories = "categories"
	ListingKindProducts   = "products"
)

// ClampListingLimit maps non-positive limits to the default and caps the rest.
func ClampListingLimit(limit int) int {
	if limit <= 0 {
		return DefaultListingLimit
	}
	if limit > MaxListingLimit {
		return MaxListingLimit
	}
	return limit
}
