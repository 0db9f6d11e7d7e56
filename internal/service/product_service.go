package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/utils"
	"storefront-cms-backend/pkg/validator"
)

var ErrProductTitleRequired = errors.New("product title is required")

type ProductService struct {
	productRepo repository.ProductRepository
	cache       *cache.Cache
	listingTTL  time.Duration
}

func NewProductService(productRepo repository.ProductRepository, cacheService *cache.Cache, listingTTL time.Duration) *ProductService {
	if listingTTL <= 0 {
		listingTTL = constants.DefaultListingFreshness
	}
	return &ProductService{
		productRepo: productRepo,
		cache:       cacheService,
		listingTTL:  listingTTL,
	}
}

// ListProducts returns up to limit active products.
func (s *ProductService) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	limit = constants.ClampListingLimit(limit)

	var cached []models.Product
	if err := s.cache.GetCachedListing(ctx, constants.ListingKindProducts, limit, &cached); err == nil {
		return cached, nil
	}

	products, err := s.productRepo.ListActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	if err := s.cache.CacheListing(ctx, constants.ListingKindProducts, limit, products, s.listingTTL); err != nil {
		logger.Warn("Failed to cache product listing", map[string]interface{}{"error": err.Error()})
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	title := cleanText(req.Title)
	if title == "" {
		return nil, ErrProductTitleRequired
	}
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid product: %w", err)
	}

	slug, err := utils.UniqueSlug(utils.GenerateSlug(title), func(candidate string) (bool, error) {
		return s.productRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate product slug: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	product := &models.Product{
		Title:       title,
		Slug:        slug,
		Description: validator.SanitizeHTML(strings.TrimSpace(req.Description)),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		PriceCents:  req.PriceCents,
		Currency:    currency,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := s.cache.InvalidateListing(ctx, constants.ListingKindProducts); err != nil {
		logger.Warn("Failed to invalidate product listing", map[string]interface{}{"error": err.Error()})
	}
	return product, nil
}

func (s *ProductService) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return s.productRepo.GetByIDs(ctx, ids)
}
