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

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryExists       = errors.New("category with this name already exists")
	ErrCategoryNotFound     = errors.New("category not found")
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
	listingTTL   time.Duration
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cacheService *cache.Cache, listingTTL time.Duration) *CategoryService {
	if listingTTL <= 0 {
		listingTTL = constants.DefaultListingFreshness
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cacheService,
		listingTTL:   listingTTL,
	}
}

// ListCategories returns up to limit categories, inactive ones included.
// Results are cached per limit.
func (s *CategoryService) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	limit = constants.ClampListingLimit(limit)

	var cached []models.Category
	if err := s.cache.GetCachedListing(ctx, constants.ListingKindCategories, limit, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if err := s.cache.CacheListing(ctx, constants.ListingKindCategories, limit, categories, s.listingTTL); err != nil {
		logger.Warn("Failed to cache category listing", map[string]interface{}{"error": err.Error()})
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	name := cleanText(req.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("invalid category: %w", err)
	}

	slug := utils.GenerateSlug(name)
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category existence: %w", err)
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &models.Category{
		Name:     name,
		Slug:     slug,
		ImageURL: strings.TrimSpace(req.ImageURL),
		Link:     strings.TrimSpace(req.Link),
		IsActive: true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidateListing(ctx)
	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByIDs resolves ids to categories; unknown ids are skipped.
func (s *CategoryService) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	return s.categoryRepo.GetByIDs(ctx, ids)
}

func (s *CategoryService) invalidateListing(ctx context.Context) {
	if err := s.cache.InvalidateListing(ctx, constants.ListingKindCategories); err != nil {
		logger.Warn("Failed to invalidate category listing", map[string]interface{}{"error": err.Error()})
	}
}
