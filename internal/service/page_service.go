package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/utils"
	"storefront-cms-backend/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrPageNotFound      = errors.New("page not found")
	ErrSlugConflict      = errors.New("page slug already exists")
	ErrPageTitleRequired = errors.New("page title is required")
	ErrInvalidPageType   = errors.New("invalid page type")
)

const allPagesCacheKey = "pages:all"

type PageService struct {
	pageRepo repository.PageRepository
	cache    *cache.Cache
	now      func() time.Time
}

func NewPageService(pageRepo repository.PageRepository, cacheService *cache.Cache) *PageService {
	return &PageService{
		pageRepo: pageRepo,
		cache:    cacheService,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePage stores a new page. Failures the caller can act on are
// returned as *landing.PersistenceError carrying a displayable message.
func (s *PageService) CreatePage(ctx context.Context, payload models.LandingPagePayload) (*models.Page, error) {
	page := &models.Page{}
	if err := s.applyPayload(ctx, page, payload); err != nil {
		return nil, err
	}

	slug, err := utils.UniqueSlug(utils.GenerateSlug(page.Title), func(candidate string) (bool, error) {
		return s.pageRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate page slug: %w", err)
	}
	page.Slug = slug

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, translateWriteError(err)
	}

	s.invalidate(ctx, page.ID)
	logger.FromContext(ctx).WithField("page_id", page.ID).Info("Page created")
	return s.pageRepo.GetByID(ctx, page.ID)
}

// UpdatePage replaces title, content and sections of page id.
func (s *PageService) UpdatePage(ctx context.Context, id uint, payload models.LandingPagePayload) (*models.Page, error) {
	page, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	originalTitle := page.Title
	if err := s.applyPayload(ctx, page, payload); err != nil {
		return nil, err
	}

	if page.Title != originalTitle {
		slug, err := utils.UniqueSlug(utils.GenerateSlug(page.Title), func(candidate string) (bool, error) {
			return s.pageRepo.ExistsBySlugExceptID(ctx, candidate, page.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate page slug: %w", err)
		}
		page.Slug = slug
	}

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, translateWriteError(err)
	}

	s.invalidate(ctx, page.ID)
	logger.FromContext(ctx).WithField("page_id", page.ID).Info("Page updated")
	return s.pageRepo.GetByID(ctx, page.ID)
}

func (s *PageService) applyPayload(ctx context.Context, page *models.Page, payload models.LandingPagePayload) error {
	title := cleanText(payload.Title)
	if title == "" {
		return landing.NewPersistenceError("Page title is required.", ErrPageTitleRequired)
	}

	pageType := strings.TrimSpace(payload.Type)
	if pageType == "" {
		pageType = constants.PageTypeLanding
	}
	if pageType != constants.PageTypeLanding && pageType != constants.PageTypeStandard {
		return landing.NewPersistenceError(fmt.Sprintf("Unknown page type %q.", pageType), ErrInvalidPageType)
	}

	sections, err := PrepareSections(payload.Sections)
	if err != nil {
		return landing.NewPersistenceError(err.Error(), err)
	}
	if pageType == constants.PageTypeLanding {
		if verr := landing.ValidateBackendSections(title, sections); verr != nil {
			logger.FromContext(ctx).WithField("errors", verr.Messages()).Warn("Rejected landing page sections")
			return landing.NewPersistenceError(verr.Error(), verr)
		}
	}

	page.Type = pageType
	page.Title = title
	page.Content = validator.SanitizeHTML(strings.TrimSpace(payload.Content))
	page.Sections = sections
	return nil
}

func (s *PageService) GetByID(ctx context.Context, id uint) (*models.Page, error) {
	var cached models.Page
	if err := s.cache.GetCachedPage(ctx, id, &cached); err == nil {
		return &cached, nil
	}

	page, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CachePage(ctx, id, page); err != nil {
		logger.Warn("Failed to cache page", map[string]interface{}{"page_id": id, "error": err.Error()})
	}
	return page, nil
}

// GetBySlug returns a published page.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	key := "page:slug:" + slug
	var cached models.Page
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	page, err := s.pageRepo.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	_ = s.cache.Set(ctx, key, page, time.Hour)
	return page, nil
}

// GetBySlugAdmin finds a page by slug whether or not it is published. It
// bypasses the cache so drafts are always current.
func (s *PageService) GetBySlugAdmin(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlugAny(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

// GetAll lists published pages.
func (s *PageService) GetAll(ctx context.Context) ([]models.Page, error) {
	var cached []models.Page
	if err := s.cache.Get(ctx, allPagesCacheKey, &cached); err == nil {
		return cached, nil
	}

	pages, err := s.pageRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, allPagesCacheKey, pages, time.Hour)
	return pages, nil
}

func (s *PageService) GetAllAdmin(ctx context.Context) ([]models.Page, error) {
	return s.pageRepo.GetAllAdmin(ctx)
}

func (s *PageService) Delete(ctx context.Context, id uint) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.pageRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *PageService) Publish(ctx context.Context, id uint) (*models.Page, error) {
	return s.setPublished(ctx, id, true)
}

func (s *PageService) Unpublish(ctx context.Context, id uint) (*models.Page, error) {
	return s.setPublished(ctx, id, false)
}

func (s *PageService) setPublished(ctx context.Context, id uint, published bool) (*models.Page, error) {
	page, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.Published == published {
		return page, nil
	}

	page.Published = published
	if published {
		now := s.now()
		page.PublishedAt = &now
	} else {
		page.PublishedAt = nil
	}

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return page, nil
}

// ReferencedImageURLs lists the banner images used by stored pages.
func (s *PageService) ReferencedImageURLs(ctx context.Context) (map[string]struct{}, error) {
	urls, err := s.pageRepo.ListImageURLs(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		set[url] = struct{}{}
	}
	return set, nil
}

func (s *PageService) load(ctx context.Context, id uint) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, landing.NewPersistenceError("Page not found.", ErrPageNotFound)
		}
		return nil, err
	}
	return page, nil
}

func (s *PageService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.InvalidatePage(ctx, id); err != nil {
		logger.Warn("Failed to invalidate page cache", map[string]interface{}{"page_id": id, "error": err.Error()})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return landing.NewPersistenceError("A page with this slug already exists.", ErrSlugConflict)
	}
	return fmt.Errorf("failed to save page: %w", err)
}
