package repository

import (
	"context"

	"storefront-cms-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	GetBySlugAny(ctx context.Context, slug string) (*models.Page, error)
	GetAll(ctx context.Context) ([]models.Page, error)
	GetAllAdmin(ctx context.Context) ([]models.Page, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ExistsBySlugExceptID(ctx context.Context, slug string, excludeID uint) (bool, error)
	ListImageURLs(ctx context.Context) ([]string, error)
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) Update(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *pageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Page{}, id).Error
}

func (r *pageRepository) GetByID(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetBySlugAny(ctx context.Context, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetAll(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("COALESCE(pages.published_at, pages.created_at) DESC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) GetAllAdmin(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}}).
		Order("pages.created_at DESC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Page{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pageRepository) ExistsBySlugExceptID(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Page{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListImageURLs returns every banner background image referenced by a page.
func (r *pageRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT section->>'backgroundImage'
		FROM pages, jsonb_array_elements(COALESCE(pages.sections, '[]'::jsonb)) AS section
		WHERE pages.deleted_at IS NULL
		  AND COALESCE(section->>'backgroundImage', '') <> ''`).
		Scan(&urls).Error
	return urls, err
}
