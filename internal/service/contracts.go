package service

import (
	"context"
	"mime/multipart"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
)

type PageUseCase interface {
	landing.PagePersister
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	GetBySlugAdmin(ctx context.Context, slug string) (*models.Page, error)
	GetAll(ctx context.Context) ([]models.Page, error)
	GetAllAdmin(ctx context.Context) ([]models.Page, error)
	Publish(ctx context.Context, id uint) (*models.Page, error)
	Unpublish(ctx context.Context, id uint) (*models.Page, error)
	ReferencedImageURLs(ctx context.Context) (map[string]struct{}, error)
}

type CategoryUseCase interface {
	landing.CategoryLister
	Create(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Category, error)
}

type ProductUseCase interface {
	landing.ProductLister
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type UploadUseCase interface {
	landing.Uploader
	UploadMultipart(ctx context.Context, file *multipart.FileHeader) (string, error)
	DeleteByURL(ctx context.Context, url string) error
	MaxSize() int64
}

type LandingPageUseCase interface {
	Editor(ctx context.Context, id uint) (*EditorView, error)
	Submit(ctx context.Context, req SubmitRequest) (*models.Page, error)
	Validate(ctx context.Context, req SubmitRequest) error
}

var (
	_ PageUseCase        = (*PageService)(nil)
	_ CategoryUseCase    = (*CategoryService)(nil)
	_ ProductUseCase     = (*ProductService)(nil)
	_ UploadUseCase      = (*UploadService)(nil)
	_ LandingPageUseCase = (*LandingPageService)(nil)
)
