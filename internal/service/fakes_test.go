package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"storefront-cms-backend/internal/background"
	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/storage"
	"storefront-cms-backend/pkg/cache"
)

const (
	testCategoryID = "507f191e810c19729de860ea"
	testProductID  = "64b7e2f1a1b2c3d4e5f60718"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func disabledCache() *cache.Cache {
	c, _ := cache.NewCache("", false)
	return c
}

type memPageRepo struct {
	mu        sync.Mutex
	nextID    uint
	pages     map[uint]models.Page
	createErr error
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{pages: make(map[uint]models.Page)}
}

func (r *memPageRepo) Create(ctx context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.pages {
		if existing.Slug == page.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	page.ID = r.nextID
	r.pages[page.ID] = *page
	return nil
}

func (r *memPageRepo) Update(ctx context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[page.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.pages[page.ID] = *page
	return nil
}

func (r *memPageRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
	return nil
}

func (r *memPageRepo) GetByID(ctx context.Context, id uint) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page, ok := r.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &page, nil
}

func (r *memPageRepo) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := r.GetBySlugAny(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !page.Published {
		return nil, gorm.ErrRecordNotFound
	}
	return page, nil
}

func (r *memPageRepo) GetBySlugAny(ctx context.Context, slug string) (*models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range r.pages {
		if page.Slug == slug {
			p := page
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPageRepo) GetAll(ctx context.Context) ([]models.Page, error) {
	all, _ := r.GetAllAdmin(ctx)
	published := make([]models.Page, 0, len(all))
	for _, page := range all {
		if page.Published {
			published = append(published, page)
		}
	}
	return published, nil
}

func (r *memPageRepo) GetAllAdmin(ctx context.Context) ([]models.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pages := make([]models.Page, 0, len(r.pages))
	for _, page := range r.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return pages, nil
}

func (r *memPageRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetBySlugAny(ctx, slug)
	return err == nil, nil
}

func (r *memPageRepo) ExistsBySlugExceptID(ctx context.Context, slug string, excludeID uint) (bool, error) {
	page, err := r.GetBySlugAny(ctx, slug)
	return err == nil && page.ID != excludeID, nil
}

func (r *memPageRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var urls []string
	for _, page := range r.pages {
		for _, section := range page.Sections {
			if section.BackgroundImage != "" {
				urls = append(urls, section.BackgroundImage)
			}
		}
	}
	return urls, nil
}

type memCategoryRepo struct {
	items []models.Category
	lists int
}

func (r *memCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = models.NewReferenceID()
	}
	r.items = append(r.items, *category)
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range r.items {
		if c.ID == id {
			item := c
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategoryRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	var out []models.Category
	for _, id := range ids {
		if c, err := r.GetByID(ctx, id); err == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) List(ctx context.Context, limit int) ([]models.Category, error) {
	r.lists++
	if limit < len(r.items) {
		return r.items[:limit], nil
	}
	return r.items, nil
}

func (r *memCategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, c := range r.items {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

type memProductRepo struct {
	items []models.Product
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = models.NewReferenceID()
	}
	r.items = append(r.items, *product)
	return nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		for _, p := range r.items {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *memProductRepo) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.items {
		if p.IsActive && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	for _, p := range r.items {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

// memStore is a storage.Storage keeping objects in memory.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(ctx context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	if s.putErr != nil {
		return storage.PutResult{}, s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.PutResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := in.Filename
	s.objects[key] = data
	return storage.PutResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStore) KeyFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, "https://cdn.test/") {
		return "", storage.ErrForeignURL
	}
	return strings.TrimPrefix(url, "https://cdn.test/"), nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// recordingScheduler keeps jobs so tests can run them synchronously.
type recordingScheduler struct {
	jobs []background.Job
}

func (s *recordingScheduler) Schedule(job background.Job) error {
	s.jobs = append(s.jobs, job)
	return nil
}

func pngUpload(name string) landing.PendingImage {
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	return landing.PendingImage{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

var errDatabaseDown = errors.New("database down")
