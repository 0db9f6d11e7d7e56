package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront-cms-backend/internal/background"
	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/logger"
)

const (
	orphanCleanupJob    = "orphaned-upload-cleanup"
	listingWarmupJob    = "catalog-listing-warmup"
	defaultCleanupDelay = 30 * time.Second
)

// JobScheduler queues background work.
type JobScheduler interface {
	Schedule(job background.Job) error
}

// EditorTab lists the section ids shown in one editor panel.
type EditorTab struct {
	Kind       landing.SectionKind `json:"kind"`
	SectionIDs []string            `json:"sectionIds"`
}

type EditorLimits struct {
	BannerSections       int   `json:"bannerSections"`
	BannerButtons        int   `json:"bannerButtons"`
	CollectionCategories int   `json:"collectionCategories"`
	ProductSelections    int   `json:"productSelections"`
	MaxUploadBytes       int64 `json:"maxUploadBytes"`
}

// EditorView is everything the landing page editor needs to open a page.
type EditorView struct {
	PageID     uint                      `json:"pageId"`
	Title      string                    `json:"title"`
	Content    string                    `json:"content"`
	Published  bool                      `json:"published"`
	Sections   json.RawMessage           `json:"sections"`
	Tabs       []EditorTab               `json:"tabs"`
	Categories []landing.CategoryDisplay `json:"categories"`
	Products   []landing.ProductDisplay  `json:"products"`
	Limits     EditorLimits              `json:"limits"`
}

// SubmitRequest is one save of the landing page editor. Images maps banner
// section ids to newly selected files.
type SubmitRequest struct {
	PageID   uint
	Title    string
	Content  string
	Sections []landing.Section
	Images   map[string]landing.PendingImage
}

type LandingPageService struct {
	pages        PageUseCase
	categories   CategoryUseCase
	products     ProductUseCase
	uploads      UploadUseCase
	jobs         JobScheduler
	cleanupDelay time.Duration
}

func NewLandingPageService(pages PageUseCase, categories CategoryUseCase, products ProductUseCase, uploads UploadUseCase, jobs JobScheduler) *LandingPageService {
	return &LandingPageService{
		pages:        pages,
		categories:   categories,
		products:     products,
		uploads:      uploads,
		jobs:         jobs,
		cleanupDelay: defaultCleanupDelay,
	}
}

// Editor loads page id in editor shape. Display data stored with the page
// is refreshed from the catalog where possible.
func (s *LandingPageService) Editor(ctx context.Context, id uint) (*EditorView, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.Type != constants.PageTypeLanding {
		return nil, fmt.Errorf("%w: page %d is %q", ErrInvalidPageType, id, page.Type)
	}

	sections, display := landing.ToEditorShape(page.Sections)
	categoryIDs, productIDs := referencedIDs(sections)
	if err := s.refreshDisplay(ctx, display, categoryIDs, productIDs); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to refresh landing page display data")
	}

	encoded, err := landing.MarshalSections(sections)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sections: %w", err)
	}

	list := landing.NewSectionList(sections, nil, nil)
	tabs := make([]EditorTab, 0, 3)
	for _, tab := range list.Tabs() {
		ids := make([]string, 0, len(tab.Sections))
		for _, section := range tab.Sections {
			ids = append(ids, section.Base().ID)
		}
		tabs = append(tabs, EditorTab{Kind: tab.Kind, SectionIDs: ids})
	}

	return &EditorView{
		PageID:     page.ID,
		Title:      page.Title,
		Content:    page.Content,
		Published:  page.Published,
		Sections:   encoded,
		Tabs:       tabs,
		Categories: display.Categories(categoryIDs),
		Products:   display.Products(productIDs),
		Limits:     s.limits(),
	}, nil
}

// Submit runs one save through a fresh page form: staged images are
// attached to their banners, the form validates, uploads and persists.
// Uploads that end up unreferenced are deleted in the background.
func (s *LandingPageService) Submit(ctx context.Context, req SubmitRequest) (*models.Page, error) {
	display := landing.NewDisplayIndex()
	categoryIDs, productIDs := referencedIDs(req.Sections)
	if err := s.refreshDisplay(ctx, display, categoryIDs, productIDs); err != nil {
		return nil, fmt.Errorf("failed to load catalog data: %w", err)
	}

	form := landing.NewPageForm(landing.FormOptions{
		PageID:     req.PageID,
		Title:      req.Title,
		Content:    req.Content,
		Sections:   req.Sections,
		Uploads:    landing.NewUploadSession(s.uploads),
		Display:    display,
		Persister:  s.pages,
		OnOrphaned: s.scheduleCleanup,
	})
	defer form.Close()

	if err := stageImages(form, req.Images); err != nil {
		return nil, err
	}

	return form.Submit(ctx)
}

// Validate runs the submit checks without uploading or saving anything.
func (s *LandingPageService) Validate(ctx context.Context, req SubmitRequest) error {
	form := landing.NewPageForm(landing.FormOptions{
		PageID:   req.PageID,
		Title:    req.Title,
		Content:  req.Content,
		Sections: req.Sections,
	})
	defer form.Close()

	if err := stageImages(form, req.Images); err != nil {
		return err
	}
	return form.Validate()
}

// WarmListings fills the listing cache used by the selection editors.
func (s *LandingPageService) WarmListings(ctx context.Context) error {
	if _, err := s.categories.ListCategories(ctx, constants.DefaultListingLimit); err != nil {
		return err
	}
	_, err := s.products.ListProducts(ctx, constants.DefaultListingLimit)
	return err
}

// ListingWarmupJob wraps WarmListings for the scheduler.
func (s *LandingPageService) ListingWarmupJob() background.Job {
	return background.Job{
		Name:        listingWarmupJob,
		Run:         s.WarmListings,
		Timeout:     30 * time.Second,
		RetryPolicy: background.RetryPolicy{MaxRetries: 2, Backoff: 5 * time.Second},
	}
}

func (s *LandingPageService) scheduleCleanup(urls []string) {
	if len(urls) == 0 {
		return
	}
	urls = append([]string(nil), urls...)
	fields := map[string]interface{}{"urls": len(urls)}

	if s.jobs == nil {
		logger.Warn("No scheduler configured, orphaned uploads kept", fields)
		return
	}

	err := s.jobs.Schedule(background.Job{
		Name:        orphanCleanupJob,
		Delay:       s.cleanupDelay,
		Timeout:     time.Minute,
		RetryPolicy: background.RetryPolicy{MaxRetries: 3, Backoff: 10 * time.Second},
		Run: func(ctx context.Context) error {
			return s.deleteOrphans(ctx, urls)
		},
	})
	if err != nil {
		logger.Error(err, "Failed to schedule orphaned upload cleanup", fields)
		return
	}
	logger.Info("Scheduled orphaned upload cleanup", fields)
}

// deleteOrphans removes urls that no stored page references by now.
func (s *LandingPageService) deleteOrphans(ctx context.Context, urls []string) error {
	referenced, err := s.pages.ReferencedImageURLs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load referenced images: %w", err)
	}

	var errs []error
	for _, url := range urls {
		if _, used := referenced[url]; used {
			continue
		}
		if err := s.uploads.DeleteByURL(ctx, url); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// stageImages attaches files to their banners in a stable order.
func stageImages(form *landing.PageForm, images map[string]landing.PendingImage) error {
	sectionIDs := make([]string, 0, len(images))
	for id := range images {
		sectionIDs = append(sectionIDs, id)
	}
	sort.Strings(sectionIDs)

	for _, id := range sectionIDs {
		editor, err := form.Sections().BannerEditor(id)
		if err != nil {
			return err
		}
		if err := editor.SelectImage(images[id]); err != nil {
			return fmt.Errorf("section %s: %w", id, err)
		}
	}
	return nil
}

func (s *LandingPageService) refreshDisplay(ctx context.Context, display *landing.DisplayIndex, categoryIDs, productIDs []string) error {
	if len(categoryIDs) > 0 {
		categories, err := s.categories.GetByIDs(ctx, categoryIDs)
		if err != nil {
			return err
		}
		display.AddCategoryModels(categories)
	}
	if len(productIDs) > 0 {
		products, err := s.products.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		display.AddProductModels(products)
	}
	return nil
}

func (s *LandingPageService) limits() EditorLimits {
	return EditorLimits{
		BannerSections:       constants.MaxBannerSections,
		BannerButtons:        constants.MaxBannerButtons,
		CollectionCategories: constants.MaxCollectionCategories,
		ProductSelections:    constants.MaxProductSelections,
		MaxUploadBytes:       s.uploads.MaxSize(),
	}
}

// referencedIDs collects the distinct category and product ids of sections
// in first-seen order.
func referencedIDs(sections []landing.Section) (categoryIDs, productIDs []string) {
	seenCategories := map[string]struct{}{}
	seenProducts := map[string]struct{}{}
	add := func(seen map[string]struct{}, out *[]string, ids []string) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			*out = append(*out, id)
		}
	}

	for _, section := range sections {
		switch v := section.(type) {
		case landing.CollectionSection:
			add(seenCategories, &categoryIDs, v.CategoryIDs)
		case landing.ProductSection:
			add(seenProducts, &productIDs, v.ProductIDs)
		case landing.DealsSection:
			add(seenProducts, &productIDs, v.ProductIDs)
		}
	}
	return categoryIDs, productIDs
}
