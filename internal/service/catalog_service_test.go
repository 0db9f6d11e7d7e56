package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
)

func TestCategoryCreate(t *testing.T) {
	repo := &memCategoryRepo{}
	svc := NewCategoryService(repo, disabledCache(), time.Minute)
	ctx := context.Background()

	inactive := false
	category, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "  Summer   Shoes ", IsActive: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.Name != "Summer Shoes" || category.Slug != "summer-shoes" || category.IsActive {
		t.Fatalf("unexpected category: %+v", category)
	}

	if _, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "Summer shoes"}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "   "}); !errors.Is(err, ErrCategoryNameRequired) {
		t.Fatalf("expected ErrCategoryNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "<b>Hats</b>"}); err == nil {
		t.Fatal("expected markup in name to be rejected")
	}
	encoded, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "&lt;img src=x onerror=alert(1)&gt;Hats"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded.Name != "Hats" {
		t.Fatalf("expected encoded markup to be removed, got %q", encoded.Name)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected two stored categories, got %d", len(repo.items))
	}
}

func TestCategoryGetByID(t *testing.T) {
	repo := &memCategoryRepo{}
	svc := NewCategoryService(repo, disabledCache(), time.Minute)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CreateCategoryRequest{Name: "Boots"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Name != "Boots" {
		t.Fatalf("unexpected category: %+v", found)
	}
	if _, err := svc.GetByID(ctx, models.NewReferenceID()); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestListCategoriesClampsLimit(t *testing.T) {
	repo := &memCategoryRepo{}
	svc := NewCategoryService(repo, disabledCache(), time.Minute)

	categories, err := svc.ListCategories(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if categories == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if repo.lists != 1 {
		t.Fatalf("expected one repository call, got %d", repo.lists)
	}
	if got := constants.ClampListingLimit(10_000); got != constants.MaxListingLimit {
		t.Fatalf("expected clamp to %d, got %d", constants.MaxListingLimit, got)
	}
}

func TestProductCreate(t *testing.T) {
	repo := &memProductRepo{}
	svc := NewProductService(repo, disabledCache(), time.Minute)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.CreateProductRequest{Title: "Linen Shirt", PriceCents: 4900, Currency: "eur"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Slug != "linen-shirt" || first.Currency != "EUR" || !first.IsActive {
		t.Fatalf("unexpected product: %+v", first)
	}

	second, err := svc.Create(ctx, models.CreateProductRequest{Title: "Linen shirt", PriceCents: 5900})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Slug != "linen-shirt-1" || second.Currency != "USD" {
		t.Fatalf("unexpected product: %+v", second)
	}

	if _, err := svc.Create(ctx, models.CreateProductRequest{Title: "Socks", PriceCents: -1}); err == nil {
		t.Fatal("expected negative price to be rejected")
	}
	if _, err := svc.Create(ctx, models.CreateProductRequest{Title: ""}); !errors.Is(err, ErrProductTitleRequired) {
		t.Fatalf("expected ErrProductTitleRequired, got %v", err)
	}
}
