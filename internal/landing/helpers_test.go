package landing

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"storefront-cms-backend/internal/models"
)

const (
	catA  = "507f191e810c19729de860ea"
	catB  = "507f1f77bcf86cd799439011"
	catC  = "5f8d0d55b54764421b7156c3"
	catD  = "5f8d0d55b54764421b7156c4"
	catE  = "5f8d0d55b54764421b7156c5"
	prodA = "64b7e2f1a1b2c3d4e5f60718"
)

type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (u *fakeUploader) UploadImage(ctx context.Context, img PendingImage) (string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, img.Filename)
	err := u.fail[img.Filename]
	u.mu.Unlock()
	if err != nil {
		return "", err
	}
	return "https://cdn.test/" + img.Filename, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type fakePersister struct {
	creates []models.LandingPagePayload
	updates map[uint]models.LandingPagePayload
	err     error
}

func (p *fakePersister) CreatePage(ctx context.Context, payload models.LandingPagePayload) (*models.Page, error) {
	p.creates = append(p.creates, payload)
	if p.err != nil {
		return nil, p.err
	}
	return &models.Page{ID: 1, Title: payload.Title, Sections: payload.Sections}, nil
}

func (p *fakePersister) UpdatePage(ctx context.Context, id uint, payload models.LandingPagePayload) (*models.Page, error) {
	if p.updates == nil {
		p.updates = make(map[uint]models.LandingPagePayload)
	}
	p.updates[id] = payload
	if p.err != nil {
		return nil, p.err
	}
	return &models.Page{ID: id, Title: payload.Title, Sections: payload.Sections}, nil
}

func (p *fakePersister) calls() int {
	return len(p.creates) + len(p.updates)
}

type fakeCategories struct {
	items []models.Category
	err   error
}

func (f fakeCategories) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	return f.items, f.err
}

type fakeProducts struct {
	items []models.Product
}

func (f fakeProducts) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return f.items, nil
}

var errUploadRejected = errors.New("upload rejected")

func pngImage(name string) PendingImage {
	return PendingImage{
		Filename:    name,
		ContentType: "image/png",
		Size:        3,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("png")), nil
		},
	}
}

func banner(id, title string) BannerSection {
	return BannerSection{
		SectionBase: SectionBase{ID: id, Title: title, Subtitle: "subtitle"},
		ImageURL:    "https://cdn.test/existing.png",
		Buttons:     []Button{},
	}
}
