package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/service"
)

type fakeLandingService struct {
	submitted []service.SubmitRequest
	err       error
}

func (f *fakeLandingService) Editor(ctx context.Context, id uint) (*service.EditorView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.EditorView{PageID: id, Title: "Home", Sections: json.RawMessage("[]")}, nil
}

func (f *fakeLandingService) Submit(ctx context.Context, req service.SubmitRequest) (*models.Page, error) {
	f.submitted = append(f.submitted, req)
	if f.err != nil {
		return nil, f.err
	}
	id := req.PageID
	if id == 0 {
		id = 7
	}
	return &models.Page{ID: id, Title: req.Title}, nil
}

func (f *fakeLandingService) Validate(ctx context.Context, req service.SubmitRequest) error {
	f.submitted = append(f.submitted, req)
	return f.err
}

func newLandingRouter(svc service.LandingPageUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewLandingPageHandler(svc)
	router.GET("/landing-pages/sections/new", h.NewSection)
	router.GET("/landing-pages/:id/editor", h.Editor)
	router.POST("/landing-pages", h.Create)
	router.POST("/landing-pages/validate", h.Validate)
	router.PUT("/landing-pages/:id", h.Update)
	return router
}

const samplePayload = `{"title":"Home","sections":[{"id":"hero","type":"banner","title":"Summer","subtitle":"Sale"}]}`

func TestLandingCreateJSON(t *testing.T) {
	svc := &fakeLandingService{}
	router := newLandingRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/landing-pages", strings.NewReader(samplePayload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(svc.submitted))
	}
	got := svc.submitted[0]
	if got.Title != "Home" || len(got.Sections) != 1 || got.Sections[0].Kind() != landing.KindBanner {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestLandingUpdateMultipart(t *testing.T) {
	svc := &fakeLandingService{}
	router := newLandingRouter(svc)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("payload", samplePayload); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	part, err := writer.CreateFormFile("image:hero", "hero.png")
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	part.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	writer.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/landing-pages/3", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := svc.submitted[0]
	if got.PageID != 3 {
		t.Fatalf("expected page id 3, got %d", got.PageID)
	}
	img, ok := got.Images["hero"]
	if !ok {
		t.Fatalf("expected image for hero section, got %v", got.Images)
	}
	if img.Filename != "hero.png" || img.ContentType != "image/png" {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestLandingMultipartRequiresPayload(t *testing.T) {
	router := newLandingRouter(&fakeLandingService{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("other", "x")
	writer.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/landing-pages", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLandingSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    &landing.ValidationError{Sections: map[string][]string{"hero": {"Image is required"}}},
			status: http.StatusUnprocessableEntity,
			body:   "Image is required",
		},
		{
			name:   "rejected upload",
			err:    &landing.UploadError{SectionID: "hero", SectionTitle: "Summer", Err: service.ErrUnsupportedUpload},
			status: http.StatusBadRequest,
			body:   `Failed to upload image for section \"Summer\"`,
		},
		{
			name:   "storage failure",
			err:    &landing.UploadError{SectionID: "hero", SectionTitle: "Summer", Err: errors.New("bucket down")},
			status: http.StatusBadGateway,
			body:   "bucket down",
		},
		{
			name:   "slug conflict",
			err:    landing.NewPersistenceError("A page with this slug already exists.", service.ErrSlugConflict),
			status: http.StatusConflict,
			body:   "A page with this slug already exists.",
		},
		{
			name:   "generic persistence",
			err:    &landing.PersistenceError{Err: errors.New("db")},
			status: http.StatusInternalServerError,
			body:   "Failed to save landing page.",
		},
		{
			name:   "server side validation",
			err:    landing.NewPersistenceError("At least one banner section is required.", &landing.ValidationError{Global: []string{"At least one banner section is required."}}),
			status: http.StatusUnprocessableEntity,
			body:   "At least one banner section is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newLandingRouter(&fakeLandingService{err: tt.err})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/landing-pages", strings.NewReader(samplePayload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Fatalf("expected body to contain %q, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestLandingEditor(t *testing.T) {
	router := newLandingRouter(&fakeLandingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing-pages/5/editor", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Editor service.EditorView `json:"editor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Editor.PageID != 5 {
		t.Fatalf("unexpected page id %d", resp.Editor.PageID)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing-pages/abc/editor", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestLandingEditorNotFound(t *testing.T) {
	router := newLandingRouter(&fakeLandingService{err: landing.NewPersistenceError("Page not found.", service.ErrPageNotFound)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing-pages/5/editor", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLandingNewSection(t *testing.T) {
	router := newLandingRouter(&fakeLandingService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing-pages/sections/new?kind=collection", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"type":"collection"`) || !strings.Contains(rec.Body.String(), "View all") {
		t.Fatalf("unexpected section: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/landing-pages/sections/new?kind=video", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestLandingValidate(t *testing.T) {
	svc := &fakeLandingService{}
	router := newLandingRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/landing-pages/validate", strings.NewReader(samplePayload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
