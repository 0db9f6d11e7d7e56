package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"storefront-cms-backend/internal/landing"
)

func TestUploadImageStoresSniffedType(t *testing.T) {
	store := newMemStore()
	svc := NewUploadService(store, 0)

	url, err := svc.UploadImage(context.Background(), pngUpload("banner.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.test/banner.png" {
		t.Fatalf("unexpected url: %s", url)
	}
	if !store.has("banner.png") {
		t.Fatalf("expected object to be stored")
	}
	if got := store.objects["banner.png"]; !bytes.HasPrefix(got, pngHeader) {
		t.Fatalf("expected full content to be stored, got %d bytes", len(got))
	}
}

func TestUploadImageRejectsTooLarge(t *testing.T) {
	svc := NewUploadService(newMemStore(), 16)

	if _, err := svc.UploadImage(context.Background(), pngUpload("banner.png")); !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("expected ErrUploadTooLarge, got %v", err)
	}
}

func TestUploadImageRejectsDisguisedContent(t *testing.T) {
	svc := NewUploadService(newMemStore(), 0)
	data := []byte("<html><body>not an image</body></html>")
	img := landing.PendingImage{
		Filename:    "banner.png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}

	if _, err := svc.UploadImage(context.Background(), img); !errors.Is(err, ErrUnsupportedUpload) {
		t.Fatalf("expected ErrUnsupportedUpload, got %v", err)
	}
}

func TestUploadImageRejectsExtension(t *testing.T) {
	svc := NewUploadService(newMemStore(), 0)
	img := pngUpload("banner.svg")

	if _, err := svc.UploadImage(context.Background(), img); !errors.Is(err, ErrUnsupportedUpload) {
		t.Fatalf("expected ErrUnsupportedUpload, got %v", err)
	}
}

func TestUploadImageStorageFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("bucket unavailable")
	svc := NewUploadService(store, 0)

	_, err := svc.UploadImage(context.Background(), pngUpload("banner.png"))
	if err == nil || errors.Is(err, ErrUnsupportedUpload) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestUploadMultipart(t *testing.T) {
	store := newMemStore()
	svc := NewUploadService(store, 0)
	file := createMultipartFile(t, "photo.png", append(append([]byte{}, pngHeader...), make([]byte, 32)...))

	url, err := svc.UploadMultipart(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.test/photo.png" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestDeleteByURLIgnoresForeignURLs(t *testing.T) {
	store := newMemStore()
	svc := NewUploadService(store, 0)

	if err := svc.DeleteByURL(context.Background(), "https://elsewhere.test/a.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected nothing deleted, got %v", store.deleted)
	}

	if err := svc.DeleteByURL(context.Background(), "https://cdn.test/a.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "a.png" {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
}

func createMultipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}

	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	return files[0]
}
