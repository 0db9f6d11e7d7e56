package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/storage"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/validator"
)

const defaultMaxUploadSize = 10 * 1024 * 1024

// sniffLen is how much of a file mimetype needs to recognise image formats.
const sniffLen = 3072

var (
	ErrUploadTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrUnsupportedUpload = errors.New("file type not allowed")
	ErrEmptyUpload       = errors.New("file is empty")
)

var uploadResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "storefront_cms",
	Subsystem: "uploads",
	Name:      "images_total",
	Help:      "Image uploads by outcome.",
}, []string{"result"})

type UploadService struct {
	store   storage.Storage
	maxSize int64
}

func NewUploadService(store storage.Storage, maxSize int64) *UploadService {
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	return &UploadService{store: store, maxSize: maxSize}
}

func (s *UploadService) MaxSize() int64 { return s.maxSize }

// UploadImage validates and stores one image, returning its public URL.
// The declared type must be an image type and must agree with the
// sniffed content.
func (s *UploadService) UploadImage(ctx context.Context, img landing.PendingImage) (string, error) {
	url, err := s.uploadImage(ctx, img)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrUploadTooLarge) || errors.Is(err, ErrUnsupportedUpload) || errors.Is(err, ErrEmptyUpload) {
			result = "rejected"
		}
		uploadResults.WithLabelValues(result).Inc()
		return "", err
	}
	uploadResults.WithLabelValues("stored").Inc()
	return url, nil
}

func (s *UploadService) uploadImage(ctx context.Context, img landing.PendingImage) (string, error) {
	if img.Open == nil {
		return "", ErrEmptyUpload
	}
	if !validator.ValidateFileSize(img.Size, s.maxSize) {
		if img.Size <= 0 {
			return "", ErrEmptyUpload
		}
		return "", ErrUploadTooLarge
	}
	if !validator.ValidateImageExtension(img.Filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedUpload, img.Filename)
	}
	if img.ContentType != "" && !validator.ValidateImageContentType(img.ContentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedUpload, img.ContentType)
	}

	src, err := img.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head).String()
	if !validator.ValidateImageContentType(detected) {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedUpload, detected)
	}

	result, err := s.store.Put(ctx, io.MultiReader(bytes.NewReader(head), src), storage.PutInput{
		Filename:    img.Filename,
		ContentType: detected,
		Size:        img.Size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"key":  result.Key,
		"size": img.Size,
	}).Info("Image uploaded")
	return result.URL, nil
}

// UploadMultipart stores a form file.
func (s *UploadService) UploadMultipart(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", ErrEmptyUpload
	}
	return s.UploadImage(ctx, landing.PendingFromMultipart(file))
}

// DeleteByURL removes an image this service stored. URLs that belong to
// another host are ignored.
func (s *UploadService) DeleteByURL(ctx context.Context, url string) error {
	key, err := s.store.KeyFromURL(url)
	if err != nil {
		if errors.Is(err, storage.ErrForeignURL) {
			return nil
		}
		return err
	}
	return s.store.Delete(ctx, key)
}
