// Package storage keeps uploaded banner images on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"storefront-cms-backend/pkg/utils"
)

var ErrForeignURL = errors.New("url does not belong to this storage")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL produced by Put back to its key.
	KeyFromURL(url string) (string, error)
}

// objectName builds a readable, collision free file name from the original one.
func objectName(filename string) string {
	ext := safeExt(filename)
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug := utils.GenerateSlug(base)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if slug == "" {
		return suffix + ext
	}
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	return slug + "-" + suffix + ext
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return ext
	default:
		return ""
	}
}
