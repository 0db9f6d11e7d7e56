package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}

	key := objectName(in.Filename)
	dstPath := filepath.Join(l.BaseDir, key)

	f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return PutResult{}, err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dstPath)
		return PutResult{}, err
	}
	if err := f.Close(); err != nil {
		os.Remove(dstPath)
		return PutResult{}, err
	}

	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) KeyFromURL(url string) (string, error) {
	trimmed := strings.TrimSpace(url)
	if !strings.HasPrefix(trimmed, l.URLPrefix+"/") {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(trimmed, l.URLPrefix+"/")
	if key == "" || strings.Contains(key, "/") {
		return "", ErrForeignURL
	}
	return key, nil
}

// resolve keeps key inside BaseDir.
func (l *Local) resolve(key string) (string, error) {
	baseAbs, err := filepath.Abs(l.BaseDir)
	if err != nil {
		return "", err
	}
	pathAbs, err := filepath.Abs(filepath.Join(l.BaseDir, filepath.Base(key)))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(pathAbs, baseAbs+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: %s", key)
	}
	return pathAbs, nil
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
