package landing

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"sort"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"storefront-cms-backend/pkg/validator"
)

var errNoUploader = errors.New("no uploader configured")

// PendingImage is a locally selected file that has not been uploaded yet.
type PendingImage struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// PendingFromMultipart wraps an uploaded form file. A missing or generic
// declared type is replaced by the sniffed one.
func PendingFromMultipart(fh *multipart.FileHeader) PendingImage {
	img := PendingImage{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
	if img.ContentType == "" || img.ContentType == "application/octet-stream" {
		if file, err := fh.Open(); err == nil {
			if detected, err := mimetype.DetectReader(file); err == nil {
				img.ContentType = detected.String()
			}
			file.Close()
		}
	}
	return img
}

// Uploader sends one image to the file store and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, img PendingImage) (string, error)
}

// ImageStager is the part of an UploadSession exposed to the list and
// banner editors.
type ImageStager interface {
	Stage(sectionID string, img PendingImage) error
	Unstage(sectionID string)
	Pending(sectionID string) (PendingImage, bool)
}

// UploadSession defers banner image uploads until submit. Images uploaded
// by an attempt that later failed are kept so a retry does not upload them
// again; URLs that end up unused are reported by TakeOrphans.
type UploadSession struct {
	uploader Uploader

	mu       sync.Mutex
	pending  map[string]PendingImage
	resolved map[string]string
	orphans  []string
}

func NewUploadSession(uploader Uploader) *UploadSession {
	return &UploadSession{
		uploader: uploader,
		pending:  make(map[string]PendingImage),
		resolved: make(map[string]string),
	}
}

// Stage records img as the pending image of the section, replacing any
// previous one.
func (s *UploadSession) Stage(sectionID string, img PendingImage) error {
	if !validator.ValidateImageContentType(img.ContentType) {
		return ErrNotAnImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropResolvedLocked(sectionID)
	s.pending[sectionID] = img
	return nil
}

func (s *UploadSession) Unstage(sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropResolvedLocked(sectionID)
	delete(s.pending, sectionID)
}

func (s *UploadSession) Pending(sectionID string) (PendingImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.pending[sectionID]
	return img, ok
}

// Len returns the number of staged images.
func (s *UploadSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ResolvePending uploads staged images in parallel and returns the URL per
// section id. When only is given, images staged for other ids are left
// alone. The first failure cancels the remaining uploads and is returned as
// an *UploadError.
func (s *UploadSession) ResolvePending(ctx context.Context, only ...string) (map[string]string, error) {
	var wanted map[string]struct{}
	if only != nil {
		wanted = make(map[string]struct{}, len(only))
		for _, id := range only {
			wanted[id] = struct{}{}
		}
	}

	s.mu.Lock()
	todo := make(map[string]PendingImage, len(s.pending))
	urls := make(map[string]string, len(s.pending))
	for id, img := range s.pending {
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		if url, ok := s.resolved[id]; ok {
			urls[id] = url
			continue
		}
		todo[id] = img
	}
	s.mu.Unlock()

	pendingUploads.Observe(float64(len(todo)))
	if len(todo) == 0 {
		return urls, nil
	}

	ids := make([]string, 0, len(todo))
	for id := range todo {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if s.uploader == nil {
		return nil, &UploadError{SectionID: ids[0], Err: errNoUploader}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		img := todo[id]
		g.Go(func() error {
			url, err := s.uploader.UploadImage(gctx, img)
			if err != nil {
				return &UploadError{SectionID: id, Err: err}
			}
			s.recordResolved(id, img, url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if url, ok := s.resolved[id]; ok {
			urls[id] = url
		}
	}
	return urls, nil
}

// recordResolved stores url unless the section was restaged meanwhile.
func (s *UploadSession) recordResolved(id string, img PendingImage, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.pending[id]
	if !ok || current.Filename != img.Filename || current.Size != img.Size {
		s.orphans = append(s.orphans, url)
		return
	}
	s.resolved[id] = url
}

func (s *UploadSession) dropResolvedLocked(sectionID string) {
	if url, ok := s.resolved[sectionID]; ok {
		s.orphans = append(s.orphans, url)
		delete(s.resolved, sectionID)
	}
}

// Clear forgets all staged images after they were persisted.
func (s *UploadSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]PendingImage)
	s.resolved = make(map[string]string)
}

// Discard drops staged images without persisting them. Already uploaded
// ones become orphans.
func (s *UploadSession) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.resolved {
		s.dropResolvedLocked(id)
	}
	s.pending = make(map[string]PendingImage)
}

// TakeOrphans returns and forgets the URLs uploaded but no longer used.
func (s *UploadSession) TakeOrphans() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.orphans
	s.orphans = nil
	return out
}
