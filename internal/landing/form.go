package landing

import (
	"context"
	"errors"

	"storefront-cms-backend/internal/constants"
	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/logger"
)

// FormState is the lifecycle position of a PageForm.
type FormState string

const (
	StateEditing    FormState = "editing"
	StateValidating FormState = "validating"
	StateSubmitting FormState = "submitting"
	StateSubmitted  FormState = "submitted"
	StateClosed     FormState = "closed"
)

// PagePersister stores landing pages.
type PagePersister interface {
	CreatePage(ctx context.Context, payload models.LandingPagePayload) (*models.Page, error)
	UpdatePage(ctx context.Context, id uint, payload models.LandingPagePayload) (*models.Page, error)
}

type FormOptions struct {
	// PageID is zero for a new page.
	PageID    uint
	Title     string
	Content   string
	Sections  []Section
	Uploads   *UploadSession
	Display   DisplayLookup
	Persister PagePersister
	// OnOrphaned receives uploaded image URLs that no saved page references.
	OnOrphaned func(urls []string)
	// OnChange receives the full section list after every change.
	OnChange func([]Section)
}

// PageForm is the top level landing page form: a title, a section list and
// the upload session. It is owned by a single caller at a time.
type PageForm struct {
	pageID  uint
	title   string
	content string

	list      *SectionList
	uploads   *UploadSession
	display   DisplayLookup
	persister PagePersister

	onOrphaned func([]string)
	onChange   func([]Section)

	state         FormState
	sectionErrors map[string][]string
}

func NewPageForm(opts FormOptions) *PageForm {
	f := &PageForm{
		pageID:     opts.PageID,
		title:      opts.Title,
		content:    opts.Content,
		uploads:    opts.Uploads,
		display:    opts.Display,
		persister:  opts.Persister,
		onOrphaned: opts.OnOrphaned,
		onChange:   opts.OnChange,
		state:      StateEditing,
	}
	if f.uploads == nil {
		f.uploads = NewUploadSession(nil)
	}
	f.list = NewSectionList(opts.Sections, f.uploads, f.sectionsChanged)
	return f
}

func (f *PageForm) State() FormState { return f.state }

func (f *PageForm) PageID() uint { return f.pageID }

func (f *PageForm) Title() string { return f.title }

func (f *PageForm) SetTitle(title string) { f.title = title }

func (f *PageForm) SetContent(content string) { f.content = content }

// Sections exposes the section list editor.
func (f *PageForm) Sections() *SectionList { return f.list }

// Uploads exposes the staging side of the upload session.
func (f *PageForm) Uploads() ImageStager { return f.uploads }

// SectionErrors returns the per-section messages of the last failed validation.
func (f *PageForm) SectionErrors() map[string][]string {
	out := make(map[string][]string, len(f.sectionErrors))
	for id, msgs := range f.sectionErrors {
		out[id] = append([]string(nil), msgs...)
	}
	return out
}

func (f *PageForm) sectionsChanged(sections []Section) {
	f.sectionErrors = nil
	if f.onChange != nil {
		f.onChange(sections)
	}
}

// Validate runs the submit checks without changing state.
func (f *PageForm) Validate() error {
	if verr := ValidateSections(f.title, f.list.Sections(), f.uploads); verr != nil {
		return verr
	}
	return nil
}

// Submit validates, uploads staged images and persists the page. On any
// failure the form stays open with all edits intact.
func (f *PageForm) Submit(ctx context.Context) (*models.Page, error) {
	switch f.state {
	case StateClosed, StateSubmitted:
		return nil, ErrFormClosed
	case StateValidating, StateSubmitting:
		return nil, ErrSubmitInProgress
	}
	log := logger.FromContext(ctx).WithField("page_id", f.pageID)

	f.state = StateValidating
	sections := f.list.Sections()
	if verr := ValidateSections(f.title, sections, f.uploads); verr != nil {
		f.state = StateEditing
		f.sectionErrors = verr.Sections
		submitResults.WithLabelValues("validation_error").Inc()
		log.WithField("errors", len(verr.Messages())).Info("Landing page validation failed")
		return nil, verr
	}
	f.sectionErrors = nil

	f.state = StateSubmitting
	backend, err := ToBackendShape(ctx, sections, BackendOptions{Uploads: f.uploads, Display: f.display})
	if err != nil {
		f.state = StateEditing
		f.flushOrphans()
		submitResults.WithLabelValues("upload_error").Inc()
		log.WithError(err).Warn("Landing page image upload failed")
		return nil, err
	}

	payload := models.LandingPagePayload{
		Type:     constants.PageTypeLanding,
		Title:    f.title,
		Content:  f.content,
		Sections: backend,
	}

	var page *models.Page
	if f.pageID != 0 {
		page, err = f.persister.UpdatePage(ctx, f.pageID, payload)
	} else {
		page, err = f.persister.CreatePage(ctx, payload)
	}
	if err != nil {
		f.state = StateEditing
		f.flushOrphans()
		submitResults.WithLabelValues("persistence_error").Inc()
		log.WithError(err).Warn("Landing page persistence failed")
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return nil, perr
		}
		return nil, &PersistenceError{Err: err}
	}

	f.uploads.Clear()
	f.flushOrphans()
	f.reset()
	f.state = StateSubmitted
	submitResults.WithLabelValues("success").Inc()
	log.WithField("sections", len(backend)).Info("Landing page saved")
	return page, nil
}

// Close abandons the form. Images uploaded by failed attempts are reported
// as orphans.
func (f *PageForm) Close() {
	if f.state == StateClosed {
		return
	}
	if f.state != StateSubmitted {
		f.uploads.Discard()
		f.flushOrphans()
	}
	f.state = StateClosed
}

func (f *PageForm) reset() {
	f.title = ""
	f.content = ""
	f.sectionErrors = nil
	f.list = NewSectionList(nil, f.uploads, f.sectionsChanged)
}

func (f *PageForm) flushOrphans() {
	orphans := f.uploads.TakeOrphans()
	if len(orphans) > 0 && f.onOrphaned != nil {
		f.onOrphaned(orphans)
	}
}
