package landing

import (
	"errors"
	"fmt"
	"strings"

	"storefront-cms-backend/internal/constants"
)

var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrButtonNotFound     = errors.New("button not found")
	ErrButtonLimit        = fmt.Errorf("a banner can have at most %d buttons", constants.MaxBannerButtons)
	ErrBannerLimit        = fmt.Errorf("a page can have at most %d banner sections", constants.MaxBannerSections)
	ErrUnsupportedKind    = errors.New("unsupported section type")
	ErrFieldNotApplicable = errors.New("field does not apply to this section type")
	ErrNotAnImage         = errors.New("only image files can be used as banner images")
	ErrFormClosed         = errors.New("form is closed")
	ErrSubmitInProgress   = errors.New("submit already in progress")
)

const (
	genericValidationMessage  = "Please fix the highlighted sections before saving."
	genericPersistenceMessage = "Failed to save landing page."
)

func unsupportedKind(kind SectionKind) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
}

// ValidationError lists every problem found before any network call.
// Sections is keyed by section id.
type ValidationError struct {
	Global   []string
	Sections map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Global) > 0 {
		return e.Global[0]
	}
	return genericValidationMessage
}

// Messages flattens the error into one list, global messages first.
func (e *ValidationError) Messages() []string {
	out := append([]string(nil), e.Global...)
	for _, msgs := range e.Sections {
		out = append(out, msgs...)
	}
	return out
}

func (e *ValidationError) empty() bool {
	return len(e.Global) == 0 && len(e.Sections) == 0
}

func (e *ValidationError) addSection(id, msg string) {
	if e.Sections == nil {
		e.Sections = make(map[string][]string)
	}
	e.Sections[id] = append(e.Sections[id], msg)
}

// UploadError reports a pending image that could not be uploaded. It aborts
// the whole submit.
type UploadError struct {
	SectionID    string
	SectionTitle string
	Err          error
}

func (e *UploadError) Error() string {
	name := strings.TrimSpace(e.SectionTitle)
	if name == "" {
		name = e.SectionID
	}
	if e.Err == nil {
		return fmt.Sprintf("Failed to upload image for section %q", name)
	}
	return fmt.Sprintf("Failed to upload image for section %q: %v", name, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError is returned when the page could not be stored. Message is
// safe to show to the user.
type PersistenceError struct {
	Message string
	Err     error
}

// NewPersistenceError wraps err with a user facing message.
func NewPersistenceError(message string, err error) *PersistenceError {
	return &PersistenceError{Message: message, Err: err}
}

func (e *PersistenceError) Error() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return genericPersistenceMessage
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SelectionLimitError rejects a selection that grows past the section cap.
type SelectionLimitError struct {
	Kind      SectionKind
	Limit     int
	Requested int
}

func (e *SelectionLimitError) Error() string {
	return fmt.Sprintf("%s sections allow at most %d selections, got %d", e.Kind, e.Limit, e.Requested)
}
