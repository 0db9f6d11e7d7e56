package landing

import (
	"fmt"

	"storefront-cms-backend/internal/constants"
)

// ImageState is where a banner image currently comes from.
type ImageState string

const (
	ImageEmpty     ImageState = "empty"
	ImagePending   ImageState = "pending"
	ImagePersisted ImageState = "persisted"
)

// UpdateFunc merges a patch into the owner's copy of a section.
type UpdateFunc func(SectionPatch) error

// BannerEditor edits one banner section. It is not safe for concurrent use.
type BannerEditor struct {
	section  BannerSection
	images   ImageStager
	onUpdate UpdateFunc
}

func NewBannerEditor(section BannerSection, images ImageStager, onUpdate UpdateFunc) *BannerEditor {
	return &BannerEditor{section: section, images: images, onUpdate: onUpdate}
}

func (e *BannerEditor) Section() BannerSection {
	return cloneSection(e.section).(BannerSection)
}

func (e *BannerEditor) SetTitle(title string) error {
	if title == e.section.Title {
		return nil
	}
	return e.emit(SectionPatch{Title: &title})
}

func (e *BannerEditor) SetSubtitle(subtitle string) error {
	if subtitle == e.section.Subtitle {
		return nil
	}
	return e.emit(SectionPatch{Subtitle: &subtitle})
}

// ImageState reports empty, pending (staged local file) or persisted (URL).
// A staged file wins over a stored URL.
func (e *BannerEditor) ImageState() ImageState {
	if e.images != nil {
		if _, ok := e.images.Pending(e.section.ID); ok {
			return ImagePending
		}
	}
	if e.section.ImageURL != "" {
		return ImagePersisted
	}
	return ImageEmpty
}

// SelectImage stages a local file. The upload happens on submit.
func (e *BannerEditor) SelectImage(img PendingImage) error {
	if e.images == nil {
		return fmt.Errorf("banner %s: no upload session", e.section.ID)
	}
	return e.images.Stage(e.section.ID, img)
}

// SetImageURL points the banner at an already uploaded image and drops any
// staged file.
func (e *BannerEditor) SetImageURL(url string) error {
	if e.images != nil {
		e.images.Unstage(e.section.ID)
	}
	if url == e.section.ImageURL {
		return nil
	}
	return e.emit(SectionPatch{ImageURL: &url})
}

// RemoveImage returns the banner to the empty image state.
func (e *BannerEditor) RemoveImage() error {
	return e.SetImageURL("")
}

func (e *BannerEditor) CanAddButton() bool {
	return len(e.section.Buttons) < constants.MaxBannerButtons
}

func (e *BannerEditor) AddButton() (Button, error) {
	if !e.CanAddButton() {
		return Button{}, ErrButtonLimit
	}
	button := Button{ID: NewClientID()}
	buttons := append(append([]Button{}, e.section.Buttons...), button)
	if err := e.emit(SectionPatch{Buttons: &buttons}); err != nil {
		return Button{}, err
	}
	return button, nil
}

func (e *BannerEditor) RemoveButton(id string) error {
	buttons := make([]Button, 0, len(e.section.Buttons))
	found := false
	for _, b := range e.section.Buttons {
		if b.ID == id {
			found = true
			continue
		}
		buttons = append(buttons, b)
	}
	if !found {
		return ErrButtonNotFound
	}
	return e.emit(SectionPatch{Buttons: &buttons})
}

func (e *BannerEditor) SetButtonTitle(id, title string) error {
	return e.editButton(id, func(b *Button) { b.Title = title })
}

func (e *BannerEditor) SetButtonLink(id, link string) error {
	return e.editButton(id, func(b *Button) { b.Link = link })
}

func (e *BannerEditor) editButton(id string, edit func(*Button)) error {
	buttons := append([]Button{}, e.section.Buttons...)
	for i := range buttons {
		if buttons[i].ID == id {
			before := buttons[i]
			edit(&buttons[i])
			if buttons[i] == before {
				return nil
			}
			return e.emit(SectionPatch{Buttons: &buttons})
		}
	}
	return ErrButtonNotFound
}

func (e *BannerEditor) emit(patch SectionPatch) error {
	next, err := ApplyPatch(e.section, patch)
	if err != nil {
		return err
	}
	if e.onUpdate != nil {
		if err := e.onUpdate(patch); err != nil {
			return err
		}
	}
	e.section = next.(BannerSection)
	return nil
}
