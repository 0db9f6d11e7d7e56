package landing

import (
	"fmt"

	"storefront-cms-backend/internal/constants"
)

// Tab groups the sections shown in one editor panel.
type Tab struct {
	Kind     SectionKind
	Sections []Section
}

// SectionList owns the ordered sections of a page. Every structural change
// or patch emits the whole list to onChange. It is not safe for concurrent
// use.
type SectionList struct {
	sections []Section
	images   ImageStager
	onChange func([]Section)
}

func NewSectionList(initial []Section, images ImageStager, onChange func([]Section)) *SectionList {
	sections := make([]Section, 0, len(initial))
	for _, s := range initial {
		sections = append(sections, cloneSection(s))
	}
	return &SectionList{sections: sections, images: images, onChange: onChange}
}

// Sections returns a copy of the current list.
func (l *SectionList) Sections() []Section {
	out := make([]Section, 0, len(l.sections))
	for _, s := range l.sections {
		out = append(out, cloneSection(s))
	}
	return out
}

func (l *SectionList) Len() int { return len(l.sections) }

func (l *SectionList) Get(id string) (Section, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return cloneSection(l.sections[idx]), true
}

func (l *SectionList) CountKind(kind SectionKind) int {
	n := 0
	for _, s := range l.sections {
		if s.Kind() == kind {
			n++
		}
	}
	return n
}

// Add appends a new section of kind with its defaults.
func (l *SectionList) Add(kind SectionKind) (Section, error) {
	if kind == KindBanner && l.CountKind(KindBanner) >= constants.MaxBannerSections {
		return nil, ErrBannerLimit
	}
	section, err := NewSection(kind)
	if err != nil {
		return nil, err
	}
	for l.indexOf(section.Base().ID) >= 0 {
		section, _ = NewSection(kind)
	}

	base := section.Base()
	base.Order = len(l.sections) + 1
	section = withBase(section, base)

	next := append(l.Sections(), section)
	l.replace(next)
	return cloneSection(section), nil
}

// Remove deletes the section and its staged image.
func (l *SectionList) Remove(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	if l.images != nil {
		l.images.Unstage(id)
	}
	next := l.Sections()
	next = append(next[:idx], next[idx+1:]...)
	l.replace(next)
	return nil
}

// Move swaps the section with its nearest neighbour of the same kind, up
// for a negative direction and down for a positive one. It reports false
// when there is no such neighbour.
func (l *SectionList) Move(id string, direction int) (bool, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	if direction == 0 {
		return false, nil
	}
	step := 1
	if direction < 0 {
		step = -1
	}

	kind := l.sections[idx].Kind()
	for j := idx + step; j >= 0 && j < len(l.sections); j += step {
		if l.sections[j].Kind() != kind {
			continue
		}
		next := l.Sections()
		next[idx], next[j] = next[j], next[idx]
		l.replace(next)
		return true, nil
	}
	return false, nil
}

// Patch merges patch into the section with id.
func (l *SectionList) Patch(id string, patch SectionPatch) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	if patch.IsEmpty() {
		return nil
	}
	updated, err := ApplyPatch(l.sections[idx], patch)
	if err != nil {
		return err
	}
	next := l.Sections()
	next[idx] = updated
	l.replace(next)
	return nil
}

// Tabs groups the sections into the banner, collection and product panels.
// Deals share the product panel; other kinds get a trailing panel each.
func (l *SectionList) Tabs() []Tab {
	tabs := []Tab{
		{Kind: KindBanner, Sections: []Section{}},
		{Kind: KindCollection, Sections: []Section{}},
		{Kind: KindProducts, Sections: []Section{}},
	}
	extra := map[SectionKind]int{}
	for _, s := range l.Sections() {
		switch s.Kind() {
		case KindBanner:
			tabs[0].Sections = append(tabs[0].Sections, s)
		case KindCollection:
			tabs[1].Sections = append(tabs[1].Sections, s)
		case KindProducts, KindDeals:
			tabs[2].Sections = append(tabs[2].Sections, s)
		default:
			pos, ok := extra[s.Kind()]
			if !ok {
				pos = len(tabs)
				extra[s.Kind()] = pos
				tabs = append(tabs, Tab{Kind: s.Kind()})
			}
			tabs[pos].Sections = append(tabs[pos].Sections, s)
		}
	}
	return tabs
}

// BannerEditor returns an editor bound to the banner section with id.
func (l *SectionList) BannerEditor(id string) (*BannerEditor, error) {
	s, ok := l.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	banner, ok := s.(BannerSection)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not a banner", ErrUnsupportedKind, id, s.Kind())
	}
	return NewBannerEditor(banner, l.images, l.updater(id)), nil
}

func (l *SectionList) CollectionEditor(id string, lister CategoryLister) (*CollectionEditor, error) {
	s, ok := l.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	collection, ok := s.(CollectionSection)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not a collection", ErrUnsupportedKind, id, s.Kind())
	}
	return NewCollectionEditor(collection, lister, l.updater(id)), nil
}

func (l *SectionList) ProductEditor(id string, lister ProductLister) (*ProductEditor, error) {
	s, ok := l.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	return NewProductEditor(s, lister, l.updater(id))
}

func (l *SectionList) updater(id string) UpdateFunc {
	return func(patch SectionPatch) error {
		return l.Patch(id, patch)
	}
}

func (l *SectionList) indexOf(id string) int {
	for i, s := range l.sections {
		if s.Base().ID == id {
			return i
		}
	}
	return -1
}

func (l *SectionList) replace(next []Section) {
	l.sections = next
	if l.onChange != nil {
		l.onChange(l.Sections())
	}
}
