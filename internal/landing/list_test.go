package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(sections []Section) []SectionKind {
	out := make([]SectionKind, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Kind())
	}
	return out
}

func TestSectionListEmitsFullArray(t *testing.T) {
	var emitted [][]Section
	list := NewSectionList(nil, NewUploadSession(nil), func(s []Section) {
		emitted = append(emitted, s)
	})

	b, err := list.Add(KindBanner)
	require.NoError(t, err)
	_, err = list.Add(KindCollection)
	require.NoError(t, err)
	_, err = list.Add(KindProducts)
	require.NoError(t, err)

	require.Len(t, emitted, 3)
	assert.Equal(t, []SectionKind{KindBanner, KindCollection, KindProducts}, kinds(emitted[2]))

	require.NoError(t, list.Remove(b.Base().ID))
	require.Len(t, emitted, 4)
	assert.Equal(t, []SectionKind{KindCollection, KindProducts}, kinds(emitted[3]))
}

func TestSectionListAddAppliesDefaults(t *testing.T) {
	list := NewSectionList(nil, nil, nil)

	s, err := list.Add(KindCollection)
	require.NoError(t, err)
	collection := s.(CollectionSection)
	assert.NotEmpty(t, collection.ID)
	assert.Equal(t, 1, collection.Order)
	assert.Equal(t, "View all", collection.ExpandAllButton.Title)
	assert.Empty(t, collection.CategoryIDs)

	_, err = list.Add(SectionKind("video"))
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestSectionListBannerCap(t *testing.T) {
	list := NewSectionList(nil, nil, nil)
	for i := 0; i < 5; i++ {
		_, err := list.Add(KindBanner)
		require.NoError(t, err)
	}
	_, err := list.Add(KindBanner)
	assert.ErrorIs(t, err, ErrBannerLimit)
	assert.Equal(t, 5, list.Len())
}

func TestSectionListMoveSwapsWithinKind(t *testing.T) {
	list := NewSectionList([]Section{
		banner("b1", "one"),
		CollectionSection{SectionBase: SectionBase{ID: "c1"}},
		banner("b2", "two"),
	}, nil, nil)

	moved, err := list.Move("b2", -1)
	require.NoError(t, err)
	assert.True(t, moved)

	ids := []string{}
	for _, s := range list.Sections() {
		ids = append(ids, s.Base().ID)
	}
	assert.Equal(t, []string{"b2", "c1", "b1"}, ids)

	moved, err = list.Move("c1", 1)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = list.Move("missing", 1)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSectionListRemoveUnstagesImage(t *testing.T) {
	session := NewUploadSession(&fakeUploader{})
	list := NewSectionList([]Section{banner("b1", "one")}, session, nil)
	require.NoError(t, session.Stage("b1", pngImage("a.png")))

	require.NoError(t, list.Remove("b1"))
	_, ok := session.Pending("b1")
	assert.False(t, ok)
}

func TestSectionListSectionsAreCopies(t *testing.T) {
	list := NewSectionList([]Section{
		CollectionSection{SectionBase: SectionBase{ID: "c1"}, CategoryIDs: []string{catA}},
	}, nil, nil)

	got := list.Sections()[0].(CollectionSection)
	got.CategoryIDs[0] = catB

	again, _ := list.Get("c1")
	assert.Equal(t, []string{catA}, again.(CollectionSection).CategoryIDs)
}

func TestBannerEditorThroughList(t *testing.T) {
	session := NewUploadSession(&fakeUploader{})
	list := NewSectionList([]Section{BannerSection{SectionBase: SectionBase{ID: "b1"}}}, session, nil)

	editor, err := list.BannerEditor("b1")
	require.NoError(t, err)
	assert.Equal(t, ImageEmpty, editor.ImageState())

	require.NoError(t, editor.SetTitle("Spring Sale"))
	first, err := editor.AddButton()
	require.NoError(t, err)
	_, err = editor.AddButton()
	require.NoError(t, err)
	assert.False(t, editor.CanAddButton())
	_, err = editor.AddButton()
	assert.ErrorIs(t, err, ErrButtonLimit)

	require.NoError(t, editor.SetButtonTitle(first.ID, "Shop Now"))
	require.NoError(t, editor.SetButtonLink(first.ID, "/shop"))
	assert.ErrorIs(t, editor.SetButtonLink("nope", "/x"), ErrButtonNotFound)

	require.NoError(t, editor.SelectImage(pngImage("hero.png")))
	assert.Equal(t, ImagePending, editor.ImageState())
	assert.ErrorIs(t, editor.SelectImage(PendingImage{Filename: "doc.pdf", ContentType: "application/pdf"}), ErrNotAnImage)

	require.NoError(t, editor.RemoveImage())
	assert.Equal(t, ImageEmpty, editor.ImageState())

	require.NoError(t, editor.SetImageURL("https://cdn.test/x.png"))
	assert.Equal(t, ImagePersisted, editor.ImageState())

	stored, _ := list.Get("b1")
	b := stored.(BannerSection)
	assert.Equal(t, "Spring Sale", b.Title)
	assert.Equal(t, "https://cdn.test/x.png", b.ImageURL)
	require.Len(t, b.Buttons, 2)
	assert.Equal(t, Button{ID: first.ID, Title: "Shop Now", Link: "/shop"}, b.Buttons[0])

	require.NoError(t, editor.RemoveButton(first.ID))
	stored, _ = list.Get("b1")
	assert.Len(t, stored.(BannerSection).Buttons, 1)
}

func TestTabsGroupByKind(t *testing.T) {
	list := NewSectionList([]Section{
		banner("b1", "one"),
		ProductSection{SectionBase: SectionBase{ID: "p1"}},
		DealsSection{SectionBase: SectionBase{ID: "d1"}},
		CollectionSection{SectionBase: SectionBase{ID: "c1"}},
		FeaturesSection{SectionBase: SectionBase{ID: "f1"}},
	}, nil, nil)

	tabs := list.Tabs()
	require.Len(t, tabs, 4)
	assert.Equal(t, KindBanner, tabs[0].Kind)
	assert.Len(t, tabs[0].Sections, 1)
	assert.Len(t, tabs[1].Sections, 1)
	assert.Len(t, tabs[2].Sections, 2)
	assert.Equal(t, KindFeatures, tabs[3].Kind)
}
