package landing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms-backend/internal/models"
)

func TestSanitizeIDsKeepsValidSubsetInOrder(t *testing.T) {
	in := []string{"bad", catC, "507f191e810c19729de860e", catA, "zzzzzzzzzzzzzzzzzzzzzzzz", catC, catB}
	assert.Equal(t, []string{catC, catA, catB}, SanitizeIDs(RefCategory, in))
	assert.Empty(t, SanitizeIDs(RefCategory, nil))
}

func TestCollectionSelectFiltersMalformedIDs(t *testing.T) {
	var patches []SectionPatch
	editor := NewCollectionEditor(CollectionSection{SectionBase: SectionBase{ID: "c"}}, nil, func(p SectionPatch) error {
		patches = append(patches, p)
		return nil
	})

	changed, err := editor.Select([]string{catB, "not-an-id", catA})
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, patches, 1)
	assert.Equal(t, []string{catB, catA}, *patches[0].CategoryIDs)
	assert.Equal(t, []string{catB, catA}, editor.Section().CategoryIDs)
}

func TestCollectionSelectEnforcesCap(t *testing.T) {
	calls := 0
	editor := NewCollectionEditor(
		CollectionSection{SectionBase: SectionBase{ID: "c"}, CategoryIDs: []string{catA, catB, catC, catD}},
		nil,
		func(SectionPatch) error { calls++; return nil },
	)

	changed, err := editor.Select([]string{catA, catB, catC, catD, catE})
	var limitErr *SelectionLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 4, limitErr.Limit)
	assert.False(t, changed)
	assert.Zero(t, calls)
	assert.Len(t, editor.Section().CategoryIDs, 4)

	changed, err = editor.Select([]string{catA, catB, catC, catE})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{catA, catB, catC, catE}, editor.Section().CategoryIDs)
}

func TestProductSelectEnforcesCap(t *testing.T) {
	ids := make([]string, 0, 9)
	for i := 0; i < 9; i++ {
		ids = append(ids, models.NewReferenceID())
	}
	editor, err := NewProductEditor(ProductSection{SectionBase: SectionBase{ID: "p"}}, nil, nil)
	require.NoError(t, err)

	_, err = editor.Select(ids[:8])
	require.NoError(t, err)

	_, err = editor.Select(ids)
	var limitErr *SelectionLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 8, limitErr.Limit)
	assert.Equal(t, ids[:8], editor.ProductIDs())
}

func TestSelectSuppressesNoOpUpdates(t *testing.T) {
	calls := 0
	editor := NewCollectionEditor(
		CollectionSection{SectionBase: SectionBase{ID: "c"}, CategoryIDs: []string{catA, catB}},
		nil,
		func(SectionPatch) error { calls++; return nil },
	)

	changed, err := editor.Select([]string{catB, catA})
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = editor.Select([]string{catA, catB, "junk"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, calls)
	assert.Equal(t, []string{catA, catB}, editor.Section().CategoryIDs)

	changed, err = editor.Select([]string{catA})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, calls)
}

func TestCollectionOptionsOnlyActiveCategories(t *testing.T) {
	lister := fakeCategories{items: []models.Category{
		{ID: catA, Name: "Shoes", Slug: "shoes", IsActive: true},
		{ID: catB, Name: "Hidden", IsActive: false},
		{ID: "legacy", Name: "Legacy", IsActive: true},
	}}
	editor := NewCollectionEditor(CollectionSection{SectionBase: SectionBase{ID: "c"}}, lister, nil)

	options, err := editor.Options(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Shoes", options[0].Name)
	assert.Equal(t, "/categories/shoes", options[0].Link)
}

func TestSelectedProjectsDisplayFromIndex(t *testing.T) {
	index := NewDisplayIndex()
	index.AddCategoryModels([]models.Category{{ID: catA, Name: "Shoes"}, {ID: catB, Name: "Bags"}})

	editor := NewCollectionEditor(
		CollectionSection{SectionBase: SectionBase{ID: "c"}, CategoryIDs: []string{catB, catC, catA}},
		nil, nil,
	)
	selected := editor.Selected(index)
	require.Len(t, selected, 2)
	assert.Equal(t, "Bags", selected[0].Name)
	assert.Equal(t, "Shoes", selected[1].Name)
}

func TestProductEditorRejectsOtherKinds(t *testing.T) {
	_, err := NewProductEditor(banner("b", "B"), fakeProducts{}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestCollectionExpandAllButton(t *testing.T) {
	calls := 0
	editor := NewCollectionEditor(
		CollectionSection{SectionBase: SectionBase{ID: "c"}, ExpandAllButton: Link{Title: "View all", Link: "/categories"}},
		nil,
		func(SectionPatch) error { calls++; return nil },
	)

	require.NoError(t, editor.SetExpandAllButton(Link{Title: "View all", Link: "/categories"}))
	assert.Zero(t, calls)

	require.NoError(t, editor.SetExpandAllButton(Link{Title: "Browse", Link: "/shop"}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, Link{Title: "Browse", Link: "/shop"}, editor.Section().ExpandAllButton)
}
