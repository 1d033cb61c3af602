package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/query"
	"github.com/mithrel/kennel/pkg/api"
)

type fakeCatalog struct {
	all     []dogs.Dog
	filters query.FilterSpec
	failing error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		all: []dogs.Dog{
			{ID: "1", Name: "Rex", Breeds: []string{"Beagle"}, Age: api.Age2To5Yrs, Gender: api.GenderMale, Weight: "Medium", IsAvailable: true, IsNew: true},
			{ID: "2", Name: "Bella", Breeds: []string{"Pug"}, Age: api.AgeUnder5Months, Gender: api.GenderFemale, Weight: "Small", IsAvailable: true},
			{ID: "3", Name: "Old", Breeds: []string{"Boxer"}, Age: api.AgeOver9Yrs, Gender: api.GenderMale, Weight: "Large", IsFavorite: true},
		},
		filters: query.FilterSpec{},
	}
}

func (f *fakeCatalog) View() []dogs.Dog { return query.Query(f.all, f.filters, nil) }

func (f *fakeCatalog) Stats() catalog.Stats {
	return catalog.Stats{Showing: len(f.View()), Total: len(f.all), AppliedFilters: len(f.filters)}
}

func (f *fakeCatalog) Filters() query.FilterSpec { return f.filters }

func (f *fakeCatalog) find(id string) int {
	for i, d := range f.all {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeCatalog) ToggleFavorite(_ context.Context, id string) (dogs.Dog, error) {
	if f.failing != nil {
		return dogs.Dog{}, f.failing
	}
	i := f.find(id)
	f.all[i].IsFavorite = !f.all[i].IsFavorite
	return f.all[i], nil
}

func (f *fakeCatalog) MarkSeen(_ context.Context, id string) (dogs.Dog, error) {
	i := f.find(id)
	f.all[i].IsNew = false
	return f.all[i], nil
}

func (f *fakeCatalog) RemoveDog(_ context.Context, id string) error {
	i := f.find(id)
	f.all = append(f.all[:i], f.all[i+1:]...)
	return nil
}

func (f *fakeCatalog) ReplaceFilter(key query.FilterKey, values ...string) error {
	r, err := query.ParseFilter(key, values...)
	if err != nil {
		return err
	}
	f.filters = query.FilterSpec{}.With(r)
	return nil
}

func (f *fakeCatalog) ApplyFilters(spec query.FilterSpec) { f.filters = spec }
func (f *fakeCatalog) ClearFilters()                      { f.filters = query.FilterSpec{} }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func testModel(cat Catalog) model {
	return newModel(context.Background(), cat, Options{Headers: true, Now: time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC)})
}

func TestRowsFollowCatalogView(t *testing.T) {
	m := testModel(newFakeCatalog())
	require.Len(t, m.dogs, 3)
	assert.Equal(t, "Rex", m.dogs[0].Name)
	assert.Equal(t, "Old", m.dogs[2].Name, "unavailable dogs sort last")
	assert.Equal(t, "Beagle", m.table.Rows()[0][1])
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	cat := newFakeCatalog()
	m := testModel(cat)

	m, cmd := send(t, m, key("f"))
	require.NotNil(t, cmd)
	assert.Equal(t, "1", m.pending)

	m, _ = send(t, m, cmd())
	assert.Empty(t, m.pending)
	assert.Equal(t, "Favorited Rex", m.status)
	assert.True(t, cat.all[0].IsFavorite)
	assert.Contains(t, m.table.Rows()[0][6], "fav")
}

func TestMutationWhilePendingIsIgnored(t *testing.T) {
	m := testModel(newFakeCatalog())
	m, cmd := send(t, m, key("s"))
	require.NotNil(t, cmd)
	_, cmd = send(t, m, key("f"))
	assert.Nil(t, cmd)
}

func TestMutationFailureShowsStatus(t *testing.T) {
	cat := newFakeCatalog()
	cat.failing = errors.New("disk full")
	m := testModel(cat)
	m, cmd := send(t, m, key("f"))
	m, _ = send(t, m, cmd())
	assert.Equal(t, "favorite failed: disk full", m.status)
}

func TestRemoveClampsCursor(t *testing.T) {
	cat := newFakeCatalog()
	m := testModel(cat)
	m.table.SetCursor(2)

	m, cmd := send(t, m, key("d"))
	assert.Equal(t, "Removing Old…", m.status)
	m, _ = send(t, m, cmd())
	assert.Equal(t, "Removed Old", m.status)
	assert.Len(t, m.dogs, 2)
	assert.Equal(t, 1, m.table.Cursor())
}

func TestShowUnavailable(t *testing.T) {
	m := testModel(newFakeCatalog())
	m, _ = send(t, m, key("u"))
	require.Len(t, m.dogs, 1)
	assert.Equal(t, "Old", m.dogs[0].Name)

	m, _ = send(t, m, key("c"))
	assert.Len(t, m.dogs, 3)
	assert.Equal(t, "Filters cleared", m.status)
}

func TestFilterModalApplies(t *testing.T) {
	cat := newFakeCatalog()
	m := testModel(cat)

	m, _ = send(t, m, key("/"))
	require.NotNil(t, m.filter)
	assert.Contains(t, m.View(), "Filters")

	m.filter.inputs[1].SetValue("Beagle, Pug")
	m, _ = send(t, m, key("enter"))
	assert.Nil(t, m.filter)
	assert.Equal(t, []string{"Beagle", "Pug"}, cat.filters[query.FilterBreed].Values())
	assert.Len(t, m.dogs, 2)
}

func TestFilterModalRejectsBadInput(t *testing.T) {
	m := testModel(newFakeCatalog())
	m, _ = send(t, m, key("/"))
	m.filter.inputs[4].SetValue("x")
	m, _ = send(t, m, key("enter"))
	assert.NotNil(t, m.filter, "modal stays open on error")
	assert.NotEmpty(t, m.status)

	m, _ = send(t, m, key("esc"))
	assert.Nil(t, m.filter)
}

func TestFilterModalKeepsFlagFilters(t *testing.T) {
	fav, err := query.FlagIs(query.FilterIsFavorite, true)
	require.NoError(t, err)
	name, err := query.NameContains("re")
	require.NoError(t, err)
	base := query.FilterSpec{}.With(fav).With(name)

	fm := newFilterModal(base, 80, 24)
	assert.Equal(t, "re", fm.inputs[0].Value())
	fm.inputs[0].SetValue("")

	got, err := fm.apply(base)
	require.NoError(t, err)
	assert.Contains(t, got, query.FilterIsFavorite)
	assert.NotContains(t, got, query.FilterName)
	assert.Contains(t, base, query.FilterName, "base is not mutated")
}

func TestEnterSelectsAndQuits(t *testing.T) {
	m := testModel(newFakeCatalog())
	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, m.show)
	assert.Equal(t, "Rex", m.show.Name)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
