package listing

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type file struct {
	name        string
	createdAt   string
	description string
	translator  string
}

func (f file) EntryName() string { return f.name }
func (f file) EntryCreatedAt() string { return f.createdAt }
func (f file) SearchText() []string {
	var out []string
	if f.description != "" {
		out = append(out, f.description)
	}
	if f.translator != "" {
		out = append(out, f.translator)
	}
	return out
}

func names(items []file) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestFilter(t *testing.T) {
	items := []file{{name: "Alpha Pack"}, {name: "beta"}}

	got := Filter(items, "alpha")
	assert.Equal(t, []string{"Alpha Pack"}, names(got))
}

func TestFilter_MatchesDescriptionAndTranslator(t *testing.T) {
	items := []file{
		{name: "core.zip", description: "Texture OVERHAUL"},
		{name: "ru.zip", translator: "Ivan Petrov"},
		{name: "other.zip"},
	}

	assert.Equal(t, []string{"core.zip"}, names(Filter(items, "overhaul")))
	assert.Equal(t, []string{"ru.zip"}, names(Filter(items, "petrov")))
	assert.Len(t, Filter(items, ""), 3)
	assert.Empty(t, Filter(items, "missing"))
}

func TestSort_DefaultDateDescending(t *testing.T) {
	items := []file{
		{name: "old", createdAt: "2024-01-01T00:00:00Z"},
		{name: "new", createdAt: "2025-06-01T00:00:00Z"},
		{name: "mid", createdAt: "2024-09-01T00:00:00Z"},
	}

	opts := Options{}.Normalize(10)
	Sort(items, opts.SortBy, opts.Direction)
	assert.Equal(t, []string{"new", "mid", "old"}, names(items))

	Sort(items, SortByDate, Asc)
	assert.Equal(t, []string{"old", "mid", "new"}, names(items))
}

func TestSort_ByNameIsLocaleAware(t *testing.T) {
	items := []file{{name: "beta"}, {name: "Alpha"}, {name: "gamma"}}

	Sort(items, SortByName, Asc)
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(items))

	Sort(items, SortByName, Desc)
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, names(items))
}

func TestSort_MissingDateFallsBackToName(t *testing.T) {
	items := []file{
		{name: "b", createdAt: "2025-01-01T00:00:00Z"},
		{name: "a"},
	}

	Sort(items, SortByDate, Asc)
	assert.Equal(t, []string{"a", "b"}, names(items))
}

func TestSort_Idempotent(t *testing.T) {
	items := []file{
		{name: "x", createdAt: "2025-01-01T00:00:00Z"},
		{name: "y", createdAt: "2025-01-01T00:00:00Z"},
		{name: "z", createdAt: "2023-01-01T00:00:00Z"},
		{name: "w"},
	}

	for _, key := range []string{SortByName, SortByDate} {
		for _, dir := range []string{Asc, Desc} {
			Sort(items, key, dir)
			first := names(items)
			Sort(items, key, dir)
			assert.Equal(t, first, names(items), "sort %s/%s not idempotent", key, dir)
		}
	}
}

func TestSort_UndatedEntriesGroupTogether(t *testing.T) {
	items := []file{
		{name: "c", createdAt: "2025-01-01T00:00:00Z"},
		{name: "b"},
		{name: "a", createdAt: "2024-01-01T00:00:00Z"},
		{name: "d", createdAt: "not a date"},
		{name: "e", createdAt: "2024-01-01T00:00:00Z"},
	}

	Sort(items, SortByDate, Asc)
	assert.Equal(t, []string{"b", "d", "a", "e", "c"}, names(items))

	Sort(items, SortByDate, Desc)
	assert.Equal(t, []string{"c", "e", "a", "d", "b"}, names(items))
}

func TestSort_IdempotentOnMixedLists(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 200; trial++ {
		n := 5 + rng.IntN(60)
		items := make([]file, n)
		for i := range items {
			items[i].name = fmt.Sprintf("file-%02d", rng.IntN(40))
			if rng.IntN(3) != 0 {
				items[i].createdAt = fmt.Sprintf("2024-%02d-01T00:00:00Z", 1+rng.IntN(12))
			}
		}

		for _, key := range []string{SortByName, SortByDate} {
			for _, dir := range []string{Asc, Desc} {
				Sort(items, key, dir)
				first := append([]file(nil), items...)
				Sort(items, key, dir)
				require.Equal(t, first, items, "trial %d: sort %s/%s not idempotent", trial, key, dir)
			}
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 1, 2)
	assert.Equal(t, []int{1, 2}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 5, p.Total)

	p = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, p.Items)

	p = Paginate(items, 4, 2)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)

	p = Paginate([]int(nil), 1, 10)
	assert.Equal(t, 0, p.TotalPages)
	assert.NotNil(t, p.Items)
}

func TestView_DoesNotMutateInput(t *testing.T) {
	items := []file{
		{name: "Alpha Pack", createdAt: "2024-01-01T00:00:00Z"},
		{name: "alpha extras", createdAt: "2025-01-01T00:00:00Z"},
		{name: "beta"},
	}
	before := names(items)

	page := View(items, Options{Query: "ALPHA"}, 10)
	assert.Equal(t, []string{"alpha extras", "Alpha Pack"}, names(page.Items))
	assert.Equal(t, before, names(items))
}
