package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBooks() []Book {
	return []Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Location: "Boston", Status: StatusAvailable},
		{ID: "2", Title: "Emma", Author: "Jane Austen", Genre: "Classic", Location: "Boston", Status: StatusRented},
		{ID: "3", Title: "Neuromancer", Author: "William Gibson", Genre: "Sci-Fi", Location: "Denver", Status: StatusRented},
		{ID: "4", Title: "Untitled", Author: "Anon", Location: "Denver", Status: StatusExchanged},
	}
}

func ids(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestBookFilter_StatusOnly(t *testing.T) {
	got := FilterBooks(sampleBooks(), BookFilter{Status: StatusRented}.Predicates()...)
	assert.Equal(t, []string{"2", "3"}, ids(got))
	for _, b := range got {
		assert.Equal(t, StatusRented, b.Status)
	}
}

func TestBookFilter_Intersection(t *testing.T) {
	got := FilterBooks(sampleBooks(), BookFilter{Genre: "Sci-Fi", Location: "Denver"}.Predicates()...)
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestBookFilter_ZeroMatchesEverything(t *testing.T) {
	f := BookFilter{}
	assert.True(t, f.IsZero())
	assert.Empty(t, f.Predicates())
	assert.Len(t, FilterBooks(sampleBooks(), f.Predicates()...), 4)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{" ", []string{"1", "2", "3"}},
		{"   ", []string{}},
		{" dune", []string{}},
		{" herbert", []string{"1"}},
		{"dune", []string{"1"}},
		{"AUSTEN", []string{"2"}},
		{"sci", []string{"1", "3"}},
		{"an", []string{"1", "2", "3", "4"}},
		{"gib", []string{"3"}},
		{"zzz", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.term, func(t *testing.T) {
			got := FilterBooks(sampleBooks(), BookFilter{Search: tc.term}.Predicates()...)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestSearchNarrowsStructuredFilter(t *testing.T) {
	books := sampleBooks()
	f := BookFilter{Location: "Boston", Search: "a"}
	assert.Equal(t, []string{"1", "2"}, ids(FilterBooks(books, f.Predicates()...)))

	f.Search = "gibson"
	assert.Empty(t, FilterBooks(books, f.Predicates()...))
	assert.Equal(t, BookFilter{Location: "Boston"}, f.Exact())
}

func TestDistinctOptions(t *testing.T) {
	opts := DistinctOptions(sampleBooks())
	assert.Equal(t, []string{"Classic", "Sci-Fi"}, opts.Genres)
	assert.Equal(t, []string{"Boston", "Denver"}, opts.Locations)

	empty := DistinctOptions(nil)
	assert.Empty(t, empty.Genres)
	assert.Empty(t, empty.Locations)
}
