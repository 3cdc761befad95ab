package model

import (
	"sort"
	"strings"
)

// BookPredicate reports whether a book satisfies one filter criterion.
type BookPredicate func(*Book) bool

// BookFilter is the combined structured filter and free-text search
// applied to book listings. Zero-valued fields are unconstrained.
type BookFilter struct {
	Genre    string     `json:"genre,omitempty"`
	Location string     `json:"location,omitempty"`
	Status   BookStatus `json:"status,omitempty"`
	Search   string     `json:"q,omitempty"`
}

// Exact returns the filter with the search term removed.
func (f BookFilter) Exact() BookFilter {
	f.Search = ""
	return f
}

func (f BookFilter) IsZero() bool {
	return f == BookFilter{}
}

// Predicates returns one predicate per supplied field.
func (f BookFilter) Predicates() []BookPredicate {
	var ps []BookPredicate
	if f.Genre != "" {
		ps = append(ps, GenreIs(f.Genre))
	}
	if f.Location != "" {
		ps = append(ps, LocationIs(f.Location))
	}
	if f.Status != "" {
		ps = append(ps, StatusIs(f.Status))
	}
	if f.Search != "" {
		ps = append(ps, Matches(f.Search))
	}
	return ps
}

// Match reports whether b satisfies every supplied field of f.
func (f BookFilter) Match(b *Book) bool {
	return MatchAll(b, f.Predicates()...)
}

func GenreIs(genre string) BookPredicate {
	return func(b *Book) bool { return b.Genre == genre }
}

func LocationIs(location string) BookPredicate {
	return func(b *Book) bool { return b.Location == location }
}

func StatusIs(status BookStatus) BookPredicate {
	return func(b *Book) bool { return b.Status == status }
}

// Matches is the free-text search: a case-insensitive substring match
// against title, author or genre.
func Matches(term string) BookPredicate {
	needle := strings.ToLower(term)
	return func(b *Book) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Author), needle) ||
			strings.Contains(strings.ToLower(b.Genre), needle)
	}
}

func MatchAll(b *Book, ps ...BookPredicate) bool {
	for _, p := range ps {
		if !p(b) {
			return false
		}
	}
	return true
}

// FilterBooks returns the books satisfying every predicate, preserving order.
// With no predicates the input is returned as a copy.
func FilterBooks(books []Book, ps ...BookPredicate) []Book {
	out := make([]Book, 0, len(books))
	for i := range books {
		if MatchAll(&books[i], ps...) {
			out = append(out, books[i])
		}
	}
	return out
}

// FilterOptions are the dropdown choices offered for the structured filter.
type FilterOptions struct {
	Genres    []string `json:"genres"`
	Locations []string `json:"locations"`
}

// DistinctOptions collects the distinct non-empty genres and locations
// of books, sorted.
func DistinctOptions(books []Book) FilterOptions {
	genres := make(map[string]struct{})
	locations := make(map[string]struct{})
	for _, b := range books {
		if b.Genre != "" {
			genres[b.Genre] = struct{}{}
		}
		if b.Location != "" {
			locations[b.Location] = struct{}{}
		}
	}
	return FilterOptions{Genres: sortedKeys(genres), Locations: sortedKeys(locations)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
