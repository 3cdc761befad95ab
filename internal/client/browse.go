package client

import (
	"context"

	"bookswap/internal/domain/model"
)

// BookLister fetches the server-filtered book list.
type BookLister interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
}

// Browse is the state behind the public book list: the server-filtered
// set, the exact-match filter that produced it and a local search term.
// It is not safe for concurrent use.
type Browse struct {
	api     BookLister
	filter  model.BookFilter
	search  string
	fetched []model.Book
	err     error
}

func NewBrowse(api BookLister) *Browse {
	return &Browse{api: api, fetched: []model.Book{}}
}

// Refresh re-queries the server with the current filter.
func (b *Browse) Refresh(ctx context.Context) error {
	return b.SetFilter(ctx, b.filter)
}

// SetFilter replaces the exact-match filter and re-queries the server.
// On failure the previous filter and list are kept and Err reports the
// failure. The search term in f is ignored; use SetSearch.
func (b *Browse) SetFilter(ctx context.Context, f model.BookFilter) error {
	exact := f.Exact()
	books, err := b.api.ListBooks(ctx, exact)
	if err != nil {
		b.err = err
		return err
	}
	b.filter = exact
	b.fetched = books
	b.err = nil
	return nil
}

// SetSearch narrows the fetched set to books whose title, author or genre
// contains term. No request is made.
func (b *Browse) SetSearch(term string) {
	b.search = term
}

// Books is the fetched set narrowed by the search term. The whole filter
// is evaluated so the result always agrees with Filter and Search.
func (b *Browse) Books() []model.Book {
	f := b.filter
	f.Search = b.search
	return model.FilterBooks(b.fetched, f.Predicates()...)
}

func (b *Browse) Filter() model.BookFilter { return b.filter }

func (b *Browse) Search() string { return b.search }

// Err is the last failed fetch, or nil once a fetch succeeds.
func (b *Browse) Err() error { return b.err }
