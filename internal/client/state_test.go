package client

import (
	"context"
	"errors"
	"testing"

	"bookswap/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

type fakeAPI struct {
	books   []model.Book
	err     error
	queries []model.BookFilter
}

func (f *fakeAPI) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	f.queries = append(f.queries, filter)
	if f.err != nil {
		return nil, f.err
	}
	return model.FilterBooks(f.books, filter.Predicates()...), nil
}

func (f *fakeAPI) ListByOwner(_ context.Context, ownerID string) ([]model.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return model.FilterBooks(f.books, func(b *model.Book) bool { return b.OwnerID == ownerID }), nil
}

func (f *fakeAPI) CreateBook(_ context.Context, fields model.BookFields, _ *Cover) (*model.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	b := model.Book{ID: fields.Title, OwnerID: "alice", Status: model.StatusAvailable}
	b.Merge(fields)
	f.books = append(f.books, b)
	return &b, nil
}

func (f *fakeAPI) UpdateBook(_ context.Context, id string, fields model.BookFields, _ *Cover) (*model.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			f.books[i].Merge(fields)
			b := f.books[i]
			return &b, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "book not found"}
}

func (f *fakeAPI) UpdateStatus(_ context.Context, id string, status model.BookStatus) (*model.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			f.books[i].Status = status
			b := f.books[i]
			return &b, nil
		}
	}
	return nil, &APIError{Status: 404, Message: "book not found"}
}

func (f *fakeAPI) DeleteBook(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.books {
		if f.books[i].ID == id {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Message: "book not found"}
}

func catalog() []model.Book {
	return []model.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Location: "Boston", Status: model.StatusAvailable, OwnerID: "alice"},
		{ID: "2", Title: "Emma", Author: "Jane Austen", Genre: "Classic", Location: "Boston", Status: model.StatusRented, OwnerID: "bob"},
		{ID: "3", Title: "Neuromancer", Author: "William Gibson", Genre: "Sci-Fi", Location: "Denver", Status: model.StatusRented, OwnerID: "alice"},
	}
}

func ids(books []model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestBrowse_FilterQueriesServer(t *testing.T) {
	api := &fakeAPI{books: catalog()}
	b := NewBrowse(api)
	ctx := context.Background()

	assert.Empty(t, b.Books())
	require.NoError(t, b.Refresh(ctx))
	assert.Equal(t, []string{"1", "2", "3"}, ids(b.Books()))

	require.NoError(t, b.SetFilter(ctx, model.BookFilter{Genre: "Sci-Fi", Search: "ignored"}))
	assert.Equal(t, []string{"1", "3"}, ids(b.Books()))
	require.Len(t, api.queries, 2)
	assert.Empty(t, api.queries[1].Search, "search never reaches the server")
}

func TestBrowse_SearchIsLocalAndNarrows(t *testing.T) {
	api := &fakeAPI{books: catalog()}
	b := NewBrowse(api)
	ctx := context.Background()
	require.NoError(t, b.SetFilter(ctx, model.BookFilter{Location: "Boston"}))

	b.SetSearch("GIBSON")
	assert.Empty(t, b.Books(), "search narrows the filtered set, never widens it")

	b.SetSearch("austen")
	assert.Equal(t, []string{"2"}, ids(b.Books()))

	b.SetSearch("")
	assert.Equal(t, []string{"1", "2"}, ids(b.Books()))
	assert.Len(t, api.queries, 1, "search changes make no requests")
}

func TestBrowse_FailureKeepsPreviousList(t *testing.T) {
	api := &fakeAPI{books: catalog()}
	b := NewBrowse(api)
	ctx := context.Background()
	require.NoError(t, b.SetFilter(ctx, model.BookFilter{Genre: "Sci-Fi"}))

	api.err = errOffline
	err := b.SetFilter(ctx, model.BookFilter{Genre: "Classic"})
	assert.ErrorIs(t, err, errOffline)
	assert.ErrorIs(t, b.Err(), errOffline)
	assert.Equal(t, "Sci-Fi", b.Filter().Genre)
	assert.Equal(t, []string{"1", "3"}, ids(b.Books()))

	api.err = nil
	require.NoError(t, b.Refresh(ctx))
	assert.NoError(t, b.Err())
}

func TestDashboard_StatsFollowMutations(t *testing.T) {
	api := &fakeAPI{books: catalog()}
	d := NewDashboard(api, "alice")
	ctx := context.Background()

	require.NoError(t, d.Load(ctx))
	assert.Equal(t, model.BookStats{Total: 2, Available: 1, Rented: 1}, d.Stats())

	_, err := d.Create(ctx, model.BookFields{Title: "Emma2", Author: "a", Location: "l", Contact: "c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Emma2", d.Books()[0].ID)
	assert.Equal(t, model.BookStats{Total: 3, Available: 2, Rented: 1}, d.Stats())

	_, err = d.UpdateStatus(ctx, "1", model.StatusExchanged)
	require.NoError(t, err)
	assert.Equal(t, model.BookStats{Total: 3, Available: 1, Rented: 1, Exchanged: 1}, d.Stats())

	_, err = d.Update(ctx, "3", model.BookFields{Description: "cyberpunk"}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRented, d.Books()[2].Status)
	assert.Equal(t, "cyberpunk", d.Books()[2].Description)

	require.NoError(t, d.Delete(ctx, "3"))
	assert.Equal(t, model.BookStats{Total: 2, Available: 1, Exchanged: 1}, d.Stats())
	assert.Equal(t, model.ComputeStats(d.Books()), d.Stats())
}

func TestDashboard_FailureLeavesState(t *testing.T) {
	api := &fakeAPI{books: catalog()}
	d := NewDashboard(api, "alice")
	ctx := context.Background()
	require.NoError(t, d.Load(ctx))
	before := d.Stats()

	err := d.Delete(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, err, d.Err())
	assert.Equal(t, before, d.Stats())
	assert.Len(t, d.Books(), 2)

	_, err = d.UpdateStatus(ctx, "1", "lost")
	assert.Error(t, err)

	api.err = errOffline
	_, err = d.Create(ctx, model.BookFields{Title: "x"}, nil)
	assert.ErrorIs(t, err, errOffline)
	assert.Len(t, d.Books(), 2)

	api.err = nil
	_, err = d.UpdateStatus(ctx, "1", model.StatusRented)
	require.NoError(t, err)
	assert.NoError(t, d.Err())
}
