package client

import (
	"context"
	"fmt"

	"bookswap/internal/domain/model"
)

// OwnerAPI is the part of the API an owner's dashboard uses.
type OwnerAPI interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
	CreateBook(ctx context.Context, fields model.BookFields, cover *Cover) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, fields model.BookFields, cover *Cover) (*model.Book, error)
	UpdateStatus(ctx context.Context, id string, status model.BookStatus) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// Dashboard holds one owner's books and their statistics. Every successful
// mutation is merged into the set and the statistics are recomputed from
// it; a failed one leaves both untouched and is reported by Err.
type Dashboard struct {
	api     OwnerAPI
	ownerID string
	books   []model.Book
	stats   model.BookStats
	err     error
}

func NewDashboard(api OwnerAPI, ownerID string) *Dashboard {
	return &Dashboard{api: api, ownerID: ownerID, books: []model.Book{}}
}

func (d *Dashboard) Load(ctx context.Context) error {
	books, err := d.api.ListByOwner(ctx, d.ownerID)
	if err != nil {
		return d.fail(err)
	}
	d.books = books
	return d.settle()
}

func (d *Dashboard) Create(ctx context.Context, fields model.BookFields, cover *Cover) (*model.Book, error) {
	book, err := d.api.CreateBook(ctx, fields, cover)
	if err != nil {
		return nil, d.fail(err)
	}
	d.books = append([]model.Book{*book}, d.books...)
	return book, d.settle()
}

func (d *Dashboard) Update(ctx context.Context, id string, fields model.BookFields, cover *Cover) (*model.Book, error) {
	book, err := d.api.UpdateBook(ctx, id, fields, cover)
	if err != nil {
		return nil, d.fail(err)
	}
	d.replace(*book)
	return book, d.settle()
}

func (d *Dashboard) UpdateStatus(ctx context.Context, id string, status model.BookStatus) (*model.Book, error) {
	if !status.Valid() {
		return nil, d.fail(fmt.Errorf("unknown status %q", status))
	}
	book, err := d.api.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, d.fail(err)
	}
	d.replace(*book)
	return book, d.settle()
}

func (d *Dashboard) Delete(ctx context.Context, id string) error {
	if err := d.api.DeleteBook(ctx, id); err != nil {
		return d.fail(err)
	}
	kept := make([]model.Book, 0, len(d.books))
	for _, b := range d.books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	d.books = kept
	return d.settle()
}

func (d *Dashboard) Books() []model.Book { return d.books }

func (d *Dashboard) Stats() model.BookStats { return d.stats }

// Err is the last failed operation, or nil after a successful one.
func (d *Dashboard) Err() error { return d.err }

func (d *Dashboard) replace(book model.Book) {
	for i := range d.books {
		if d.books[i].ID == book.ID {
			d.books[i] = book
			return
		}
	}
	d.books = append([]model.Book{book}, d.books...)
}

func (d *Dashboard) settle() error {
	d.stats = model.ComputeStats(d.books)
	d.err = nil
	return nil
}

func (d *Dashboard) fail(err error) error {
	d.err = err
	return err
}
