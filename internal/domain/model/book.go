package model

import (
	"time"
)

type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusRented    BookStatus = "rented"
	StatusExchanged BookStatus = "exchanged"
)

// AllStatuses lists every status in display order.
var AllStatuses = []BookStatus{StatusAvailable, StatusRented, StatusExchanged}

func (s BookStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusExchanged:
		return true
	}
	return false
}

const MinPublishYear = 1000

type Book struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Genre       string        `json:"genre,omitempty"`
	Location    string        `json:"location"`
	Contact     string        `json:"contact"`
	Status      BookStatus    `json:"status"`
	BookCover   string        `json:"bookCover"`
	OwnerID     string        `json:"ownerId"`
	Owner       *OwnerSummary `json:"owner,omitempty"` // Populated on List and GetById
	Description string        `json:"description,omitempty"`
	PublishYear *int          `json:"publishYear,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// BookFields carries the scalar fields of a create or update request.
// Empty strings and a nil PublishYear mean "not supplied".
type BookFields struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Location    string `json:"location"`
	Contact     string `json:"contact"`
	OwnerID     string `json:"ownerId"`
	Description string `json:"description"`
	PublishYear *int   `json:"publishYear"`
}

// Merge overwrites the book's fields with every non-empty field in f.
// OwnerID is never merged.
func (b *Book) Merge(f BookFields) {
	if f.Title != "" {
		b.Title = f.Title
	}
	if f.Author != "" {
		b.Author = f.Author
	}
	if f.Genre != "" {
		b.Genre = f.Genre
	}
	if f.Location != "" {
		b.Location = f.Location
	}
	if f.Contact != "" {
		b.Contact = f.Contact
	}
	if f.Description != "" {
		b.Description = f.Description
	}
	if f.PublishYear != nil {
		y := *f.PublishYear
		b.PublishYear = &y
	}
}
