package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bookswap/internal/common"
	"bookswap/internal/domain/model"
)

// MemoryStore keeps users and books in process memory. It backs the
// "memory" storage backend and the service tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	books map[string]memBook
	seq   int64
}

type memBook struct {
	book model.Book
	seq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]model.User),
		books: make(map[string]memBook),
	}
}

func (s *MemoryStore) Users() UserRepository { return memUsers{s} }
func (s *MemoryStore) Books() BookRepository { return memBooks{s} }

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user already exists with this email: %w", common.ErrConflict)
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type memBooks struct{ s *MemoryStore }

func (r memBooks) Create(_ context.Context, book *model.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[book.OwnerID]; !ok {
		return fmt.Errorf("owner %s does not exist: %w", book.OwnerID, common.ErrValidation)
	}
	r.s.seq++
	b := *book
	b.Owner = nil
	r.s.books[book.ID] = memBook{book: b, seq: r.s.seq}
	return nil
}

func (r memBooks) FindByID(_ context.Context, id string) (*model.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	mb, ok := r.s.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, common.ErrNotFound)
	}
	b := r.s.populate(mb.book)
	return &b, nil
}

func (r memBooks) List(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	preds := filter.Predicates()
	out := []model.Book{}
	for _, mb := range r.s.sorted() {
		if model.MatchAll(&mb.book, preds...) {
			out = append(out, r.s.populate(mb.book))
		}
	}
	return out, nil
}

func (r memBooks) ListByOwner(_ context.Context, ownerID string) ([]model.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Book{}
	for _, mb := range r.s.sorted() {
		if mb.book.OwnerID == ownerID {
			out = append(out, copyBook(mb.book))
		}
	}
	return out, nil
}

func (r memBooks) Update(_ context.Context, book *model.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mb, ok := r.s.books[book.ID]
	if !ok {
		return fmt.Errorf("book %s: %w", book.ID, common.ErrNotFound)
	}
	b := copyBook(*book)
	b.Owner = nil
	b.OwnerID = mb.book.OwnerID
	b.CreatedAt = mb.book.CreatedAt
	mb.book = b
	r.s.books[book.ID] = mb
	return nil
}

func (r memBooks) UpdateStatus(_ context.Context, id string, status model.BookStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	mb, ok := r.s.books[id]
	if !ok {
		return fmt.Errorf("book %s: %w", id, common.ErrNotFound)
	}
	mb.book.Status = status
	mb.book.UpdatedAt = time.Now().UTC()
	r.s.books[id] = mb
	return nil
}

func (r memBooks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok {
		return fmt.Errorf("book %s: %w", id, common.ErrNotFound)
	}
	delete(r.s.books, id)
	return nil
}

// sorted returns books newest first; insertion order breaks ties.
// Callers hold the lock.
func (s *MemoryStore) sorted() []memBook {
	out := make([]memBook, 0, len(s.books))
	for _, mb := range s.books {
		out = append(out, mb)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].book.CreatedAt.Equal(out[j].book.CreatedAt) {
			return out[i].book.CreatedAt.After(out[j].book.CreatedAt)
		}
		return out[i].seq > out[j].seq
	})
	return out
}

func (s *MemoryStore) populate(b model.Book) model.Book {
	b = copyBook(b)
	if u, ok := s.users[b.OwnerID]; ok {
		b.Owner = &model.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	return b
}

func copyBook(b model.Book) model.Book {
	if b.PublishYear != nil {
		y := *b.PublishYear
		b.PublishYear = &y
	}
	return b
}
