package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookswap/internal/common"
	"bookswap/internal/domain/model"
	"bookswap/internal/domain/repository"
	"bookswap/internal/logging"
	"bookswap/internal/platform/cache"
	"bookswap/internal/platform/media"

	"github.com/google/uuid"
)

// CoverUploader stores a validated cover image and returns its URL.
type CoverUploader interface {
	Upload(ctx context.Context, title string, img *media.Image) (string, error)
}

type BookService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	covers   CoverUploader
	cache    cache.FilterOptionsCache
	policy   model.TransitionPolicy
	log      logging.Logger
	now      func() time.Time
}

func NewBookService(
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	covers CoverUploader,
	optionsCache cache.FilterOptionsCache,
	policy model.TransitionPolicy,
	log logging.Logger,
) *BookService {
	if optionsCache == nil {
		optionsCache = cache.Noop{}
	}
	return &BookService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		covers:   covers,
		cache:    optionsCache,
		policy:   policy,
		log:      log.With("service", "books"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func trimFields(f model.BookFields) model.BookFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Location = strings.TrimSpace(f.Location)
	f.Contact = strings.TrimSpace(f.Contact)
	f.OwnerID = strings.TrimSpace(f.OwnerID)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

func missingFields(f model.BookFields) []string {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", f.Title},
		{"author", f.Author},
		{"location", f.Location},
		{"contact", f.Contact},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func (s *BookService) validatePublishYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < model.MinPublishYear || *year > s.now().Year() {
		return fmt.Errorf("publishYear must be between %d and %d: %w", model.MinPublishYear, s.now().Year(), common.ErrValidation)
	}
	return nil
}

// Create lists a new book for actorID. The cover is uploaded before the
// record is written, so a failed upload leaves nothing behind.
func (s *BookService) Create(ctx context.Context, actorID string, fields model.BookFields, cover *media.Image) (*model.Book, error) {
	fields = trimFields(fields)
	if missing := missingFields(fields); len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields %s: %w", strings.Join(missing, ", "), common.ErrValidation)
	}
	if err := s.validatePublishYear(fields.PublishYear); err != nil {
		return nil, err
	}
	if cover == nil {
		return nil, fmt.Errorf("please upload a book cover image: %w", common.ErrValidation)
	}
	if err := media.Validate(cover); err != nil {
		return nil, err
	}

	if fields.OwnerID != "" && fields.OwnerID != actorID {
		return nil, fmt.Errorf("cannot list a book for another user: %w", common.ErrForbidden)
	}
	owner, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("owner %s does not exist: %w", actorID, common.ErrValidation)
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	if owner.Role != model.RoleOwner {
		return nil, fmt.Errorf("only owners can list books: %w", common.ErrForbidden)
	}

	coverURL, err := s.covers.Upload(ctx, fields.Title, cover)
	if err != nil {
		s.log.Error(ctx, "cover upload failed", "owner_id", actorID, "error", err)
		return nil, err
	}

	now := s.now()
	book := &model.Book{
		ID:        uuid.NewString(),
		Status:    model.StatusAvailable,
		BookCover: coverURL,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	book.Merge(fields)

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	s.invalidateOptions(ctx)
	s.log.Info(ctx, "book created", "book_id", book.ID, "owner_id", book.OwnerID)
	return book, nil
}

// List returns books matching filter, newest first, owners populated.
func (s *BookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, common.ErrValidation)
	}
	books, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *BookService) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	books, err := s.bookRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner's books: %w", err)
	}
	return books, nil
}

func (s *BookService) GetByID(ctx context.Context, id string) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err)
	}
	return book, nil
}

// UpdateStatus moves a book to status. Repeating the current status is
// accepted and leaves the record unchanged.
func (s *BookService) UpdateStatus(ctx context.Context, actorID, id string, status model.BookStatus) (*model.Book, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status must be one of available, rented, exchanged: %w", common.ErrValidation)
	}
	book, err := s.ownedBook(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(book.Status, status) {
		if s.policy.Terminal(book.Status) {
			return nil, fmt.Errorf("book is %s and its status can no longer change: %w", book.Status, common.ErrValidation)
		}
		return nil, fmt.Errorf("cannot change status from %s to %s: %w", book.Status, status, common.ErrValidation)
	}
	if book.Status == status {
		return book, nil
	}

	if err := s.bookRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, wrapLookup(err)
	}
	s.log.Info(ctx, "book status changed", "book_id", id, "from", book.Status, "to", status)
	book.Status = status
	book.UpdatedAt = s.now()
	return book, nil
}

// Update merges the supplied fields into the book. When cover is non-nil it
// replaces the existing cover; otherwise the cover is kept.
func (s *BookService) Update(ctx context.Context, actorID, id string, fields model.BookFields, cover *media.Image) (*model.Book, error) {
	fields = trimFields(fields)
	if err := s.validatePublishYear(fields.PublishYear); err != nil {
		return nil, err
	}
	if cover != nil {
		if err := media.Validate(cover); err != nil {
			return nil, err
		}
	}
	book, err := s.ownedBook(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	book.Merge(fields)
	if cover != nil {
		url, err := s.covers.Upload(ctx, book.Title, cover)
		if err != nil {
			s.log.Error(ctx, "cover upload failed", "book_id", id, "error", err)
			return nil, err
		}
		book.BookCover = url
	}
	book.UpdatedAt = s.now()

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, wrapLookup(err)
	}
	s.invalidateOptions(ctx)
	s.log.Info(ctx, "book updated", "book_id", id)
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedBook(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return wrapLookup(err)
	}
	s.invalidateOptions(ctx)
	s.log.Info(ctx, "book deleted", "book_id", id, "owner_id", actorID)
	return nil
}

// FilterOptions returns the distinct genres and locations over all books.
func (s *BookService) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	cached, version, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		s.log.Warn(ctx, "filter options cache read failed", "error", err)
	case cached != nil:
		s.log.Debug(ctx, "filter options cache hit", "version", version)
		return cached, nil
	default:
		s.log.Debug(ctx, "filter options cache miss", "version", version)
	}

	books, err := s.bookRepo.List(ctx, model.BookFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	opts := model.DistinctOptions(books)
	if err := s.cache.Set(ctx, version, opts); err != nil {
		s.log.Warn(ctx, "filter options cache write failed", "error", err)
	}
	return &opts, nil
}

// ownedBook loads a book and checks that actorID owns it.
func (s *BookService) ownedBook(ctx context.Context, actorID, id string) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err)
	}
	if actorID == "" || book.OwnerID != actorID {
		return nil, fmt.Errorf("only the owner can modify this book: %w", common.ErrForbidden)
	}
	return book, nil
}

func (s *BookService) invalidateOptions(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn(ctx, "filter options cache invalidation failed", "error", err)
	}
}

func wrapLookup(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("book not found: %w", common.ErrNotFound)
	}
	return fmt.Errorf("book storage: %w", err)
}
