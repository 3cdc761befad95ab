package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookswap/internal/common"
	"bookswap/internal/domain/model"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	// FindByID returns the book with its owner populated.
	FindByID(ctx context.Context, id string) (*model.Book, error)
	// List returns books matching filter, owners populated, newest first.
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
	// Update writes every mutable field of book.
	Update(ctx context.Context, book *model.Book) error
	UpdateStatus(ctx context.Context, id string, status model.BookStatus) error
	Delete(ctx context.Context, id string) error
}

type pgBookRepository struct {
	db *sql.DB
}

func NewPgBookRepository(db *sql.DB) BookRepository {
	return &pgBookRepository{db: db}
}

const bookColumns = `b.id, b.title, b.author, b.genre, b.location, b.contact, b.status, b.book_cover,
               b.owner_id, b.description, b.publish_year, b.created_at, b.updated_at`

const populatedBookSelect = `
        SELECT ` + bookColumns + `,
               u.name, u.email, u.phone
        FROM books b
        JOIN users u ON b.owner_id = u.id`

func (r *pgBookRepository) Create(ctx context.Context, b *model.Book) error {
	query := `INSERT INTO books (id, title, author, genre, location, contact, status, book_cover, owner_id, description, publish_year, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.Title, b.Author, b.Genre, b.Location, b.Contact, b.Status,
		b.BookCover, b.OwnerID, b.Description, nullYear(b.PublishYear), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgBookRepository.Create: %w", err)
	}
	return nil
}

func (r *pgBookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx, populatedBookSelect+` WHERE b.id = $1`, id)
	book, err := scanPopulatedBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, fmt.Errorf("book %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgBookRepository.FindByID: %w", err)
	}
	return book, nil
}

// List pushes the exact-match fields into SQL and evaluates the free-text
// search in memory with the same predicate the client uses.
func (r *pgBookRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	var query strings.Builder
	query.WriteString(populatedBookSelect)

	var conditions []string
	var args []interface{}
	argID := 1
	add := func(column, value string) {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if filter.Genre != "" {
		add("b.genre", filter.Genre)
	}
	if filter.Location != "" {
		add("b.location", filter.Location)
	}
	if filter.Status != "" {
		add("b.status", string(filter.Status))
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY b.created_at DESC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgBookRepository.List: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanPopulatedBook(rows)
		if err != nil {
			return nil, fmt.Errorf("pgBookRepository.List scan: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgBookRepository.List rows: %w", err)
	}
	if filter.Search != "" {
		books = model.FilterBooks(books, model.Matches(filter.Search))
	}
	return books, nil
}

func (r *pgBookRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.owner_id = $1 ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return []model.Book{}, nil
		}
		return nil, fmt.Errorf("pgBookRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("pgBookRepository.ListByOwner scan: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgBookRepository.ListByOwner rows: %w", err)
	}
	return books, nil
}

func (r *pgBookRepository) Update(ctx context.Context, b *model.Book) error {
	query := `UPDATE books SET
                title = $1, author = $2, genre = $3, location = $4, contact = $5,
                status = $6, book_cover = $7, description = $8, publish_year = $9, updated_at = $10
              WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.Genre, b.Location, b.Contact,
		b.Status, b.BookCover, b.Description, nullYear(b.PublishYear), b.UpdatedAt, b.ID)
	return affectedOne(res, err, "pgBookRepository.Update", b.ID)
}

func (r *pgBookRepository) UpdateStatus(ctx context.Context, id string, status model.BookStatus) error {
	query := `UPDATE books SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	return affectedOne(res, err, "pgBookRepository.UpdateStatus", id)
}

func (r *pgBookRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	return affectedOne(res, err, "pgBookRepository.Delete", id)
}

func affectedOne(res sql.Result, err error, op, id string) error {
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("book %s: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("book %s: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func bookDest(b *model.Book, year *sql.NullInt32) []any {
	return []any{
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.Location, &b.Contact, &b.Status, &b.BookCover,
		&b.OwnerID, &b.Description, year, &b.CreatedAt, &b.UpdatedAt,
	}
}

func scanBook(row rowScanner) (*model.Book, error) {
	b := &model.Book{}
	var year sql.NullInt32
	if err := row.Scan(bookDest(b, &year)...); err != nil {
		return nil, err
	}
	b.PublishYear = yearPtr(year)
	return b, nil
}

func scanPopulatedBook(row rowScanner) (*model.Book, error) {
	b := &model.Book{}
	owner := &model.OwnerSummary{}
	var year sql.NullInt32
	dest := append(bookDest(b, &year), &owner.Name, &owner.Email, &owner.Phone)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	owner.ID = b.OwnerID
	b.Owner = owner
	b.PublishYear = yearPtr(year)
	return b, nil
}

func nullYear(y *int) sql.NullInt32 {
	if y == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*y), Valid: true}
}

func yearPtr(y sql.NullInt32) *int {
	if !y.Valid {
		return nil
	}
	v := int(y.Int32)
	return &v
}
