package repository

import (
	"context"
	"testing"
	"time"

	"bookswap/internal/common"
	"bookswap/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &model.User{ID: "u1", Name: "Alice", Email: "alice@x.com", Phone: "1", Role: model.RoleOwner}))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, b := range []model.Book{
		{ID: "b1", Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Location: "Boston", Status: model.StatusAvailable},
		{ID: "b2", Title: "Emma", Author: "Austen", Genre: "Classic", Location: "Boston", Status: model.StatusRented},
		{ID: "b3", Title: "Neuromancer", Author: "Gibson", Genre: "Sci-Fi", Location: "Denver", Status: model.StatusRented},
	} {
		b.OwnerID = "u1"
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Books().Create(ctx, &b))
	}
	return s
}

func TestMemoryUsers_EmailCaseInsensitive(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()

	u, err := s.Users().FindByEmail(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	err = s.Users().Create(ctx, &model.User{ID: "u2", Email: "Alice@X.com"})
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = s.Users().FindByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryBooks_CreateRequiresOwner(t *testing.T) {
	s := NewMemoryStore()
	err := s.Books().Create(context.Background(), &model.Book{ID: "b", OwnerID: "ghost"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMemoryBooks_ListNewestFirstPopulated(t *testing.T) {
	s := seedMemory(t)

	books, err := s.Books().List(context.Background(), model.BookFilter{})
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []string{"b3", "b2", "b1"}, []string{books[0].ID, books[1].ID, books[2].ID})
	require.NotNil(t, books[0].Owner)
	assert.Equal(t, "Alice", books[0].Owner.Name)

	books, err = s.Books().List(context.Background(), model.BookFilter{Genre: "Sci-Fi", Status: model.StatusRented})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "b3", books[0].ID)

	owned, err := s.Books().ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, owned, 3)
	assert.Nil(t, owned[0].Owner)
}

func TestMemoryBooks_Mutations(t *testing.T) {
	s := seedMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Books().UpdateStatus(ctx, "b1", model.StatusExchanged))
	b, err := s.Books().FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusExchanged, b.Status)

	b.Title = "Dune Messiah"
	b.OwnerID = "someone-else"
	require.NoError(t, s.Books().Update(ctx, b))
	b, err = s.Books().FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, "u1", b.OwnerID)

	require.NoError(t, s.Books().Delete(ctx, "b1"))
	assert.ErrorIs(t, s.Books().Delete(ctx, "b1"), common.ErrNotFound)
	assert.ErrorIs(t, s.Books().UpdateStatus(ctx, "b1", model.StatusRented), common.ErrNotFound)
	assert.ErrorIs(t, s.Books().Update(ctx, &model.Book{ID: "b1"}), common.ErrNotFound)
	_, err = s.Books().FindByID(ctx, "b1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	remaining, err := s.Books().List(ctx, model.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
