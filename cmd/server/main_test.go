package main

import (
	"context"
	"path/filepath"
	"testing"

	"bookswap/internal/domain/model"
	"bookswap/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionPolicy(t *testing.T) {
	p, err := transitionPolicy(nil)
	require.NoError(t, err)
	assert.True(t, p.Allows(model.StatusExchanged, model.StatusAvailable))

	p, err = transitionPolicy([]string{"exchanged"})
	require.NoError(t, err)
	assert.False(t, p.Allows(model.StatusExchanged, model.StatusAvailable))
	assert.True(t, p.Allows(model.StatusRented, model.StatusExchanged))

	_, err = transitionPolicy([]string{"lost"})
	assert.Error(t, err)
}

func TestOpenRepositories(t *testing.T) {
	users, books, closeFn, err := openRepositories(context.Background(), &config.Config{StorageBackend: config.StorageBackendMemory})
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.NotNil(t, books)
	closeFn()

	_, _, _, err = openRepositories(context.Background(), &config.Config{StorageBackend: "mongo"})
	assert.ErrorContains(t, err, "unknown STORAGE_BACKEND")
}

func TestOpenMediaStore_Disk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, served, err := openMediaStore(context.Background(), &config.Config{
		APIPort:      "5000",
		MediaBackend: config.MediaBackendDisk,
		MediaDiskDir: dir,
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Equal(t, dir, served)

	_, _, err = openMediaStore(context.Background(), &config.Config{MediaBackend: "ftp"})
	assert.ErrorContains(t, err, "unknown MEDIA_BACKEND")
}
