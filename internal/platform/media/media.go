// Package media uploads book cover images to a durable host and returns
// the URL under which they are served.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"bookswap/internal/common"
	"bookswap/internal/logging"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MaxImageSize is the largest accepted cover upload.
const MaxImageSize = 5 << 20

const cleanupTimeout = 30 * time.Second

var allowedTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Image is a cover image received from a client.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store is the external media host.
type Store interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// Validate rejects images whose extension or declared MIME type is not a
// supported image format, or that exceed MaxImageSize.
func Validate(img *Image) error {
	if img == nil {
		return fmt.Errorf("please upload a book cover image: %w", common.ErrValidation)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(img.Filename)), ".")
	if !allowedTypes[ext] || !allowedTypes[mimeSubtype(img.ContentType)] {
		return fmt.Errorf("images only, supported formats: JPEG, JPG, PNG, GIF, WEBP: %w", common.ErrValidation)
	}
	if img.Size > MaxImageSize {
		return fmt.Errorf("cover image exceeds %d bytes: %w", MaxImageSize, common.ErrValidation)
	}
	return nil
}

func mimeSubtype(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !strings.HasPrefix(ct, "image/") {
		return ""
	}
	return strings.TrimPrefix(ct, "image/")
}

// ObjectKey names a cover object after its book title, e.g.
// "book_covers/2026/10/dune-<uuid>.jpg".
func ObjectKey(title, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := slug.Make(title)
	if name == "" {
		name = "cover"
	}
	d := time.Now().UTC()
	return fmt.Sprintf("book_covers/%d/%02d/%s-%s%s", d.Year(), d.Month(), name, uuid.NewString(), ext)
}

// Uploader validates and uploads covers with a bounded timeout.
type Uploader struct {
	store   Store
	timeout time.Duration
	log     logging.Logger
}

func NewUploader(store Store, timeout time.Duration, log logging.Logger) *Uploader {
	return &Uploader{store: store, timeout: timeout, log: log}
}

type putResult struct {
	url string
	err error
}

// Upload stores img and returns its URL. Any store failure, including a
// timeout, is reported as common.ErrStorage. An object that the store
// finishes writing after the timeout is deleted in the background.
func (u *Uploader) Upload(ctx context.Context, title string, img *Image) (string, error) {
	if err := Validate(img); err != nil {
		return "", err
	}
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	key := ObjectKey(title, img.Filename)
	done := make(chan putResult, 1)
	go func() {
		url, err := u.store.Put(ctx, key, img.ContentType, img.Body, img.Size)
		done <- putResult{url, err}
	}()

	select {
	case <-ctx.Done():
		go u.discardLate(key, done)
		return "", common.StorageError(ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", common.StorageError(r.err)
		}
		return r.url, nil
	}
}

func (u *Uploader) discardLate(key string, done <-chan putResult) {
	if r := <-done; r.err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := u.store.Delete(ctx, key); err != nil {
		u.log.Warn(ctx, "failed to remove cover written after upload timeout", "key", key, "error", err)
		return
	}
	u.log.Info(ctx, "removed cover written after upload timeout", "key", key)
}
