// Package cache stores the derived filter options so the dropdown choices
// do not require a full book scan on every request.
package cache

import (
	"context"

	"bookswap/internal/domain/model"
)

// FilterOptionsCache holds the last computed filter options.
//
// Get returns nil options on a miss together with the current version.
// Set stores options computed at that version; once Invalidate has bumped
// the version, options stored under an older one are never returned.
type FilterOptionsCache interface {
	Get(ctx context.Context) (opts *model.FilterOptions, version int64, err error)
	Set(ctx context.Context, version int64, opts model.FilterOptions) error
	Invalidate(ctx context.Context) error
}

// Noop never stores anything, so every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context) (*model.FilterOptions, int64, error) { return nil, 0, nil }
func (Noop) Set(context.Context, int64, model.FilterOptions) error   { return nil }
func (Noop) Invalidate(context.Context) error                        { return nil }
