// Package repository stores Finance API profiles and blog posts for the dev stub server.
package repository

import (
	"context"

	"github.com/coinly/coinly/internal/model"
)

// ProfileRepositoryInterface stores one profile per user. Implementations must
// be safe for concurrent use.
type ProfileRepositoryInterface interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	// GetOrCreate returns the stored profile, creating it from init on first access.
	GetOrCreate(ctx context.Context, userID string, init func() *Profile) (*Profile, error)
	// Update applies fn atomically. If fn returns an error nothing is stored.
	Update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error)
}

// BlogRepositoryInterface stores blog posts.
type BlogRepositoryInterface interface {
	Create(ctx context.Context, blog *model.Blog) error
	List(ctx context.Context) ([]model.Blog, error)
}
