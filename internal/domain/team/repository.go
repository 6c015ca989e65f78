package team

import (
	"context"
	"errors"
)

// ErrDuplicateSlug is returned by Create when the slug is taken.
var ErrDuplicateSlug = errors.New("team slug already exists")

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetBySlug(ctx context.Context, slug string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Create(ctx context.Context, item Team) error
}
