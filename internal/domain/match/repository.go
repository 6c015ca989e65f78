package match

import (
	"context"
	"errors"
)

// ErrDuplicateID is returned by Create when a match with the same id
// already exists. The id uniqueness constraint is the backstop that
// turns overlapping sync cycles into a detected failure instead of a
// duplicated row.
var ErrDuplicateID = errors.New("match id already exists")

// ErrNotFound is returned by Update when no match carries the id.
var ErrNotFound = errors.New("match not found")

// Repository describes match persistence needs from use cases,
// including the nested location.
type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListByTeam(ctx context.Context, teamSlug string) ([]Match, error)
	List(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, item Match) error
	Update(ctx context.Context, id string, fields Update) error
}
