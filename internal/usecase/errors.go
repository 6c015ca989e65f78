package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrFeedUnavailable aborts a whole sync cycle: the league feed
	// could not be fetched or returned malformed data. No partial
	// writes happen under it.
	ErrFeedUnavailable = errors.New("league feed unavailable")

	// ErrTeamNotFound and ErrDuplicateMatch are per-match failures.
	// They land in the failed-sync list and never abort the cycle.
	ErrTeamNotFound   = errors.New("team not found")
	ErrDuplicateMatch = errors.New("duplicate match")
)
