package usecase

import (
	"context"
	"fmt"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

// MatchService exposes read access to the local match store.
type MatchService struct {
	repo   match.Repository
	logger *logging.Logger
}

func NewMatchService(repo match.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{repo: repo, logger: logger}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	matches, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *MatchService) ListByTeam(ctx context.Context, teamSlug string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTeam")
	defer span.End()

	if teamSlug == "" {
		return nil, fmt.Errorf("%w: empty team slug", ErrInvalidInput)
	}

	matches, err := s.repo.ListByTeam(ctx, teamSlug)
	if err != nil {
		return nil, fmt.Errorf("list matches team=%s: %w", teamSlug, err)
	}
	return matches, nil
}

func (s *MatchService) GetByID(ctx context.Context, id string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	if id == "" {
		return match.Match{}, fmt.Errorf("%w: empty match id", ErrInvalidInput)
	}

	found, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("load match id=%s: %w", id, err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, id)
	}
	return found, nil
}
