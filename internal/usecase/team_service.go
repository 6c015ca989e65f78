package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/id"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

// TeamService covers the thin team CRUD surface around the engine.
type TeamService struct {
	repo   team.Repository
	tokens id.Generator
	logger *logging.Logger
}

func NewTeamService(repo team.Repository, tokens id.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	if tokens == nil {
		tokens = id.NewRandomGenerator()
	}
	return &TeamService{repo: repo, tokens: tokens, logger: logger}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	teams, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) GetBySlug(ctx context.Context, slug string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetBySlug")
	defer span.End()

	if slug == "" {
		return team.Team{}, fmt.Errorf("%w: empty team slug", ErrInvalidInput)
	}

	found, ok, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, fmt.Errorf("load team slug=%s: %w", slug, err)
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team slug=%s", ErrNotFound, slug)
	}
	return found, nil
}

// Create registers a team under the canonical slug of its name, with
// type and tier parsed from the club naming convention.
func (s *TeamService) Create(ctx context.Context, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	teamType, groupIndex, err := team.ParseName(name)
	if err != nil {
		if errors.Is(err, team.ErrUnrecognizedName) {
			return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return team.Team{}, err
	}

	token, err := s.tokens.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate invite token: %w", err)
	}

	created := team.Team{
		Slug:        team.Slugify(name),
		Name:        name,
		Type:        teamType,
		GroupIndex:  groupIndex,
		InviteToken: token,
	}
	if err := created.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, created); err != nil {
		return team.Team{}, fmt.Errorf("create team slug=%s: %w", created.Slug, err)
	}

	s.logger.InfoContext(ctx, "team created", "slug", created.Slug, "type", created.Type)
	return created, nil
}
