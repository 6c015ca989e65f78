package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	bySlug := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		bySlug[item.Slug] = item
	}
	return &TeamRepository{teams: bySlug}
}

func (r *TeamRepository) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[slug]
	return item, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.teams[item.Slug]; exists {
		return team.ErrDuplicateSlug
	}
	r.teams[item.Slug] = item
	return nil
}
