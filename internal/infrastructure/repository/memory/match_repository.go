package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = cloneMatch(item)
	}
	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		out = append(out, cloneMatch(item))
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamSlug string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if item.TeamSlug != teamSlug {
			continue
		}
		out = append(out, cloneMatch(item))
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.matches[item.ID]; exists {
		return match.ErrDuplicateID
	}
	r.matches[item.ID] = cloneMatch(item)
	return nil
}

func (r *MatchRepository) Update(_ context.Context, id string, fields match.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.matches[id]
	if !ok {
		return match.ErrNotFound
	}

	item.Time = fields.Time
	item.IsHomeGame = fields.IsHomeGame
	if fields.Location != nil {
		loc := *fields.Location
		item.Location = &loc
	}
	r.matches[id] = item
	return nil
}

func cloneMatch(item match.Match) match.Match {
	if item.Location != nil {
		loc := *item.Location
		item.Location = &loc
	}
	return item
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Time.Equal(items[j].Time) {
			return items[i].ID < items[j].ID
		}
		return items[i].Time.Before(items[j].Time)
	})
}
