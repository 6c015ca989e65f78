package cache

import (
	"context"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	basecache "github.com/ttc-klingenmuenster/clubsync/internal/platform/cache"
)

// SettingsRepository caches the singleton settings row. Every sync
// cycle reads it, almost no request writes it.
type SettingsRepository struct {
	next  settings.Repository
	cache *basecache.Store
}

func NewSettingsRepository(next settings.Repository, cache *basecache.Store) *SettingsRepository {
	return &SettingsRepository{next: next, cache: cache}
}

const settingsCacheKey = "settings:current"

func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, settingsCacheKey, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx)
		if err != nil {
			return nil, err
		}
		return cachedSettings{value: item, exists: exists}, nil
	})
	if err != nil {
		return settings.Settings{}, false, err
	}

	cached, _ := v.(cachedSettings)
	return cached.value, cached.exists, nil
}

func (r *SettingsRepository) Save(ctx context.Context, next settings.Settings) error {
	if err := r.next.Save(ctx, next); err != nil {
		return err
	}
	r.cache.Delete(ctx, settingsCacheKey)
	return nil
}

type cachedSettings struct {
	value  settings.Settings
	exists bool
}

// TeamRepository caches team lookups. The roster changes rarely, the
// sync loop reads it every cycle.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	key := "team:slug:" + slug
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:list")
	r.cache.Delete(ctx, "team:slug:"+item.Slug)
	return nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}
