package memory

import (
	"context"
	"sync"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
)

type SettingsRepository struct {
	mu      sync.RWMutex
	current settings.Settings
	stored  bool
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

func (r *SettingsRepository) Get(_ context.Context) (settings.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current, r.stored, nil
}

func (r *SettingsRepository) Save(_ context.Context, next settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = next
	r.stored = true
	return nil
}
