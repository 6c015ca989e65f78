package usecase

import (
	"context"
	"fmt"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

// SettingsService reads and writes the singleton sync toggles.
type SettingsService struct {
	repo   settings.Repository
	logger *logging.Logger
}

func NewSettingsService(repo settings.Repository, logger *logging.Logger) *SettingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the stored settings, or the defaults when nothing has
// been saved yet.
func (s *SettingsService) Get(ctx context.Context) (settings.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.Get")
	defer span.End()

	current, ok, err := s.repo.Get(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return settings.Defaults(), nil
	}
	return current, nil
}

func (s *SettingsService) Update(ctx context.Context, next settings.Settings) (settings.Settings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.Update")
	defer span.End()

	if err := s.repo.Save(ctx, next); err != nil {
		return settings.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.logger.InfoContext(ctx, "sync settings updated",
		"autoSync", next.AutoSync, "includeRRSync", next.IncludeRRSync)
	return next, nil
}
