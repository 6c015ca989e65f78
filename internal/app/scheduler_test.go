package app

import (
	"context"
	"testing"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/memory"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

type stubFeed struct {
	items []usecase.ExternalMatch
}

func (f stubFeed) FetchMatches(context.Context) ([]usecase.ExternalMatch, error) {
	return f.items, nil
}

func TestScheduler_RunCycleAppliesSync(t *testing.T) {
	matchRepo := memory.NewMatchRepository(nil)
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	settingsRepo := memory.NewSettingsRepository()

	feed := stubFeed{items: []usecase.ExternalMatch{{
		ID:           "m-1",
		StartsAt:     time.Now().AddDate(0, 0, 3),
		IsHomeGame:   true,
		HomeTeamName: "Erwachsene I",
		AwayTeamName: "TTC Gegner II",
		LeagueName:   "Pfalzliga",
		City:         "Klingenmünster",
		Zip:          "76889",
	}}}

	syncSvc := usecase.NewSyncService(feed, matchRepo, teamRepo, settingsRepo, nil, nil, logging.NewNop())
	scheduler := NewScheduler(syncSvc, time.Hour, time.Minute, logging.NewNop())

	scheduler.runCycle()

	matches, err := matchRepo.List(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match after cycle, got %d", len(matches))
	}
}

func TestScheduler_StartStop(t *testing.T) {
	matchRepo := memory.NewMatchRepository(nil)
	teamRepo := memory.NewTeamRepository(nil)
	settingsRepo := memory.NewSettingsRepository()

	syncSvc := usecase.NewSyncService(stubFeed{}, matchRepo, teamRepo, settingsRepo, nil, nil, logging.NewNop())
	scheduler := NewScheduler(syncSvc, 10*time.Millisecond, time.Second, logging.NewNop())

	scheduler.Start()
	time.Sleep(25 * time.Millisecond)
	scheduler.Stop()
}
