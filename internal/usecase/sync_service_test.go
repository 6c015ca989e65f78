package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	"github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/memory"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

func fixedNow() time.Time {
	return time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)
}

func remoteFixture(id string, at time.Time) ExternalMatch {
	return ExternalMatch{
		ID:           id,
		StartsAt:     at,
		IsHomeGame:   true,
		HomeTeamName: "Erwachsene I",
		AwayTeamName: "TV Hinterweiler II",
		LeagueName:   "Pfalzliga",
		HallName:     "Sporthalle Klingenmünster",
		Street:       "Hauptstr. 1",
		City:         "Klingenmünster",
		Zip:          "76889",
	}
}

func seededTeam() team.Team {
	return team.Team{
		Slug:       team.Slugify("Erwachsene I"),
		Name:       "Erwachsene I",
		Type:       team.TypeErwachsene,
		GroupIndex: 1,
	}
}

type stubFeed struct {
	items []ExternalMatch
	err   error
}

func (f stubFeed) FetchMatches(_ context.Context) ([]ExternalMatch, error) {
	return f.items, f.err
}

type recordingNotifier struct {
	texts []string
	err   error
}

func (n *recordingNotifier) Send(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return n.err
}

type syncFixture struct {
	svc      *SyncService
	matches  *memory.MatchRepository
	teams    *memory.TeamRepository
	settings *memory.SettingsRepository
	notifier *recordingNotifier
}

func newSyncFixture(t *testing.T, feed MatchFeed, localMatches []match.Match, localTeams []team.Team) syncFixture {
	t.Helper()

	matchRepo := memory.NewMatchRepository(localMatches)
	teamRepo := memory.NewTeamRepository(localTeams)
	settingsRepo := memory.NewSettingsRepository()
	notifier := &recordingNotifier{}

	svc := NewSyncService(feed, matchRepo, teamRepo, settingsRepo, notifier, nil, logging.NewNop())
	svc.now = fixedNow

	return syncFixture{
		svc:      svc,
		matches:  matchRepo,
		teams:    teamRepo,
		settings: settingsRepo,
		notifier: notifier,
	}
}

func TestSyncService_Changes_SeasonFilterExcludesRRWindow(t *testing.T) {
	t.Parallel()

	marchMatch := remoteFixture("m-1", time.Date(2025, time.March, 15, 19, 0, 0, 0, time.UTC))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{marchMatch}}, nil, []team.Team{seededTeam()})
	fx.svc.now = func() time.Time {
		return time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	}

	if err := fx.settings.Save(context.Background(), settings.Settings{AutoSync: true, IncludeRRSync: false}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	changes, err := fx.svc.Changes(context.Background())
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if !changes.Empty() {
		t.Fatalf("march match should be excluded with RR sync off, got=%+v", changes)
	}

	if err := fx.settings.Save(context.Background(), settings.Settings{AutoSync: true, IncludeRRSync: true}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	changes, err = fx.svc.Changes(context.Background())
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if len(changes.Missing) != 1 {
		t.Fatalf("expected 1 missing match with RR sync on, got=%d", len(changes.Missing))
	}
}

func TestSyncService_Changes_FutureFilter(t *testing.T) {
	t.Parallel()

	yesterday := remoteFixture("m-old", fixedNow().Add(-24*time.Hour))
	earlierToday := remoteFixture("m-today", fixedNow().Add(-4*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{yesterday, earlierToday}}, nil, []team.Team{seededTeam()})

	changes, err := fx.svc.Changes(context.Background())
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if len(changes.Missing) != 1 {
		t.Fatalf("expected only today's match, got=%d missing", len(changes.Missing))
	}
	if changes.Missing[0].ID != "m-today" {
		t.Fatalf("expected m-today to survive the future filter, got=%s", changes.Missing[0].ID)
	}
}

func TestSyncService_Changes_ClassificationIndependence(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	local := match.Match{
		ID:         remote.ID,
		Time:       remote.StartsAt.Add(30 * time.Minute),
		IsHomeGame: remote.IsHomeGame,
		Type:       match.TypeRegular,
		EnemyName:  remote.OpponentName(),
		TeamSlug:   seededTeam().Slug,
		Location: &match.Location{
			City:          "Somewhere 11111",
			StreetAddress: remote.Street,
			HallName:      remote.HallName,
		},
	}

	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, []match.Match{local}, []team.Team{seededTeam()})

	changes, err := fx.svc.Changes(context.Background())
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	if len(changes.Missing) != 0 {
		t.Fatalf("known id must not be missing, got=%d", len(changes.Missing))
	}
	if got := len(changes.Field(FieldTime)); got != 1 {
		t.Fatalf("expected 1 time mismatch, got=%d", got)
	}
	if got := len(changes.Field(FieldLocation)); got != 1 {
		t.Fatalf("expected 1 location mismatch, got=%d", got)
	}
	if got := len(changes.Field(FieldHomeGame)); got != 0 {
		t.Fatalf("expected no home game mismatch, got=%d", got)
	}
	if got := len(changes.Updates()); got != 1 {
		t.Fatalf("two buckets on one match must collapse to one update, got=%d", got)
	}
}

func TestSyncService_Changes_RetainsPriorLocalState(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	before := remote.StartsAt.Add(30 * time.Minute)
	loc := remote.Location()
	local := match.Match{
		ID:         remote.ID,
		Time:       before,
		IsHomeGame: remote.IsHomeGame,
		Type:       match.TypeRegular,
		EnemyName:  remote.OpponentName(),
		TeamSlug:   seededTeam().Slug,
		Location:   &loc,
	}

	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, []match.Match{local}, []team.Team{seededTeam()})

	changes, err := fx.svc.Changes(context.Background())
	if err != nil {
		t.Fatalf("Changes error: %v", err)
	}
	mismatches := changes.Field(FieldTime)
	if len(mismatches) != 1 {
		t.Fatalf("expected 1 time mismatch, got=%d", len(mismatches))
	}
	if !mismatches[0].Before.Time.Equal(before) {
		t.Fatalf("expected prior local time %v, got=%v", before, mismatches[0].Before.Time)
	}
}

func TestSyncService_Changes_FeedUnavailable(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t, stubFeed{err: errors.New("connection refused")}, nil, nil)

	_, err := fx.svc.Changes(context.Background())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got=%v", err)
	}
}
