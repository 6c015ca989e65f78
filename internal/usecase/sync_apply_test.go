package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
)

func TestSyncService_AutoSync_CreatesMissingMatch(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("AutoSync error: %v", err)
	}
	if len(report.Created) != 1 || len(report.Failed) != 0 || report.Updated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	created, ok, err := fx.matches.GetByID(context.Background(), "m-1")
	if err != nil || !ok {
		t.Fatalf("created match not found: ok=%v err=%v", ok, err)
	}
	if created.Type != match.TypeRegular {
		t.Fatalf("expected REGULAR type, got=%s", created.Type)
	}
	if created.EnemyName != "TV Hinterweiler II" {
		t.Fatalf("expected away side as enemy, got=%s", created.EnemyName)
	}
	if created.TeamSlug != "erwachsene-i" {
		t.Fatalf("expected slug of home side, got=%s", created.TeamSlug)
	}
	if created.Location == nil || created.Location.City != "Klingenmünster 76889" {
		t.Fatalf("expected city column with zip, got=%+v", created.Location)
	}

	if len(fx.notifier.texts) != 1 {
		t.Fatalf("expected 1 notification, got=%d", len(fx.notifier.texts))
	}
	if !strings.Contains(fx.notifier.texts[0], "Successful syncs: 1") {
		t.Fatalf("report missing success count: %q", fx.notifier.texts[0])
	}
	if strings.Contains(fx.notifier.texts[0], "### Updated Matches") {
		t.Fatalf("report must not carry an updated section: %q", fx.notifier.texts[0])
	}
}

func TestSyncService_AutoSync_SecondRunReportsNoChanges(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})

	if _, err := fx.svc.AutoSync(context.Background()); err != nil {
		t.Fatalf("first AutoSync error: %v", err)
	}
	second, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("second AutoSync error: %v", err)
	}
	if !second.Empty() {
		t.Fatalf("second run over unchanged feed must be empty, got=%+v", second)
	}

	want := "## Auto Sync Report (v1)\nNo changes detected, no sync needed."
	if got := fx.notifier.texts[len(fx.notifier.texts)-1]; got != want {
		t.Fatalf("unexpected second report:\ngot=%q\nwant=%q", got, want)
	}
}

func TestSyncService_AutoSync_AppliesHomeGameFlip(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	remote.IsHomeGame = false
	loc := remote.Location()
	local := match.Match{
		ID:         remote.ID,
		Time:       remote.StartsAt,
		IsHomeGame: true,
		Type:       match.TypeRegular,
		EnemyName:  "TV Hinterweiler II",
		TeamSlug:   seededTeam().Slug,
		Location:   &loc,
	}
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, []match.Match{local}, []team.Team{seededTeam()})

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("AutoSync error: %v", err)
	}
	if report.Updated != 1 {
		t.Fatalf("expected 1 update, got=%d", report.Updated)
	}

	updated, _, err := fx.matches.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if updated.IsHomeGame {
		t.Fatalf("home game flag not applied")
	}
}

func TestSyncService_AutoSync_UpdateIsConvergent(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	loc := match.Location{City: "Elsewhere 00000", StreetAddress: "Altstr. 9", HallName: "Old Hall"}
	local := match.Match{
		ID:         remote.ID,
		Time:       remote.StartsAt.Add(time.Hour),
		IsHomeGame: remote.IsHomeGame,
		Type:       match.TypeRegular,
		EnemyName:  remote.OpponentName(),
		TeamSlug:   seededTeam().Slug,
		Location:   &loc,
	}
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, []match.Match{local}, []team.Team{seededTeam()})

	first, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("first AutoSync error: %v", err)
	}
	if first.Updated != 1 {
		t.Fatalf("expected 1 update on first run, got=%d", first.Updated)
	}

	second, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("second AutoSync error: %v", err)
	}
	if second.Updated != 0 || !second.Empty() {
		t.Fatalf("second run must converge to no changes, got=%+v", second)
	}
}

func TestSyncService_AutoSync_TeamNotFoundRecordsFailure(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, nil)

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("AutoSync error: %v", err)
	}
	if len(report.Created) != 0 || len(report.Failed) != 1 {
		t.Fatalf("expected a single failure, got=%+v", report)
	}
	if _, ok, _ := fx.matches.GetByID(context.Background(), "m-1"); ok {
		t.Fatalf("failed match must not be persisted")
	}

	// The manual path may create the missing team and place the match.
	manual, err := fx.svc.ManualSync(context.Background(), []string{"m-1"})
	if err != nil {
		t.Fatalf("ManualSync error: %v", err)
	}
	if len(manual.Created) != 1 {
		t.Fatalf("expected manual sync to create the match, got=%+v", manual)
	}

	createdTeam, ok, err := fx.teams.GetBySlug(context.Background(), "erwachsene-i")
	if err != nil || !ok {
		t.Fatalf("manual sync should create the team: ok=%v err=%v", ok, err)
	}
	if createdTeam.Type != team.TypeErwachsene || createdTeam.GroupIndex != 1 {
		t.Fatalf("unexpected parsed team: %+v", createdTeam)
	}
	if createdTeam.InviteToken == "" {
		t.Fatalf("created team must carry an invite token")
	}
	if _, ok, _ := fx.matches.GetByID(context.Background(), "m-1"); !ok {
		t.Fatalf("manual sync should persist the match")
	}
}

func TestSyncService_AutoSync_DisabledSkipsCycle(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})
	if err := fx.settings.Save(context.Background(), settings.Settings{AutoSync: false, IncludeRRSync: true}); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("AutoSync error: %v", err)
	}
	if !report.Skipped {
		t.Fatalf("expected skipped report, got=%+v", report)
	}
	if _, ok, _ := fx.matches.GetByID(context.Background(), "m-1"); ok {
		t.Fatalf("disabled auto sync must not write")
	}
	if len(fx.notifier.texts) != 0 {
		t.Fatalf("disabled auto sync must not notify, got=%d", len(fx.notifier.texts))
	}
}

func TestSyncService_AutoSync_NotifierFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})
	fx.notifier.err = context.DeadlineExceeded

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("notifier failure must not fail the cycle: %v", err)
	}
	if len(report.Created) != 1 {
		t.Fatalf("expected the sync outcome to stand, got=%+v", report)
	}
}

func TestSyncService_AutoSync_DuplicateCreateRecordsFailure(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})
	fx.svc.matchRepo = duplicateOnCreateRepo{inner: fx.matches}

	report, err := fx.svc.AutoSync(context.Background())
	if err != nil {
		t.Fatalf("duplicate id must not fail the cycle: %v", err)
	}
	if len(report.Failed) != 1 || len(report.Created) != 0 {
		t.Fatalf("expected the collision as a failed sync, got=%+v", report)
	}
}

func TestSyncService_ManualSync_SkipsIDsMissingFromFeed(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, []team.Team{seededTeam()})

	report, err := fx.svc.ManualSync(context.Background(), []string{"m-unknown"})
	if err != nil {
		t.Fatalf("ManualSync error: %v", err)
	}
	if !report.Empty() {
		t.Fatalf("unknown id must be skipped, got=%+v", report)
	}
}

func TestSyncService_ManualSync_UpdatesExistingMatch(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	local := match.Match{
		ID:         remote.ID,
		Time:       remote.StartsAt.Add(2 * time.Hour),
		IsHomeGame: remote.IsHomeGame,
		Type:       match.TypeRegular,
		EnemyName:  remote.OpponentName(),
		TeamSlug:   seededTeam().Slug,
	}
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, []match.Match{local}, []team.Team{seededTeam()})

	report, err := fx.svc.ManualSync(context.Background(), []string{"m-1"})
	if err != nil {
		t.Fatalf("ManualSync error: %v", err)
	}
	if report.Updated != 1 {
		t.Fatalf("expected 1 update, got=%+v", report)
	}

	updated, _, err := fx.matches.GetByID(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("reload match: %v", err)
	}
	if !updated.Time.Equal(remote.StartsAt) {
		t.Fatalf("time not converged: got=%v want=%v", updated.Time, remote.StartsAt)
	}
	if updated.Location == nil {
		t.Fatalf("manual sync must upsert the missing location")
	}
}

func TestSyncService_ManualSync_UnparseableTeamNameFails(t *testing.T) {
	t.Parallel()

	remote := remoteFixture("m-1", fixedNow().Add(72*time.Hour))
	remote.HomeTeamName = "SV Unbekannt 1b"
	fx := newSyncFixture(t, stubFeed{items: []ExternalMatch{remote}}, nil, nil)

	report, err := fx.svc.ManualSync(context.Background(), []string{"m-1"})
	if err != nil {
		t.Fatalf("ManualSync error: %v", err)
	}
	if len(report.Failed) != 1 {
		t.Fatalf("expected the unparseable name as a failure, got=%+v", report)
	}
}

type duplicateOnCreateRepo struct {
	inner match.Repository
}

func (r duplicateOnCreateRepo) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	return r.inner.GetByID(ctx, id)
}

func (r duplicateOnCreateRepo) ListByTeam(ctx context.Context, teamSlug string) ([]match.Match, error) {
	return r.inner.ListByTeam(ctx, teamSlug)
}

func (r duplicateOnCreateRepo) List(ctx context.Context) ([]match.Match, error) {
	return r.inner.List(ctx)
}

func (r duplicateOnCreateRepo) Create(_ context.Context, _ match.Match) error {
	return match.ErrDuplicateID
}

func (r duplicateOnCreateRepo) Update(ctx context.Context, id string, fields match.Update) error {
	return r.inner.Update(ctx, id, fields)
}
