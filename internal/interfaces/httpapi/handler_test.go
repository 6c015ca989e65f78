package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	"github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/memory"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

type stubFeed struct {
	items []usecase.ExternalMatch
	err   error
}

func (f stubFeed) FetchMatches(context.Context) ([]usecase.ExternalMatch, error) {
	return f.items, f.err
}

const testAdminToken = "test-admin-token"

func newTestRouter(t *testing.T, feed usecase.MatchFeed) http.Handler {
	t.Helper()

	teamType, groupIndex, err := team.ParseName("Erwachsene I")
	if err != nil {
		t.Fatalf("parse seed team name: %v", err)
	}
	seedTeam := team.Team{
		Slug:        team.Slugify("Erwachsene I"),
		Name:        "Erwachsene I",
		Type:        teamType,
		GroupIndex:  groupIndex,
		InviteToken: "seed-token",
	}

	matchRepo := memory.NewMatchRepository(nil)
	teamRepo := memory.NewTeamRepository([]team.Team{seedTeam})
	settingsRepo := memory.NewSettingsRepository()
	logger := logging.NewNop()

	syncService := usecase.NewSyncService(feed, matchRepo, teamRepo, settingsRepo, nil, nil, logger)
	settingsService := usecase.NewSettingsService(settingsRepo, logger)
	teamService := usecase.NewTeamService(teamRepo, nil, logger)
	matchService := usecase.NewMatchService(matchRepo, logger)

	handler := NewHandler(syncService, settingsService, teamService, matchService, logger)
	return NewRouter(handler, logger, []string{"*"}, testAdminToken)
}

func futureRemote(id string) usecase.ExternalMatch {
	return usecase.ExternalMatch{
		ID:           id,
		StartsAt:     time.Now().AddDate(0, 0, 7),
		IsHomeGame:   true,
		HomeTeamName: "Erwachsene I",
		AwayTeamName: "TV Hinterweiler II",
		LeagueName:   "Pfalzliga",
		HallName:     "Sporthalle",
		Street:       "Weinstr. 12",
		City:         "Klingenmünster",
		Zip:          "76889",
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, stubFeed{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestPreviewSync_ReportsMissingMatch(t *testing.T) {
	router := newTestRouter(t, stubFeed{items: []usecase.ExternalMatch{futureRemote("m-1")}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	missing, ok := data["missing"].([]any)
	if !ok || len(missing) != 1 {
		t.Fatalf("expected one missing match, got %v", data["missing"])
	}
	if got, _ := data["empty"].(bool); got {
		t.Fatalf("expected empty=false")
	}
}

func TestRunAutoSync_RequiresAdminToken(t *testing.T) {
	router := newTestRouter(t, stubFeed{items: []usecase.ExternalMatch{futureRemote("m-1")}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunAutoSync_CreatesMatch(t *testing.T) {
	router := newTestRouter(t, stubFeed{items: []usecase.ExternalMatch{futureRemote("m-1")}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	if got, _ := data["created"].(float64); got != 1 {
		t.Fatalf("expected created=1, got %v", data["created"])
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/teams/erwachsene-i/matches", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)

	listBody := decodeEnvelope(t, listRec)
	items, ok := listBody["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one match for team, got %v", listBody["data"])
	}
}

func TestRunManualSync_RejectsEmptyIDs(t *testing.T) {
	router := newTestRouter(t, stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/ids", strings.NewReader(`{"ids":[]}`))
	req.Header.Set("X-Admin-Token", testAdminToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUpdateSyncSettings_PartialUpdate(t *testing.T) {
	router := newTestRouter(t, stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/settings", strings.NewReader(`{"autoSync":false}`))
	req.Header.Set("X-Admin-Token", testAdminToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body["data"])
	}
	if got, _ := data["autoSync"].(bool); got {
		t.Fatalf("expected autoSync=false after update")
	}
	if got, _ := data["includeRRSync"].(bool); !got {
		t.Fatalf("expected includeRRSync to keep its default")
	}
}

func TestCreateTeam_RejectsUnrecognizedName(t *testing.T) {
	router := newTestRouter(t, stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/teams", strings.NewReader(`{"name":"Herren 1b"}`))
	req.Header.Set("X-Admin-Token", testAdminToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestListTeamMatches_UnknownSlug(t *testing.T) {
	router := newTestRouter(t, stubFeed{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams/no-such-team/matches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
