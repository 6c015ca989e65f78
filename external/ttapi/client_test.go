package ttapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

const matchesPayload = `{
  "matches": [
    {
      "id": "m-100",
      "datetime": "2025-10-04T18:30:00Z",
      "isHomeGame": true,
      "teams": {
        "home": {"name": "Erwachsene I"},
        "away": {"name": "TV Hinterweiler II"}
      },
      "league": {"name": "Kreispokal"},
      "location": {
        "name": "Sporthalle Klingenmünster",
        "address": {"street": "Hauptstr. 1", "city": "Klingenmünster", "zip": "76889"}
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})
	return client, server
}

func TestClient_FetchMatches(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/api/v1/matches" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(matchesPayload))
	}))

	matches, err := client.FetchMatches(context.Background())
	if err != nil {
		t.Fatalf("FetchMatches error: %v", err)
	}
	if gotAuth != "test-key" {
		t.Fatalf("expected api key in Authorization header, got=%q", gotAuth)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got=%d", len(matches))
	}

	got := matches[0]
	if got.ID != "m-100" {
		t.Fatalf("unexpected id: %s", got.ID)
	}
	want := time.Date(2025, time.October, 4, 18, 30, 0, 0, time.UTC)
	if !got.StartsAt.Equal(want) {
		t.Fatalf("unexpected datetime: got=%v want=%v", got.StartsAt, want)
	}
	if !got.IsHomeGame || got.OwnTeamName() != "Erwachsene I" || got.OpponentName() != "TV Hinterweiler II" {
		t.Fatalf("unexpected team mapping: %+v", got)
	}
	if got.LeagueName != "Kreispokal" {
		t.Fatalf("unexpected league: %s", got.LeagueName)
	}
	if loc := got.Location(); loc.City != "Klingenmünster 76889" || loc.HallName != "Sporthalle Klingenmünster" {
		t.Fatalf("unexpected location mapping: %+v", loc)
	}
}

func TestClient_FetchMatches_MalformedDatetime(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[{"id":"m-1","datetime":"not-a-date"}]}`))
	}))

	if _, err := client.FetchMatches(context.Background()); err == nil {
		t.Fatalf("expected error for malformed datetime")
	}
}

func TestClient_FetchMatches_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	client.maxRetries = 2

	if _, err := client.FetchMatches(context.Background()); err == nil {
		t.Fatalf("expected error for unauthorized response")
	}
	if calls != 1 {
		t.Fatalf("401 must not be retried, got %d calls", calls)
	}
}

func TestClient_FetchMatches_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(matchesPayload))
	}))
	client.maxRetries = 2

	matches, err := client.FetchMatches(context.Background())
	if err != nil {
		t.Fatalf("FetchMatches error after retry: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match after retry, got=%d", len(matches))
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got=%d", calls)
	}
}
