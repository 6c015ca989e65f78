package discord

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

func TestNotifier_Send(t *testing.T) {
	t.Parallel()

	var gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := sonic.Unmarshal(raw, &payload); err != nil {
			t.Errorf("unmarshal webhook payload: %v", err)
		}
		gotContent = payload["content"]
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	notifier := NewNotifier(NotifierConfig{WebhookURL: server.URL, Logger: logging.NewNop()})
	if err := notifier.Send(context.Background(), "## Auto Sync Report (v1)\nNo changes detected, no sync needed."); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if !strings.HasPrefix(gotContent, "## Auto Sync Report (v1)") {
		t.Fatalf("unexpected content: %q", gotContent)
	}
}

func TestNotifier_Send_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid webhook", http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	notifier := NewNotifier(NotifierConfig{WebhookURL: server.URL, Logger: logging.NewNop()})
	if err := notifier.Send(context.Background(), "report"); err == nil {
		t.Fatalf("expected error for non-2xx webhook response")
	}
}

func TestTruncateContent(t *testing.T) {
	t.Parallel()

	short := "short report"
	if got := truncateContent(short); got != short {
		t.Fatalf("short content must pass through, got=%q", got)
	}

	long := strings.Repeat("a", maxContentLength+200)
	if got := truncateContent(long); len(got) != maxContentLength {
		t.Fatalf("expected %d bytes, got=%d", maxContentLength, len(got))
	}

	umlauts := strings.Repeat("ä", maxContentLength)
	got := truncateContent(umlauts)
	if len(got) > maxContentLength {
		t.Fatalf("truncated content too long: %d", len(got))
	}
	if !strings.HasSuffix(got, "ä") {
		t.Fatalf("truncation split a rune: last bytes %q", got[len(got)-4:])
	}
}
