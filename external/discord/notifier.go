package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

// Discord caps message content at 2000 characters; stay under it so
// the webhook never rejects a long report.
const maxContentLength = 1900

type NotifierConfig struct {
	HTTPClient *http.Client
	WebhookURL string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Notifier posts sync reports to a Discord webhook. Delivery is best
// effort, callers log the error and move on.
type Notifier struct {
	httpClient *http.Client
	webhookURL string
	logger     *logging.Logger
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	return &Notifier{
		httpClient: httpClient,
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		logger:     logger,
	}
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	if n.webhookURL == "" {
		return crerr.New("discord webhook url is not configured")
	}

	content := truncateContent(text)
	payload, err := sonic.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(buf.B))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	n.logger.DebugContext(ctx, "discord notification delivered", "length", len(content))
	return nil
}

func truncateContent(text string) string {
	if len(text) <= maxContentLength {
		return text
	}
	cut := text[:maxContentLength]
	// Do not split a multi-byte rune at the boundary.
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
