package ttapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/resilience"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

const (
	defaultBaseURL = "https://tt-api.ttc-klingenmuenster.de"
	matchesPath    = "/api/v1/matches"
)

var errTTAPITransient = crerr.New("tt-api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the league feed. One authenticated uncached GET covers
// the whole dataset, no pagination.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID         string `json:"id"`
	Datetime   string `json:"datetime"`
	IsHomeGame bool   `json:"isHomeGame"`
	Teams      struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Location struct {
		Name    string `json:"name"`
		Address struct {
			Street string `json:"street"`
			City   string `json:"city"`
			Zip    string `json:"zip"`
		} `json:"address"`
	} `json:"location"`
}

// FetchMatches returns the full remote match dataset.
func (c *Client) FetchMatches(ctx context.Context) ([]usecase.ExternalMatch, error) {
	var envelope matchesEnvelope
	if err := c.doJSON(ctx, matchesPath, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		parsed, err := parseFeedDateTime(item.Datetime)
		if err != nil {
			return nil, fmt.Errorf("match id=%s has malformed datetime %q: %w", item.ID, item.Datetime, err)
		}
		out = append(out, usecase.ExternalMatch{
			ID:           item.ID,
			StartsAt:     parsed,
			IsHomeGame:   item.IsHomeGame,
			HomeTeamName: strings.TrimSpace(item.Teams.Home.Name),
			AwayTeamName: strings.TrimSpace(item.Teams.Away.Name),
			LeagueName:   strings.TrimSpace(item.League.Name),
			HallName:     strings.TrimSpace(item.Location.Name),
			Street:       strings.TrimSpace(item.Location.Address.Street),
			City:         strings.TrimSpace(item.Location.Address.City),
			Zip:          strings.TrimSpace(item.Location.Address.Zip),
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tt-api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: league feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTTAPITransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTTAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTTAPITransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errTTAPITransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "tt-api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func parseFeedDateTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const max = 256
	value := strings.TrimSpace(string(raw))
	if len(value) > max {
		return value[:max] + "..."
	}
	return value
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" || secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}
