package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/id"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

// MatchFeed is the external league feed: one uncached read of the full
// match dataset. Retries are a caller concern.
type MatchFeed interface {
	FetchMatches(ctx context.Context) ([]ExternalMatch, error)
}

// Notifier delivers the sync report. Best effort: failures are logged
// and swallowed.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// ExternalMatch is one match row as the league feed reports it.
type ExternalMatch struct {
	ID           string
	StartsAt     time.Time
	IsHomeGame   bool
	HomeTeamName string
	AwayTeamName string
	LeagueName   string
	HallName     string
	Street       string
	City         string
	Zip          string
}

// OwnTeamName is the club's side of the match.
func (m ExternalMatch) OwnTeamName() string {
	if m.IsHomeGame {
		return m.HomeTeamName
	}
	return m.AwayTeamName
}

func (m ExternalMatch) OpponentName() string {
	if m.IsHomeGame {
		return m.AwayTeamName
	}
	return m.HomeTeamName
}

// Location folds the feed address into the stored shape: the city
// column carries "<city> <zip>".
func (m ExternalMatch) Location() match.Location {
	return match.Location{
		City:          m.City + " " + m.Zip,
		StreetAddress: m.Street,
		HallName:      m.HallName,
	}
}

// Mismatch categories. A match may sit in several at once.
const (
	FieldTime     = "time"
	FieldHomeGame = "home_game"
	FieldLocation = "location"
)

// fieldComparator is one row of the tracked-field table: adding a new
// tracked field means adding a row here, not new branching.
type fieldComparator struct {
	field   string
	differs func(local match.Match, remote ExternalMatch) bool
}

var trackedFields = []fieldComparator{
	{
		field: FieldTime,
		differs: func(local match.Match, remote ExternalMatch) bool {
			return !local.Time.Equal(remote.StartsAt)
		},
	},
	{
		field: FieldHomeGame,
		differs: func(local match.Match, remote ExternalMatch) bool {
			return local.IsHomeGame != remote.IsHomeGame
		},
	},
	{
		field: FieldLocation,
		differs: func(local match.Match, remote ExternalMatch) bool {
			if local.Location == nil {
				return true
			}
			return *local.Location != remote.Location()
		},
	},
}

// FieldMismatch records one tracked field drifting on one match,
// with the local state before the fix for reporting.
type FieldMismatch struct {
	Field  string
	Remote ExternalMatch
	Before match.Match
}

// Changes is the classification of one feed snapshot against the local
// store: matches to create plus per-field drift on existing ones.
type Changes struct {
	Missing    []ExternalMatch
	Mismatches []FieldMismatch
}

func (c Changes) Field(field string) []FieldMismatch {
	out := make([]FieldMismatch, 0, len(c.Mismatches))
	for _, item := range c.Mismatches {
		if item.Field == field {
			out = append(out, item)
		}
	}
	return out
}

// Updates returns the matches that need a corrective write, deduped by
// id in first-seen order. A match flagged in several categories is
// written once with the full remote field set.
func (c Changes) Updates() []ExternalMatch {
	seen := make(map[string]struct{}, len(c.Mismatches))
	out := make([]ExternalMatch, 0, len(c.Mismatches))
	for _, item := range c.Mismatches {
		if _, ok := seen[item.Remote.ID]; ok {
			continue
		}
		seen[item.Remote.ID] = struct{}{}
		out = append(out, item.Remote)
	}
	return out
}

func (c Changes) Empty() bool {
	return len(c.Missing) == 0 && len(c.Mismatches) == 0
}

// SyncService reconciles the league feed against the local match
// store: fetch, filter, classify, apply, report.
type SyncService struct {
	feed         MatchFeed
	matchRepo    match.Repository
	teamRepo     team.Repository
	settingsRepo settings.Repository
	notifier     Notifier
	tokens       id.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewSyncService(
	feed MatchFeed,
	matchRepo match.Repository,
	teamRepo team.Repository,
	settingsRepo settings.Repository,
	notifier Notifier,
	tokens id.Generator,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if tokens == nil {
		tokens = id.NewRandomGenerator()
	}

	return &SyncService{
		feed:         feed,
		matchRepo:    matchRepo,
		teamRepo:     teamRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		tokens:       tokens,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *SyncService) loadSettings(ctx context.Context) (settings.Settings, error) {
	current, ok, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load sync settings: %w", err)
	}
	if !ok {
		return settings.Defaults(), nil
	}
	return current, nil
}

// Changes runs the read-only half of a cycle: fetch, filter by
// settings and date, classify against the store. Nothing is written.
func (s *SyncService) Changes(ctx context.Context) (Changes, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Changes")
	defer span.End()

	current, err := s.loadSettings(ctx)
	if err != nil {
		return Changes{}, err
	}

	fetched, err := s.feed.FetchMatches(ctx)
	if err != nil {
		return Changes{}, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	filtered := filterBySeason(fetched, current.IncludeRRSync)
	filtered = filterFuture(filtered, s.now())

	return s.classify(ctx, filtered)
}

// filterBySeason drops matches inside the round-robin season window
// (January through June) unless RR sync is included.
func filterBySeason(items []ExternalMatch, includeRR bool) []ExternalMatch {
	if includeRR {
		return items
	}

	out := make([]ExternalMatch, 0, len(items))
	for _, item := range items {
		month := item.StartsAt.Month()
		if month >= time.January && month <= time.June {
			continue
		}
		out = append(out, item)
	}
	return out
}

// filterFuture keeps matches from local midnight of today onward.
func filterFuture(items []ExternalMatch, now time.Time) []ExternalMatch {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]ExternalMatch, 0, len(items))
	for _, item := range items {
		if item.StartsAt.Before(dayStart) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// classify buckets every remote match by id lookup: unknown ids are
// missing, known ids are compared field by field through the tracked
// field table. Read-only.
func (s *SyncService) classify(ctx context.Context, items []ExternalMatch) (Changes, error) {
	var out Changes
	for _, remote := range items {
		local, ok, err := s.matchRepo.GetByID(ctx, remote.ID)
		if err != nil {
			return Changes{}, fmt.Errorf("look up match id=%s: %w", remote.ID, err)
		}
		if !ok {
			out.Missing = append(out.Missing, remote)
			continue
		}

		for _, tracked := range trackedFields {
			if !tracked.differs(local, remote) {
				continue
			}
			out.Mismatches = append(out.Mismatches, FieldMismatch{
				Field:  tracked.field,
				Remote: remote,
				Before: local,
			})
		}
	}

	return out, nil
}
