package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
)

// AutoSync runs one full reconciliation cycle: settings gate, fetch,
// filter, classify, create missing, update drifted, report, notify.
// A disabled auto-sync toggle exits before any side effect.
func (s *SyncService) AutoSync(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.AutoSync")
	defer span.End()

	current, err := s.loadSettings(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	if !current.AutoSync {
		s.logger.InfoContext(ctx, "auto sync disabled, skipping cycle")
		return SyncReport{Skipped: true}, nil
	}

	changes, err := s.Changes(ctx)
	if err != nil {
		return SyncReport{}, err
	}

	report, err := s.apply(ctx, changes)
	if err != nil {
		return SyncReport{}, err
	}

	s.notify(ctx, report)
	return report, nil
}

func (s *SyncService) apply(ctx context.Context, changes Changes) (SyncReport, error) {
	report, err := s.applyMissing(ctx, changes.Missing)
	if err != nil {
		return SyncReport{}, err
	}

	updated, err := s.applyUpdates(ctx, changes.Updates())
	if err != nil {
		return SyncReport{}, err
	}
	report.Updated = updated

	return report, nil
}

// applyMissing creates one local match per missing remote match. Team
// lookup runs against a single batch load, keyed by the slug of the
// club's side of each match. Per-match failures land in the failed
// list and never abort the batch.
func (s *SyncService) applyMissing(ctx context.Context, missing []ExternalMatch) (SyncReport, error) {
	var report SyncReport
	if len(missing) == 0 {
		return report, nil
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("load teams: %w", err)
	}
	bySlug := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		bySlug[t.Slug] = t
	}

	for _, remote := range missing {
		slug := team.Slugify(remote.OwnTeamName())
		owner, ok := bySlug[slug]
		if !ok {
			s.logger.WarnContext(ctx, "no team for remote match, recording failure",
				"matchId", remote.ID, "teamSlug", slug)
			report.Failed = append(report.Failed, remote)
			continue
		}

		if err := s.createFromRemote(ctx, remote, owner.Slug); err != nil {
			if errors.Is(err, match.ErrDuplicateID) {
				s.logger.WarnContext(ctx, "duplicate match id on create, recording failure",
					"matchId", remote.ID, "error", err)
				report.Failed = append(report.Failed, remote)
				continue
			}
			return SyncReport{}, fmt.Errorf("create match id=%s: %w", remote.ID, err)
		}
		report.Created = append(report.Created, remote)
	}

	return report, nil
}

func (s *SyncService) createFromRemote(ctx context.Context, remote ExternalMatch, teamSlug string) error {
	loc := remote.Location()
	m := match.Match{
		ID:         remote.ID,
		Time:       remote.StartsAt,
		IsHomeGame: remote.IsHomeGame,
		Type:       match.DeriveType(remote.LeagueName),
		EnemyName:  remote.OpponentName(),
		TeamSlug:   teamSlug,
		Location:   &loc,
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.matchRepo.Create(ctx, m)
}

// applyUpdates writes the full remote field set for every drifted
// match. Convergent: a second pass over the same snapshot is a no-op.
func (s *SyncService) applyUpdates(ctx context.Context, updates []ExternalMatch) (int, error) {
	for _, remote := range updates {
		loc := remote.Location()
		fields := match.Update{
			Time:       remote.StartsAt,
			IsHomeGame: remote.IsHomeGame,
			Location:   &loc,
		}
		if err := s.matchRepo.Update(ctx, remote.ID, fields); err != nil {
			return 0, fmt.Errorf("update match id=%s: %w", remote.ID, err)
		}
	}
	return len(updates), nil
}

// ManualSync reconciles an explicit id list against the feed,
// re-deriving team identity from the naming convention for each match.
// Unlike the automatic path it may create the owning team.
func (s *SyncService) ManualSync(ctx context.Context, ids []string) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ManualSync")
	defer span.End()

	if len(ids) == 0 {
		return SyncReport{}, fmt.Errorf("%w: no match ids given", ErrInvalidInput)
	}

	fetched, err := s.feed.FetchMatches(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	byID := make(map[string]ExternalMatch, len(fetched))
	for _, item := range fetched {
		byID[item.ID] = item
	}

	var report SyncReport
	for _, id := range ids {
		remote, ok := byID[id]
		if !ok {
			s.logger.WarnContext(ctx, "match id not in feed, skipping", "matchId", id)
			continue
		}

		_, exists, err := s.matchRepo.GetByID(ctx, remote.ID)
		if err != nil {
			return SyncReport{}, fmt.Errorf("look up match id=%s: %w", remote.ID, err)
		}
		if exists {
			loc := remote.Location()
			fields := match.Update{
				Time:       remote.StartsAt,
				IsHomeGame: remote.IsHomeGame,
				Location:   &loc,
			}
			if err := s.matchRepo.Update(ctx, remote.ID, fields); err != nil {
				return SyncReport{}, fmt.Errorf("update match id=%s: %w", remote.ID, err)
			}
			report.Updated++
			continue
		}

		owner, err := s.ensureTeam(ctx, remote.OwnTeamName())
		if err != nil {
			if errors.Is(err, team.ErrUnrecognizedName) {
				s.logger.WarnContext(ctx, "unparseable team name, recording failure",
					"matchId", remote.ID, "teamName", remote.OwnTeamName())
				report.Failed = append(report.Failed, remote)
				continue
			}
			return SyncReport{}, err
		}

		if err := s.createFromRemote(ctx, remote, owner.Slug); err != nil {
			if errors.Is(err, match.ErrDuplicateID) {
				report.Failed = append(report.Failed, remote)
				continue
			}
			return SyncReport{}, fmt.Errorf("create match id=%s: %w", remote.ID, err)
		}
		report.Created = append(report.Created, remote)
	}

	return report, nil
}

// ensureTeam resolves a team by the canonical slug of its feed name,
// creating it from the parsed naming convention when absent.
func (s *SyncService) ensureTeam(ctx context.Context, name string) (team.Team, error) {
	slug := team.Slugify(name)
	existing, ok, err := s.teamRepo.GetBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, fmt.Errorf("look up team slug=%s: %w", slug, err)
	}
	if ok {
		return existing, nil
	}

	teamType, groupIndex, err := team.ParseName(name)
	if err != nil {
		return team.Team{}, err
	}

	token, err := s.tokens.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate invite token: %w", err)
	}

	created := team.Team{
		Slug:        slug,
		Name:        name,
		Type:        teamType,
		GroupIndex:  groupIndex,
		InviteToken: token,
	}
	if err := s.teamRepo.Create(ctx, created); err != nil {
		return team.Team{}, fmt.Errorf("create team slug=%s: %w", slug, err)
	}
	s.logger.InfoContext(ctx, "created team from feed name", "slug", slug, "type", teamType)
	return created, nil
}

func (s *SyncService) notify(ctx context.Context, report SyncReport) {
	if s.notifier == nil || report.Skipped {
		return
	}
	if err := s.notifier.Send(ctx, report.Render()); err != nil {
		s.logger.ErrorContext(ctx, "sync report delivery failed", "error", err)
	}
}
