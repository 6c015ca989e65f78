package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

type Handler struct {
	syncService     *usecase.SyncService
	settingsService *usecase.SettingsService
	teamService     *usecase.TeamService
	matchService    *usecase.MatchService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	syncService *usecase.SyncService,
	settingsService *usecase.SettingsService,
	teamService *usecase.TeamService,
	matchService *usecase.MatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:     syncService,
		settingsService: settingsService,
		teamService:     teamService,
		matchService:    matchService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) PreviewSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewSync")
	defer span.End()

	changes, err := h.syncService.Changes(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "sync preview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, changesToDTO(ctx, changes))
}

func (h *Handler) RunAutoSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAutoSync")
	defer span.End()

	report, err := h.syncService.AutoSync(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "auto sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(ctx, report))
}

func (h *Handler) RunManualSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunManualSync")
	defer span.End()

	var req manualSyncRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.syncService.ManualSync(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "manual sync failed", "ids", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(ctx, report))
}

func (h *Handler) GetSyncSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncSettings")
	defer span.End()

	current, err := h.settingsService.Get(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get sync settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(current))
}

func (h *Handler) UpdateSyncSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSyncSettings")
	defer span.End()

	var req updateSettingsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if req.AutoSync == nil && req.IncludeRRSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: at least one setting must be provided", usecase.ErrInvalidInput))
		return
	}

	current, err := h.settingsService.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.AutoSync != nil {
		current.AutoSync = *req.AutoSync
	}
	if req.IncludeRRSync != nil {
		current.IncludeRRSync = *req.IncludeRRSync
	}

	saved, err := h.settingsService.Update(ctx, current)
	if err != nil {
		h.logger.WarnContext(ctx, "update sync settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settingsToDTO(saved))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	var req createTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.teamService.Create(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) ListTeamMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMatches")
	defer span.End()

	slug := strings.TrimSpace(r.PathValue("slug"))
	if _, err := h.teamService.GetBySlug(ctx, slug); err != nil {
		h.logger.WarnContext(ctx, "list team matches failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.ListByTeam(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "list team matches failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type manualSyncRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type updateSettingsRequest struct {
	AutoSync      *bool `json:"autoSync"`
	IncludeRRSync *bool `json:"includeRRSync"`
}

type createTeamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type settingsDTO struct {
	AutoSync      bool `json:"autoSync"`
	IncludeRRSync bool `json:"includeRRSync"`
}

type teamDTO struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	GroupIndex  int    `json:"groupIndex"`
	InviteToken string `json:"inviteToken"`
}

type locationDTO struct {
	City          string `json:"city"`
	StreetAddress string `json:"streetAddress"`
	HallName      string `json:"hallName"`
}

type matchDTO struct {
	ID         string       `json:"id"`
	Time       string       `json:"time"`
	IsHomeGame bool         `json:"isHomeGame"`
	Type       string       `json:"type"`
	EnemyName  string       `json:"enemyName"`
	TeamSlug   string       `json:"teamSlug"`
	Location   *locationDTO `json:"location,omitempty"`
}

type externalMatchDTO struct {
	ID           string      `json:"id"`
	StartsAt     string      `json:"startsAt"`
	IsHomeGame   bool        `json:"isHomeGame"`
	HomeTeamName string      `json:"homeTeamName"`
	AwayTeamName string      `json:"awayTeamName"`
	LeagueName   string      `json:"leagueName"`
	Location     locationDTO `json:"location"`
}

type fieldMismatchDTO struct {
	Field  string           `json:"field"`
	Remote externalMatchDTO `json:"remote"`
	Before matchDTO         `json:"before"`
}

type changesDTO struct {
	Missing    []externalMatchDTO `json:"missing"`
	Mismatches []fieldMismatchDTO `json:"mismatches"`
	Empty      bool               `json:"empty"`
}

type syncReportDTO struct {
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Failed  []externalMatchDTO `json:"failed"`
	Skipped bool               `json:"skipped"`
	Report  string             `json:"report"`
}

func settingsToDTO(v settings.Settings) settingsDTO {
	return settingsDTO{
		AutoSync:      v.AutoSync,
		IncludeRRSync: v.IncludeRRSync,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		Slug:        v.Slug,
		Name:        v.Name,
		Type:        v.Type,
		GroupIndex:  v.GroupIndex,
		InviteToken: v.InviteToken,
	}
}

func matchToDTO(v match.Match) matchDTO {
	dto := matchDTO{
		ID:         v.ID,
		Time:       v.Time.UTC().Format(time.RFC3339),
		IsHomeGame: v.IsHomeGame,
		Type:       v.Type,
		EnemyName:  v.EnemyName,
		TeamSlug:   v.TeamSlug,
	}
	if v.Location != nil {
		dto.Location = &locationDTO{
			City:          v.Location.City,
			StreetAddress: v.Location.StreetAddress,
			HallName:      v.Location.HallName,
		}
	}
	return dto
}

func externalMatchToDTO(v usecase.ExternalMatch) externalMatchDTO {
	loc := v.Location()
	return externalMatchDTO{
		ID:           v.ID,
		StartsAt:     v.StartsAt.UTC().Format(time.RFC3339),
		IsHomeGame:   v.IsHomeGame,
		HomeTeamName: v.HomeTeamName,
		AwayTeamName: v.AwayTeamName,
		LeagueName:   v.LeagueName,
		Location: locationDTO{
			City:          loc.City,
			StreetAddress: loc.StreetAddress,
			HallName:      loc.HallName,
		},
	}
}

func changesToDTO(ctx context.Context, v usecase.Changes) changesDTO {
	ctx, span := startSpan(ctx, "httpapi.changesToDTO")
	defer span.End()

	missing := make([]externalMatchDTO, 0, len(v.Missing))
	for _, item := range v.Missing {
		missing = append(missing, externalMatchToDTO(item))
	}

	mismatches := make([]fieldMismatchDTO, 0, len(v.Mismatches))
	for _, item := range v.Mismatches {
		mismatches = append(mismatches, fieldMismatchDTO{
			Field:  item.Field,
			Remote: externalMatchToDTO(item.Remote),
			Before: matchToDTO(item.Before),
		})
	}

	return changesDTO{
		Missing:    missing,
		Mismatches: mismatches,
		Empty:      v.Empty(),
	}
}

func reportToDTO(ctx context.Context, v usecase.SyncReport) syncReportDTO {
	ctx, span := startSpan(ctx, "httpapi.reportToDTO")
	defer span.End()

	failed := make([]externalMatchDTO, 0, len(v.Failed))
	for _, item := range v.Failed {
		failed = append(failed, externalMatchToDTO(item))
	}

	return syncReportDTO{
		Created: len(v.Created),
		Updated: v.Updated,
		Failed:  failed,
		Skipped: v.Skipped,
		Report:  v.Render(),
	}
}
