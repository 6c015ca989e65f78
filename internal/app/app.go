package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/ttc-klingenmuenster/clubsync/external/discord"
	"github.com/ttc-klingenmuenster/clubsync/external/ttapi"
	"github.com/ttc-klingenmuenster/clubsync/internal/config"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/match"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/settings"
	"github.com/ttc-klingenmuenster/clubsync/internal/domain/team"
	cacherepo "github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/cache"
	"github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/memory"
	"github.com/ttc-klingenmuenster/clubsync/internal/infrastructure/repository/postgres"
	"github.com/ttc-klingenmuenster/clubsync/internal/interfaces/httpapi"
	basecache "github.com/ttc-klingenmuenster/clubsync/internal/platform/cache"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
	"github.com/ttc-klingenmuenster/clubsync/internal/platform/resilience"
	"github.com/ttc-klingenmuenster/clubsync/internal/usecase"
)

// App bundles the wired service: HTTP server, background sync
// scheduler and the resources both share.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler
	Sync      *usecase.SyncService

	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		matchRepo    match.Repository
		teamRepo     team.Repository
		settingsRepo settings.Repository
		db           *sqlx.DB
	)

	if cfg.DBURL != "" {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		matchRepo = postgres.NewMatchRepository(db)
		teamRepo = postgres.NewTeamRepository(db)
		settingsRepo = postgres.NewSettingsRepository(db)
		logger.Info("storage ready", "backend", "postgres", "db", dbNameFromURL(cfg.DBURL))
	} else {
		matchRepo = memory.NewMatchRepository(nil)
		teamRepo = memory.NewTeamRepository(memory.SeedTeams())
		settingsRepo = memory.NewSettingsRepository()
		logger.Info("storage ready", "backend", "memory")
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		settingsRepo = cacherepo.NewSettingsRepository(settingsRepo, store)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, store)
	}

	feed := ttapi.NewClient(ttapi.ClientConfig{
		BaseURL:    cfg.FeedBaseURL,
		APIKey:     cfg.FeedAPIKey,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	var notifier usecase.Notifier
	if cfg.DiscordWebhookURL != "" {
		notifier = discord.NewNotifier(discord.NotifierConfig{
			WebhookURL: cfg.DiscordWebhookURL,
			Timeout:    cfg.DiscordTimeout,
			Logger:     logger,
		})
	} else {
		logger.Info("discord notifications disabled", "reason", "DISCORD_WEBHOOK_URL empty")
	}

	syncSvc := usecase.NewSyncService(feed, matchRepo, teamRepo, settingsRepo, notifier, nil, logger)
	settingsSvc := usecase.NewSettingsService(settingsRepo, logger)
	teamSvc := usecase.NewTeamService(teamRepo, nil, logger)
	matchSvc := usecase.NewMatchService(matchRepo, logger)

	handler := httpapi.NewHandler(syncSvc, settingsSvc, teamSvc, matchSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var scheduler *Scheduler
	if cfg.SchedulerEnabled {
		scheduler = NewScheduler(syncSvc, cfg.SyncInterval, cfg.SyncCycleTimeout, logger)
	}

	return &App{
		Server:    server,
		Scheduler: scheduler,
		Sync:      syncSvc,
		db:        db,
		logger:    logger,
	}, nil
}

// Close releases resources not owned by the HTTP server.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
