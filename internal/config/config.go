package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ttc-klingenmuenster/clubsync/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                    string
	ServiceName               string
	ServiceVersion            string
	HTTPAddr                  string
	ReadTimeout               time.Duration
	WriteTimeout              time.Duration
	DBURL                     string
	DBDisablePreparedBinary   bool
	CacheEnabled              bool
	CacheTTL                  time.Duration
	CORSAllowedOrigins        []string
	AdminToken                string
	FeedBaseURL               string
	FeedAPIKey                string
	FeedTimeout               time.Duration
	FeedMaxRetries            int
	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int
	DiscordWebhookURL         string
	DiscordTimeout            time.Duration
	SchedulerEnabled          bool
	SyncInterval              time.Duration
	SyncCycleTimeout          time.Duration
	PprofEnabled              bool
	PprofAddr                 string
	UptraceEnabled            bool
	UptraceDSN                string
	PyroscopeEnabled          bool
	PyroscopeServerAddress    string
	PyroscopeAppName          string
	PyroscopeAuthToken        string
	PyroscopeUploadRate       time.Duration
	LogLevel                  logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	feedTimeout, err := time.ParseDuration(getEnv("FEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	if feedTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_TIMEOUT must be > 0")
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	if feedMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailureCount, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if feedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	feedCircuitOpenTimeout, err := time.ParseDuration(getEnv("FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if feedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	feedCircuitHalfOpenMaxReq, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if feedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	discordTimeout, err := time.ParseDuration(getEnv("DISCORD_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DISCORD_TIMEOUT: %w", err)
	}
	if discordTimeout <= 0 {
		return Config{}, fmt.Errorf("DISCORD_TIMEOUT must be > 0")
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SYNC_SCHEDULER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SCHEDULER_ENABLED: %w", err)
	}
	syncInterval, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_INTERVAL: %w", err)
	}
	if syncInterval <= 0 {
		return Config{}, fmt.Errorf("SYNC_INTERVAL must be > 0")
	}
	syncCycleTimeout, err := time.ParseDuration(getEnv("SYNC_CYCLE_TIMEOUT", "2m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CYCLE_TIMEOUT: %w", err)
	}
	if syncCycleTimeout <= 0 {
		return Config{}, fmt.Errorf("SYNC_CYCLE_TIMEOUT must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "clubsync-api"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                  getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:               readTimeout,
		WriteTimeout:              writeTimeout,
		DBURL:                     strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:   dbDisablePreparedBinary,
		CacheEnabled:              cacheEnabled,
		CacheTTL:                  cacheTTL,
		CORSAllowedOrigins:        splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:                strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
		FeedBaseURL:               strings.TrimSpace(getEnv("FEED_BASE_URL", "https://tt-api.ttc-klingenmuenster.de")),
		FeedAPIKey:                strings.TrimSpace(getEnv("FEED_API_KEY", "")),
		FeedTimeout:               feedTimeout,
		FeedMaxRetries:            feedMaxRetries,
		FeedCircuitEnabled:        feedCircuitEnabled,
		FeedCircuitFailureCount:   feedCircuitFailureCount,
		FeedCircuitOpenTimeout:    feedCircuitOpenTimeout,
		FeedCircuitHalfOpenMaxReq: feedCircuitHalfOpenMaxReq,
		DiscordWebhookURL:         strings.TrimSpace(getEnv("DISCORD_WEBHOOK_URL", "")),
		DiscordTimeout:            discordTimeout,
		SchedulerEnabled:          schedulerEnabled,
		SyncInterval:              syncInterval,
		SyncCycleTimeout:          syncCycleTimeout,
		PprofEnabled:              pprofEnabled,
		PprofAddr:                 pprofAddr,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    pyroscopeServerAddress,
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
		LogLevel:                  parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.FeedBaseURL == "" {
		return Config{}, fmt.Errorf("FEED_BASE_URL cannot be empty")
	}
	if appEnv == EnvProd && cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required when APP_ENV=prod")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
