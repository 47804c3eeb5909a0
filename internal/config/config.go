package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	StorageBackend string
	DBURL          string

	CORSAllowedOrigins []string
	AdminAccountIDs    []string
	InternalJobToken   string

	ReportConfirmTTL time.Duration
	MatchEditGrace   time.Duration

	GatekeeperBaseURL             string
	GatekeeperTimeout             time.Duration
	GatekeeperCacheTTL            time.Duration
	GatekeeperCacheMaxEntries     int
	GatekeeperCircuitEnabled      bool
	GatekeeperCircuitFailureCount int
	GatekeeperCircuitOpenTimeout  time.Duration
	GatekeeperCircuitHalfOpenReq  int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storageBackend, err := parseStorageBackend(getEnv("STORAGE_BACKEND", StorageMemory))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageBackend == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_BACKEND=%s", StoragePostgres)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	reportConfirmTTL, err := time.ParseDuration(getEnv("REPORT_CONFIRM_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_CONFIRM_TTL: %w", err)
	}
	if reportConfirmTTL <= 0 {
		return Config{}, fmt.Errorf("REPORT_CONFIRM_TTL must be > 0")
	}

	matchEditGrace, err := time.ParseDuration(getEnv("MATCH_EDIT_GRACE", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_EDIT_GRACE: %w", err)
	}
	if matchEditGrace <= 0 {
		return Config{}, fmt.Errorf("MATCH_EDIT_GRACE must be > 0")
	}

	gatekeeperTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_TIMEOUT: %w", err)
	}
	if gatekeeperTimeout <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_TIMEOUT must be > 0")
	}
	gatekeeperCacheTTL, err := time.ParseDuration(getEnv("GATEKEEPER_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CACHE_TTL: %w", err)
	}
	if gatekeeperCacheTTL <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CACHE_TTL must be > 0")
	}
	gatekeeperCacheMaxEntries, err := getEnvAsInt("GATEKEEPER_CACHE_MAX_ENTRIES", 4096)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CACHE_MAX_ENTRIES: %w", err)
	}
	if gatekeeperCacheMaxEntries < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CACHE_MAX_ENTRIES must be >= 1")
	}
	gatekeeperCircuitEnabled, err := strconv.ParseBool(getEnv("GATEKEEPER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_ENABLED: %w", err)
	}
	gatekeeperCircuitFailureCount, err := getEnvAsInt("GATEKEEPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if gatekeeperCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	gatekeeperCircuitOpenTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if gatekeeperCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	gatekeeperCircuitHalfOpenReq, err := getEnvAsInt("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if gatekeeperCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "club-ladder-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		StorageBackend: storageBackend,
		DBURL:          dbURL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminAccountIDs:    splitCSV(getEnv("ADMIN_ACCOUNT_IDS", "")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		ReportConfirmTTL: reportConfirmTTL,
		MatchEditGrace:   matchEditGrace,

		GatekeeperBaseURL:             getEnv("GATEKEEPER_BASE_URL", "http://localhost:8081"),
		GatekeeperTimeout:             gatekeeperTimeout,
		GatekeeperCacheTTL:            gatekeeperCacheTTL,
		GatekeeperCacheMaxEntries:     gatekeeperCacheMaxEntries,
		GatekeeperCircuitEnabled:      gatekeeperCircuitEnabled,
		GatekeeperCircuitFailureCount: gatekeeperCircuitFailureCount,
		GatekeeperCircuitOpenTimeout:  gatekeeperCircuitOpenTimeout,
		GatekeeperCircuitHalfOpenReq:  gatekeeperCircuitHalfOpenReq,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStorageBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case StorageMemory, StoragePostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORAGE_BACKEND %q: valid values are %s, %s", v, StorageMemory, StoragePostgres)
	}
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
