package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultCollabURL = "https://register-api.xonecloud.com/collaborators/api/v1"
	defaultDeptURL   = "https://register-api.xonecloud.com/departments/api/v1/"
)

// Config aggregates all runtime settings, read once at startup. Nothing in
// the pipeline touches the environment after Load returns.
type Config struct {
	Azure  AzureConfig
	Xone   XoneConfig
	Sync   SyncConfig
	Logger LoggerConfig
}

// AzureConfig holds the Entra ID app registration used for the
// client-credentials token exchange.
type AzureConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	TokenRetries int
	PageSize     int
}

// XoneConfig holds the XoneCloud API token and endpoints. The URLs are
// overridable mainly so tests can point at a local server.
type XoneConfig struct {
	APIToken  string
	CollabURL string
	DeptURL   string
	Lang      string
}

// SyncConfig carries the behavior flags that used to be module-level
// globals in the legacy scripts.
type SyncConfig struct {
	OnlyEnabled              bool
	ExcludeServiceAccounts   bool
	ExcludeWithoutDepartment bool
	NormalizeDepartments     bool

	SendDepartments bool
	DeptDryRun      bool

	SendCollaborators bool
	CollabDryRun      bool
	TestSingleUser    bool
	PerUserMode       bool
	CollabBatchSize   int

	DaemonIntervalMinutes int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible. Credentials are not validated here; call Validate before
// starting a run.
func Load() (*Config, error) {
	cfg := &Config{
		Azure: AzureConfig{
			TenantID:     strings.TrimSpace(os.Getenv("AZ_TENANT_ID")),
			ClientID:     strings.TrimSpace(os.Getenv("AZ_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("AZ_CLIENT_SECRET")),
			TokenRetries: getEnvAsInt("AZ_TOKEN_RETRIES", 3),
			PageSize:     getEnvAsInt("GRAPH_PAGE_SIZE", 999),
		},
		Xone: XoneConfig{
			APIToken:  strings.TrimSpace(os.Getenv("XONE_API_TOKEN")),
			CollabURL: getEnv("XONE_COLLAB_API_URL", defaultCollabURL),
			DeptURL:   getEnv("XONE_DEPT_API_URL", defaultDeptURL),
			Lang:      getEnv("XONE_LANG", "pt-BR"),
		},
		Sync: SyncConfig{
			OnlyEnabled:              getEnvAsBool("ONLY_ENABLED", false),
			ExcludeServiceAccounts:   getEnvAsBool("EXCLUDE_SERVICE_ACCOUNTS", true),
			ExcludeWithoutDepartment: getEnvAsBool("EXCLUDE_WITHOUT_DEPARTMENT", true),
			NormalizeDepartments:     getEnvAsBool("NORMALIZE_DEPARTMENTS", false),
			SendDepartments:          getEnvAsBool("SEND_DEPARTMENTS", true),
			DeptDryRun:               getEnvAsBool("DEPT_DRY_RUN", false),
			SendCollaborators:        getEnvAsBool("SEND_COLLABORATORS", true),
			CollabDryRun:             getEnvAsBool("COLLAB_DRY_RUN", false),
			TestSingleUser:           getEnvAsBool("TEST_SINGLE_USER", false),
			PerUserMode:              getEnvAsBool("COLLAB_PER_USER", false),
			CollabBatchSize:          getEnvAsInt("COLLAB_BATCH_SIZE", 5000),
			DaemonIntervalMinutes:    getEnvAsInt("DAEMON_INTERVAL_MINUTES", 60),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Sync.CollabBatchSize <= 0 {
		return nil, fmt.Errorf("invalid COLLAB_BATCH_SIZE: must be positive")
	}
	if cfg.Azure.PageSize <= 0 || cfg.Azure.PageSize > 999 {
		return nil, fmt.Errorf("invalid GRAPH_PAGE_SIZE: must be in 1..999")
	}

	return cfg, nil
}

// Validate checks that every credential needed for a live run is present.
// The returned error lists all missing variables at once.
func (c *Config) Validate() error {
	var missing []string
	if c.Azure.TenantID == "" {
		missing = append(missing, "AZ_TENANT_ID")
	}
	if c.Azure.ClientID == "" {
		missing = append(missing, "AZ_CLIENT_ID")
	}
	if c.Azure.ClientSecret == "" {
		missing = append(missing, "AZ_CLIENT_SECRET")
	}
	if c.Xone.APIToken == "" {
		missing = append(missing, "XONE_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DaemonInterval returns the configured daemon tick interval.
func (s SyncConfig) DaemonInterval() time.Duration {
	if s.DaemonIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.DaemonIntervalMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
