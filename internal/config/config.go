package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Treasurer TreasurerConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// DatabaseConfig selects the store. Driver is "sqlite" (default) or "postgres".
type DatabaseConfig struct {
	Driver string
	// Path is the SQLite database file, or a "file:...?mode=memory" URI
	Path            string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate applies pending migrations when the API starts
	AutoMigrate bool
}

// AuthConfig configures admin session tokens
type AuthConfig struct {
	JWTSecret string
	// TokenTTL is the session lifetime in minutes, 0 disables expiry
	TokenTTL int
	Issuer   string
	// APIKey grants admin access to automation clients via the x-api-key header
	APIKey string
}

// TreasurerConfig holds domain defaults
type TreasurerConfig struct {
	// FlatRate is the initial one-click contribution amount
	FlatRate float64
	Currency string
	// PublicBaseURL is prepended to "?group=<name>" when building shareable links
	PublicBaseURL string
	// RecentLimit is how many recent entries the public summary shows
	RecentLimit int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	EnableSwagger   bool
	EnableMetrics   bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the per-IP limit applied to every request
	RequestsPerMinute int
	// LoginAttemptsPerMinute is the per-IP limit on the login and register endpoints
	LoginAttemptsPerMinute int
	WhitelistIPs           []string
	WhitelistPaths         []string
}

// JobsConfig controls background jobs
type JobsConfig struct {
	ExportSnapshotEnabled bool
	// ExportSnapshotCron uses the six-field format (with seconds)
	ExportSnapshotCron    string
	ExportSnapshotTimeout int // seconds
}

// IsMemory reports whether the SQLite path points at an in-memory database
func (d *DatabaseConfig) IsMemory() bool {
	return d.Path == ":memory:" || strings.Contains(d.Path, "mode=memory")
}

// SQLiteDSN builds the go-sqlite3 DSN. LIKE is made case-sensitive so member
// lookups behave the same on SQLite and PostgreSQL.
func (d *DatabaseConfig) SQLiteDSN() string {
	dsn := d.Path
	if dsn == ":memory:" {
		dsn = "file::memory:"
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_cslike=true&_busy_timeout=5000"
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TokenTTLDuration returns the session lifetime, zero meaning no expiry
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// ShutdownTimeoutDuration returns graceful shutdown timeout as duration
func (s *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// ExportSnapshotTimeoutDuration returns the per-run timeout of the snapshot job
func (j *JobsConfig) ExportSnapshotTimeoutDuration() time.Duration {
	return time.Duration(j.ExportSnapshotTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if path := v.GetString("DB_PATH"); path != "" {
		cfg.Database.Path = path
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from Azure Key Vault
// when USE_AZURE_KEY_VAULT=true and the environment is staging or production.
// Otherwise secrets come from the environment.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault || !isValidEnv {
		logger.Info("Using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, cfg.validateSecrets()
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	if secret, err := provider.GetSecretOrEnv(ctx, secrets.JWTSecretName, "JWT_SECRET"); err == nil && secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if apiKey, err := provider.GetSecretOrEnv(ctx, secrets.AdminAPIKeyName, "ADMIN_API_KEY"); err == nil && apiKey != "" {
		cfg.Auth.APIKey = apiKey
	}
	if cfg.Database.Driver == "postgres" {
		if password, err := provider.GetSecretOrEnv(ctx, secrets.DatabasePasswordName, "DATABASE_PASSWORD"); err == nil && password != "" {
			cfg.Database.Password = password
		}
	}
	if cfg.Storage.Mode == "azure" || cfg.Storage.Mode == "cloud" {
		if connStr, err := provider.GetSecretOrEnv(ctx, secrets.StorageConnectionName, "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
			cfg.Storage.CloudConnectionString = connStr
		}
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, cfg.validateSecrets()
}

func (c *Config) validateSecrets() error {
	if c.Auth.JWTSecret == "" {
		if c.App.Environment == "production" || c.App.Environment == "staging" {
			return fmt.Errorf("JWT_SECRET is required in %s", c.App.Environment)
		}
		c.Auth.JWTSecret = "dev-insecure-secret"
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Digital Treasurer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "contributions.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "treasurer")
	v.SetDefault("database.user", "treasurer")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("auth.tokenTTL", 24*60)
	v.SetDefault("auth.issuer", "digital-treasurer")

	v.SetDefault("treasurer.flatRate", 200.0)
	v.SetDefault("treasurer.currency", "KES")
	v.SetDefault("treasurer.recentLimit", 5)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./snapshots")
	v.SetDefault("storage.cloudContainer", "treasurer-snapshots")

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.shutdownTimeout", 30)
	v.SetDefault("server.enableSwagger", true)
	v.SetDefault("server.enableMetrics", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.loginAttemptsPerMinute", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready", "/metrics"})

	v.SetDefault("jobs.exportSnapshotEnabled", false)
	v.SetDefault("jobs.exportSnapshotCron", "0 0 2 * * *")
	v.SetDefault("jobs.exportSnapshotTimeout", 300)
}
