package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Snapshot store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

const (
	defaultRetentionTemplate = "Olá {{responsavel}}, sentimos falta de {{estudante}} nas aulas de {{curso}} na unidade {{unidade}}. Está tudo bem? Podemos ajudar a retomar a rotina?"
	defaultTrialTemplate     = "Olá {{responsavel}}! Confirmamos a aula experimental de {{estudante}} em {{curso}} na unidade {{unidade}}. Qualquer dúvida, estamos à disposição."
	defaultGeneralTemplate   = "Olá {{responsavel}}, aqui é da unidade {{unidade}}. Gostaríamos de falar sobre {{estudante}}."
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log       LogConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Remote    RemoteConfig
	Messaging MessagingConfig
	Templates TemplatesConfig
	Store     StoreConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Sync      SyncConfig
	Seed      SeedConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// RemoteConfig points at the spreadsheet script endpoint and tunes background pushes.
type RemoteConfig struct {
	ScriptURL      string
	Timeout        time.Duration
	PushWorkers    int
	PushRetries    int
	PushRetryDelay time.Duration
}

// MessagingConfig configures the WhatsApp webhook. Empty URL or token means link fallback.
type MessagingConfig struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// TemplatesConfig carries the default outreach templates.
type TemplatesConfig struct {
	Retention string
	Trial     string
	General   string
}

// StoreConfig selects the backend of the local persistence cache.
type StoreConfig struct {
	Driver    string
	Dir       string
	KeyPrefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// SyncConfig governs startup sync and how long a failure notice stays visible.
type SyncConfig struct {
	OnStartup bool
	NoticeTTL time.Duration
}

// SeedConfig holds the fallback admin used when no user list could be loaded.
type SeedConfig struct {
	AdminLogin    string
	AdminPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Remote = RemoteConfig{
		ScriptURL:      strings.TrimSpace(v.GetString("REMOTE_SCRIPT_URL")),
		Timeout:        parseDuration(v.GetString("REMOTE_TIMEOUT"), 30*time.Second),
		PushWorkers:    v.GetInt("REMOTE_PUSH_WORKERS"),
		PushRetries:    v.GetInt("REMOTE_PUSH_RETRIES"),
		PushRetryDelay: parseDuration(v.GetString("REMOTE_PUSH_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Messaging = MessagingConfig{
		WebhookURL: strings.TrimSpace(v.GetString("MESSAGING_WEBHOOK_URL")),
		Token:      strings.TrimSpace(v.GetString("MESSAGING_TOKEN")),
		Timeout:    parseDuration(v.GetString("MESSAGING_TIMEOUT"), 10*time.Second),
	}

	cfg.Templates = TemplatesConfig{
		Retention: v.GetString("TEMPLATE_RETENTION"),
		Trial:     v.GetString("TEMPLATE_TRIAL"),
		General:   v.GetString("TEMPLATE_GENERAL"),
	}

	cfg.Store = StoreConfig{
		Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		Dir:       v.GetString("STORE_DIR"),
		KeyPrefix: v.GetString("STORE_KEY_PREFIX"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Sync = SyncConfig{
		OnStartup: v.GetBool("SYNC_ON_STARTUP"),
		NoticeTTL: parseDuration(v.GetString("SYNC_NOTICE_TTL"), 5*time.Second),
	}

	cfg.Seed = SeedConfig{
		AdminLogin:    v.GetString("DEFAULT_ADMIN_LOGIN"),
		AdminPassword: v.GetString("DEFAULT_ADMIN_PASSWORD"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "sports-school-ops")

	v.SetDefault("REMOTE_SCRIPT_URL", "")
	v.SetDefault("REMOTE_TIMEOUT", "30s")
	v.SetDefault("REMOTE_PUSH_WORKERS", 2)
	v.SetDefault("REMOTE_PUSH_RETRIES", 3)
	v.SetDefault("REMOTE_PUSH_RETRY_DELAY", "2s")

	v.SetDefault("MESSAGING_WEBHOOK_URL", "")
	v.SetDefault("MESSAGING_TOKEN", "")
	v.SetDefault("MESSAGING_TIMEOUT", "10s")

	v.SetDefault("TEMPLATE_RETENTION", defaultRetentionTemplate)
	v.SetDefault("TEMPLATE_TRIAL", defaultTrialTemplate)
	v.SetDefault("TEMPLATE_GENERAL", defaultGeneralTemplate)

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("STORE_KEY_PREFIX", "dashboard:")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_ops")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("SYNC_ON_STARTUP", true)
	v.SetDefault("SYNC_NOTICE_TTL", "5s")

	v.SetDefault("DEFAULT_ADMIN_LOGIN", "admin")
	v.SetDefault("DEFAULT_ADMIN_PASSWORD", "admin")
}

// viper reports a missing explicit config file as a path error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
