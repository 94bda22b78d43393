package config

import (
	"errors"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the bootstrap.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ErrMissingSecret is returned when no JWT signing secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Config centralises runtime configuration.
type Config struct {
	HTTPPort        string
	StorageDriver   string
	DatabaseURL     string
	Token           Token
	BcryptCost      int
	AdminEmail      string
	AdminPassword   string
	AllowedOrigins  []string
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	LogLevel        string
	LogFormat       string
}

// Token holds the signing material and claim settings for access tokens.
// It is built once at startup and handed to the token service by value.
type Token struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Load reads configuration from the environment (and an optional .env file)
// providing sane defaults.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "ai-entrepreneur")
	v.SetDefault("JWT_EXPIRES_IN", 3600)
	v.SetDefault("BCRYPT_COST", 0)
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("HTTP_READ_TIMEOUT", 15)
	v.SetDefault("HTTP_WRITE_TIMEOUT", 15)
	v.SetDefault("HTTP_IDLE_TIMEOUT", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	httpPort := v.GetString("HTTP_PORT")
	if httpPort == "" {
		httpPort = v.GetString("PORT")
	}

	cfg := Config{
		HTTPPort:      httpPort,
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		Token: Token{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
			TTL:    time.Duration(v.GetInt64("JWT_EXPIRES_IN")) * time.Second,
		},
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		AdminEmail:      strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		AllowedOrigins:  splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		ReadTimeoutSec:  v.GetInt("HTTP_READ_TIMEOUT"),
		WriteTimeoutSec: v.GetInt("HTTP_WRITE_TIMEOUT"),
		IdleTimeoutSec:  v.GetInt("HTTP_IDLE_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		cfg.DatabaseURL = resolveDatabaseURL()
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database configuration missing: provide DATABASE_URL or PG* env vars")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.Token.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	if cfg.Token.TTL <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be a positive number of seconds")
	}
	return cfg, nil
}

func splitCSV(value string) []string {
	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func resolveDatabaseURL() string {
	for _, key := range []string{"DATABASE_URL", "POSTGRES_URL", "PGURL"} {
		if url := os.Getenv(key); url != "" {
			if coerced := coerceDatabaseURL(url); coerced != "" {
				return coerced
			}
		}
	}

	if urlFromFile := readEnvFile("DATABASE_URL_FILE"); urlFromFile != "" {
		if coerced := coerceDatabaseURL(urlFromFile); coerced != "" {
			return coerced
		}
	}

	host := firstNonEmpty(os.Getenv("PGHOST"), os.Getenv("POSTGRES_HOST"), os.Getenv("DATABASE_HOST"))
	user := firstNonEmpty(os.Getenv("PGUSER"), os.Getenv("POSTGRES_USER"), os.Getenv("DATABASE_USER"))
	password := firstNonEmpty(os.Getenv("PGPASSWORD"), os.Getenv("POSTGRES_PASSWORD"), os.Getenv("DATABASE_PASSWORD"))
	database := firstNonEmpty(os.Getenv("PGDATABASE"), os.Getenv("POSTGRES_DB"), os.Getenv("DATABASE_NAME"))
	port := firstNonEmpty(os.Getenv("PGPORT"), os.Getenv("POSTGRES_PORT"), os.Getenv("DATABASE_PORT"), "5432")
	sslMode := firstNonEmpty(os.Getenv("PGSSLMODE"), os.Getenv("POSTGRES_SSL_MODE"), "disable")

	if host == "" || user == "" {
		return ""
	}
	if database == "" {
		database = user
	}

	dsn := &neturl.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
		User:   neturl.User(user),
	}
	if password != "" {
		dsn.User = neturl.UserPassword(user, password)
	}

	query := dsn.Query()
	query.Set("sslmode", sslMode)
	dsn.RawQuery = query.Encode()

	return dsn.String()
}

func coerceDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"):
		return raw
	case strings.HasPrefix(raw, "postgresql://"):
		return "postgres://" + strings.TrimPrefix(raw, "postgresql://")
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func readEnvFile(key string) string {
	path := os.Getenv(key)
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// loadDotEnv populates the process environment from path without
// overriding variables that are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}
