package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yashrajoria/storefront/pkg/awsx"
)

const (
	DataBackendREST     = "rest"
	DataBackendPostgres = "postgres"
)

// Config holds all configuration for the storefront.
type Config struct {
	Port string
	Env  string

	// Managed backend
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	RemoteTimeout     time.Duration
	DataBackend       string

	// Direct Postgres, used when DataBackend is "postgres"
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	// Session cookie and cart persistence
	SessionSecret string
	SessionMaxAge int
	RedisURL      string
	CartTTL       time.Duration

	// AWS integrations, each optional
	OrderSNSTopicARN   string
	CatalogSNSTopicARN string
	ProductImageBucket string
	ProductImageURL    string
	PresignExpiry      time.Duration
	CloudWatchEnabled  bool
	CloudWatchLogGroup string

	AllowedOrigins []string
}

// CredentialSource supplies backend credentials that override the environment.
type CredentialSource interface {
	SupabaseCredentials(ctx context.Context) (*awsx.SupabaseCredentials, error)
}

// LoadConfig reads configuration from .env and the environment. When secrets is
// non-nil, Supabase credentials are overridden from Secrets Manager.
func LoadConfig(ctx context.Context, secrets CredentialSource) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		SupabaseURL:        strings.TrimSuffix(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		RemoteTimeout:      getDuration("REMOTE_TIMEOUT", 10*time.Second),
		DataBackend:        getEnv("DATA_BACKEND", DataBackendREST),
		PostgresUser:       os.Getenv("POSTGRES_USER"),
		PostgresPassword:   os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:         getEnv("POSTGRES_DB", "postgres"),
		PostgresHost:       os.Getenv("POSTGRES_HOST"),
		PostgresPort:       getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:    getEnv("POSTGRES_SSLMODE", "require"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionMaxAge:      getInt("SESSION_MAX_AGE", 86400*30),
		RedisURL:           os.Getenv("REDIS_URL"),
		CartTTL:            getDuration("CART_TTL", 7*24*time.Hour),
		OrderSNSTopicARN:   os.Getenv("ORDER_SNS_TOPIC_ARN"),
		CatalogSNSTopicARN: os.Getenv("CATALOG_SNS_TOPIC_ARN"),
		ProductImageBucket: os.Getenv("PRODUCT_IMAGE_BUCKET"),
		ProductImageURL:    strings.TrimSuffix(os.Getenv("PRODUCT_IMAGE_BASE_URL"), "/"),
		PresignExpiry:      getDuration("PRESIGN_EXPIRY", 15*time.Minute),
		CloudWatchEnabled:  os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup: getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/web"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if secrets != nil {
		if err := applySupabaseSecret(ctx, cfg, secrets); err != nil {
			log.Printf("Secrets Manager override skipped: %v", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(c.SessionSecret) < 32 {
		missing = append(missing, "SESSION_SECRET (32+ bytes)")
	}
	if c.DataBackend == DataBackendPostgres && (c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresHost == "") {
		missing = append(missing, "POSTGRES_USER/POSTGRES_PASSWORD/POSTGRES_HOST")
	}
	if c.DataBackend != DataBackendREST && c.DataBackend != DataBackendPostgres {
		return fmt.Errorf("unknown DATA_BACKEND %q", c.DataBackend)
	}
	if len(missing) > 0 {
		return fmt.Errorf("config incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// PostgresDSN builds the connection string for the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

func applySupabaseSecret(ctx context.Context, cfg *Config, secrets CredentialSource) error {
	creds, err := secrets.SupabaseCredentials(ctx)
	if err != nil {
		return err
	}
	if creds.AnonKey != "" {
		cfg.SupabaseAnonKey = creds.AnonKey
	}
	if creds.JWTSecret != "" {
		cfg.SupabaseJWTSecret = creds.JWTSecret
	}
	if creds.SessionSecret != "" {
		cfg.SessionSecret = creds.SessionSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(strings.TrimSuffix(o, "/")); o != "" {
			out = append(out, o)
		}
	}
	return out
}
