package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/storefront/pkg/awsx"
)

type fakeSecrets struct {
	creds awsx.SupabaseCredentials
	err   error
}

func (f fakeSecrets) SupabaseCredentials(_ context.Context) (*awsx.SupabaseCredentials, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.creds, nil
}

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, DataBackendREST, cfg.DataBackend)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("SESSION_SECRET", "short")

	_, err := LoadConfig(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadConfig_PostgresBackendNeedsCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("DATA_BACKEND", DataBackendPostgres)

	_, err := LoadConfig(context.Background(), nil)
	assert.Error(t, err)
}

func TestLoadConfig_UnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("DATA_BACKEND", "mongo")

	_, err := LoadConfig(context.Background(), nil)
	assert.ErrorContains(t, err, "unknown DATA_BACKEND")
}

func TestLoadConfig_SecretsOverride(t *testing.T) {
	setRequired(t)
	secrets := fakeSecrets{creds: awsx.SupabaseCredentials{AnonKey: "from-sm", JWTSecret: "jwt-from-sm"}}

	cfg, err := LoadConfig(context.Background(), secrets)
	require.NoError(t, err)
	assert.Equal(t, "from-sm", cfg.SupabaseAnonKey)
	assert.Equal(t, "jwt-from-sm", cfg.SupabaseJWTSecret)
}

func TestLoadConfig_SecretsFailureKeepsEnv(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig(context.Background(), fakeSecrets{err: errors.New("denied")})
	require.NoError(t, err)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{PostgresHost: "db", PostgresUser: "u", PostgresPassword: "p", PostgresDB: "shop", PostgresPort: "5432", PostgresSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=shop port=5432 sslmode=disable", cfg.PostgresDSN())
}
