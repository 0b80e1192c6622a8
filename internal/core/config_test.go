package core

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreboard/internal/csp"
)

func TestLoad_Defaults(t *testing.T) {
	SetOutput(io.Discard)
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "CSP_POLICY", "EXTEND_CSP_POLICY", "SESSION_EXPIRATION_SECONDS", "COUNT_QUERIES", "DB_DRIVER", "TRUSTED_PROXIES", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.False(t, cfg.CountQueries)
	assert.Zero(t, cfg.SessionExpiration())
	assert.Nil(t, cfg.CSPPolicy)
	assert.Nil(t, cfg.ExtendCSPPolicy)
	assert.Nil(t, cfg.TrustedProxies)
	assert.NotEmpty(t, cfg.SessionKey)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	SetOutput(io.Discard)
	t.Setenv("SESSION_EXPIRATION_SECONDS", "3600")
	t.Setenv("COUNT_QUERIES", "true")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")
	t.Setenv("EXTEND_CSP_POLICY", `{"script-src": ["cdn.example.org"], "connect-src": ["'self'"]}`)
	t.Setenv("CSP_POLICY", "")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.SessionExpiration())
	assert.True(t, cfg.CountQueries)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, csp.Policy{
		{Name: "script-src", Sources: []string{"cdn.example.org"}},
		{Name: "connect-src", Sources: []string{"'self'"}},
	}, cfg.ExtendCSPPolicy)

	policy := csp.NewBuilder(cfg.CSP()).PolicyString()
	assert.Contains(t, policy, "script-src 'self' 'unsafe-eval' cdn.example.org;")
	assert.Contains(t, policy, "; connect-src 'self'")
}

func TestLoad_InvalidPolicyIgnored(t *testing.T) {
	SetOutput(io.Discard)
	t.Setenv("CSP_POLICY", `["not", "a", "mapping"]`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.CSPPolicy)
}

func TestLoad_Validation(t *testing.T) {
	SetOutput(io.Discard)

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown env", env: map[string]string{"APP_ENV": "qa"}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "postgres"}},
		{name: "negative expiration", env: map[string]string{"SESSION_EXPIRATION_SECONDS": "-5"}},
		{name: "prod short key", env: map[string]string{"APP_ENV": "prod", "SESSION_KEY": "short"}},
		{name: "prod sqlite", env: map[string]string{"APP_ENV": "prod", "SESSION_KEY": "0123456789abcdef0123456789abcdef", "DB_DRIVER": "sqlite"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvDuration_BadValueFallsBack(t *testing.T) {
	SetOutput(io.Discard)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	assert.Equal(t, 10*time.Second, getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second))
}
