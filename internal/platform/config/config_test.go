package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pwpolicy/internal/policy/rules"
)

func TestParseMinLength(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{raw: "", expected: rules.DefaultMinLength},
		{raw: "abc", expected: rules.DefaultMinLength},
		{raw: "0", expected: rules.DefaultMinLength},
		{raw: "-4", expected: rules.DefaultMinLength},
		{raw: "8", expected: 8},
		{raw: " 16 ", expected: 16},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMinLength(tt.raw))
		})
	}
}

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"POLICY_ADDR", "POLICY_MIN_LENGTH", "POLICY_NAME_STOP_WORDS", "POLICY_DEFAULT_LOCALE",
		"PASSWORD_HISTORY_BACKEND", "PASSWORD_HISTORY_DB_HOST", "PASSWORD_HISTORY_DB_PORT",
		"PASSWORD_HISTORY_DB_NAME", "PASSWORD_HISTORY_DB_USER", "PASSWORD_HISTORY_DB_PASSWORD",
		"PASSWORD_HISTORY_QUERY_TIMEOUT", "POLICY_TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, rules.DefaultMinLength, cfg.Policy.MinLength)
	assert.Equal(t, DefaultStopWords, cfg.Policy.StopWords)
	assert.Equal(t, "en", cfg.Policy.DefaultLocale)
	assert.Equal(t, "<br/>", cfg.Policy.MessageSeparator)
	assert.Equal(t, BackendMySQL, cfg.History.Backend)
	assert.Equal(t, DefaultHistoryPort, cfg.History.Port)
	assert.Equal(t, 5*time.Second, cfg.History.QueryTimeout)
	assert.False(t, cfg.History.Enabled())
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestFromEnvTrustedProxies(t *testing.T) {
	t.Setenv("POLICY_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1,")

	cfg := FromEnv()
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)
}

func TestHistoryEnabled(t *testing.T) {
	full := History{Backend: BackendMySQL, Host: "db", Name: "bdalunos", User: "u", Password: "p"}
	assert.True(t, full.Enabled())

	for name, mutate := range map[string]func(*History){
		"missing host":     func(h *History) { h.Host = "" },
		"missing name":     func(h *History) { h.Name = "" },
		"missing user":     func(h *History) { h.User = "" },
		"missing password": func(h *History) { h.Password = "" },
	} {
		t.Run(name, func(t *testing.T) {
			h := full
			mutate(&h)
			assert.False(t, h.Enabled())
		})
	}

	t.Run("port is optional", func(t *testing.T) {
		h := full
		h.Port = 0
		assert.True(t, h.Enabled())
	})

	t.Run("redis needs url", func(t *testing.T) {
		assert.False(t, History{Backend: BackendRedis}.Enabled())
		assert.True(t, History{Backend: BackendRedis, RedisURL: "redis://localhost:6379/0"}.Enabled())
	})
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("POLICY_MIN_LENGTH", "14")
	t.Setenv("POLICY_NAME_STOP_WORDS", "Van, der ,,")
	t.Setenv("PASSWORD_HISTORY_DB_PORT", "3307")
	t.Setenv("PASSWORD_HISTORY_BACKEND", "Postgres")

	cfg := FromEnv()
	assert.Equal(t, 14, cfg.Policy.MinLength)
	assert.Equal(t, []string{"van", "der"}, cfg.Policy.StopWords)
	assert.Equal(t, 3307, cfg.History.Port)
	assert.Equal(t, BackendPostgres, cfg.History.Backend)
}
