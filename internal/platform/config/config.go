package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pwpolicy/internal/policy/rules"
)

// DefaultHistoryPort is the legacy MySQL port of the history database.
const DefaultHistoryPort = 3306

// DefaultStopWords are Portuguese linking articles dropped from full names.
var DefaultStopWords = []string{"da", "das", "de", "do", "dos"}

// Config aggregates every configuration section of the service.
type Config struct {
	Server  Server
	Policy  Policy
	History History
	Logging Logging
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// ServiceTokenKey enables host authentication when non-empty.
	ServiceTokenKey      string
	ServiceTokenAudience string
	ShutdownTimeout      time.Duration
	// TrustedProxies lists the addresses or CIDR ranges whose forwarding
	// headers are believed. Empty means the peer address is always used.
	TrustedProxies []string
}

// Policy captures the password rule configuration.
type Policy struct {
	MinLength        int
	StopWords        []string
	DefaultLocale    string
	MessagesDir      string
	MessageSeparator string
}

// History captures the password-history store connection.
type History struct {
	Backend      string
	Host         string
	Port         int
	Name         string
	User         string
	Password     string
	Table        string
	RedisURL     string
	QueryTimeout time.Duration
	DialTimeout  time.Duration
}

// Logging captures structured logger settings.
type Logging struct {
	Level  string
	Format string
}

// History backends.
const (
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Enabled reports whether the history feature is active. Relational backends
// need host, database name, user and password; Redis needs a URL.
func (h History) Enabled() bool {
	switch h.Backend {
	case BackendMemory:
		return true
	case BackendRedis:
		return h.RedisURL != ""
	default:
		return h.Host != "" && h.Name != "" && h.User != "" && h.Password != ""
	}
}

// Addr returns host:port of the relational history database.
func (h History) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Load reads an optional .env file and then builds the configuration from the environment.
func Load(envFiles ...string) Config {
	// Missing .env files are normal outside local development.
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:                 envOr("POLICY_ADDR", ":8080"),
			ServiceTokenKey:      os.Getenv("POLICY_SERVICE_TOKEN_KEY"),
			ServiceTokenAudience: envOr("POLICY_SERVICE_TOKEN_AUDIENCE", "pwpolicy"),
			ShutdownTimeout:      durationOr("POLICY_SHUTDOWN_TIMEOUT", 10*time.Second),
			TrustedProxies:       parseList(os.Getenv("POLICY_TRUSTED_PROXIES"), nil),
		},
		Policy: Policy{
			MinLength:        ParseMinLength(os.Getenv("POLICY_MIN_LENGTH")),
			StopWords:        parseList(os.Getenv("POLICY_NAME_STOP_WORDS"), DefaultStopWords),
			DefaultLocale:    strings.ToLower(envOr("POLICY_DEFAULT_LOCALE", "en")),
			MessagesDir:      os.Getenv("POLICY_MESSAGES_DIR"),
			MessageSeparator: envOr("POLICY_MESSAGE_SEPARATOR", "<br/>"),
		},
		History: History{
			Backend:      strings.ToLower(envOr("PASSWORD_HISTORY_BACKEND", BackendMySQL)),
			Host:         os.Getenv("PASSWORD_HISTORY_DB_HOST"),
			Port:         intOr("PASSWORD_HISTORY_DB_PORT", DefaultHistoryPort),
			Name:         os.Getenv("PASSWORD_HISTORY_DB_NAME"),
			User:         os.Getenv("PASSWORD_HISTORY_DB_USER"),
			Password:     os.Getenv("PASSWORD_HISTORY_DB_PASSWORD"),
			Table:        envOr("PASSWORD_HISTORY_DB_TABLE", "hashes"),
			RedisURL:     os.Getenv("PASSWORD_HISTORY_REDIS_URL"),
			QueryTimeout: durationOr("PASSWORD_HISTORY_QUERY_TIMEOUT", 5*time.Second),
			DialTimeout:  durationOr("PASSWORD_HISTORY_CONNECT_TIMEOUT", 5*time.Second),
		},
		Logging: Logging{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
	}
}

// ParseMinLength parses the configured minimum length, falling back to
// rules.DefaultMinLength when the value is absent, not an integer, or not positive.
func ParseMinLength(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return rules.DefaultMinLength
	}
	return n
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseList(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
