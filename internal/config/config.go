package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        string
	PostgresDSN string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string

	MessageBackend string
	MongoURI       string
	MongoDB        string

	SessionSecret        string
	SessionTTL           time.Duration
	SessionPruneInterval time.Duration
	CookieSecure         bool

	MembershipSecret string
	AdminSecret      string

	BcryptCost  int
	CORSOrigins []string
	LogLevel    string
}

// Load reads an optional .env file and then the process environment.
// Every invalid or missing value is reported in the returned error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var problems []string

	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		PostgresDSN:      required("POSTGRES_DSN", &problems),
		SessionBackend:   getenv("SESSION_BACKEND", BackendPostgres),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		MessageBackend:   getenv("MESSAGE_BACKEND", BackendPostgres),
		MongoURI:         getenv("MONGO_URI", ""),
		MongoDB:          getenv("MONGO_DB", "clubhouse"),
		SessionSecret:    required("SESSION_SECRET", &problems),
		CookieSecure:     getenv("COOKIE_SECURE", "false") == "true",
		MembershipSecret: getenv("MEMBERSHIP_SECRET", ""),
		AdminSecret:      getenv("ADMIN_SECRET", ""),
		CORSOrigins:      splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	cfg.SessionTTL = duration("SESSION_TTL", 120*time.Second, &problems)
	cfg.SessionPruneInterval = duration("SESSION_PRUNE_INTERVAL", 60*time.Second, &problems)
	cfg.BcryptCost = integer("BCRYPT_COST", 10, &problems)

	switch cfg.SessionBackend {
	case BackendPostgres, BackendRedis:
	default:
		problems = append(problems, fmt.Sprintf("SESSION_BACKEND must be %q or %q, got %q", BackendPostgres, BackendRedis, cfg.SessionBackend))
	}

	switch cfg.MessageBackend {
	case BackendPostgres:
	case BackendMongo:
		if cfg.MongoURI == "" {
			problems = append(problems, "MONGO_URI is required when MESSAGE_BACKEND=mongo")
		}
	default:
		problems = append(problems, fmt.Sprintf("MESSAGE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMongo, cfg.MessageBackend))
	}

	if cfg.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if cfg.SessionPruneInterval <= 0 {
		problems = append(problems, "SESSION_PRUNE_INTERVAL must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost))
	}

	if len(problems) > 0 {
		return nil, errors.New("config: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func required(key string, problems *[]string) string {
	v := os.Getenv(key)
	if v == "" {
		*problems = append(*problems, "missing required environment variable "+key)
	}
	return v
}

func duration(key string, fallback time.Duration, problems *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid %s %q: %v", key, v, err))
		return fallback
	}
	return d
}

func integer(key string, fallback int, problems *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid %s %q: expected integer", key, v))
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
