package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RenderStrategy selects how the protected catch-all route obtains page data
type RenderStrategy string

const (
	// StrategyServer fetches and precomputes page data on every request
	StrategyServer RenderStrategy = "server"
	// StrategyClient renders a shell and lets the browser load the page fragment
	StrategyClient RenderStrategy = "client"
)

// Config holds every setting the server, worker and CLIs read from the environment
type Config struct {
	Port string
	Env  string

	CMSBaseURL string
	CMSAPIKey  string
	PageSource string // "cms" or "database"

	DatabaseURL  string
	RedisURL     string
	PageCacheTTL time.Duration

	RenderStrategy  RenderStrategy
	RevalidateAfter time.Duration
	FragmentWait    time.Duration
	FragmentStale   time.Duration
	RevalidateToken string

	AuthProvider            string // "none" or "firebase"
	FirebaseCredentialsPath string
	FirebaseAPIKey          string
	FirebaseAuthDomain      string
	FirebaseProjectID       string
	LoginPath               string

	WarmPaths      []string
	WarmSchedule   string
	WarmConcurrent int

	LogLevel string
}

// Load reads .env (if present) and the process environment into a Config
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env
func FromEnv() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		CMSBaseURL: strings.TrimRight(getEnv("CMS_BASE_URL", "http://localhost:4000"), "/"),
		CMSAPIKey:  os.Getenv("CMS_API_KEY"),
		PageSource: getEnv("PAGE_SOURCE", "cms"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		PageCacheTTL: getDuration("PAGE_CACHE_TTL", 5*time.Minute),

		RenderStrategy:  RenderStrategy(getEnv("RENDER_STRATEGY", string(StrategyServer))),
		RevalidateAfter: time.Duration(getInt("REVALIDATE_SECONDS", 60)) * time.Second,
		FragmentWait:    getDuration("FRAGMENT_WAIT", 3*time.Second),
		FragmentStale:   getDuration("FRAGMENT_STALE", 30*time.Second),
		RevalidateToken: os.Getenv("REVALIDATE_SECRET"),

		AuthProvider:            getEnv("AUTH_PROVIDER", "none"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase-service-account.json"),
		FirebaseAPIKey:          os.Getenv("FIREBASE_API_KEY"),
		FirebaseAuthDomain:      os.Getenv("FIREBASE_AUTH_DOMAIN"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		LoginPath:               getEnv("LOGIN_PATH", "/login"),

		WarmPaths:      splitList(getEnv("WARM_PATHS", "/")),
		WarmSchedule:   getEnv("WARM_SCHEDULE", "FREQ=MINUTELY;INTERVAL=5"),
		WarmConcurrent: getInt("WARM_CONCURRENCY", 4),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.RenderStrategy != StrategyClient {
		cfg.RenderStrategy = StrategyServer
	}

	return cfg
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
