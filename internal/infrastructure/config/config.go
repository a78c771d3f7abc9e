package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// LLM endpoint (OpenAI-compatible chat/completions protocol)
	BaseURL string // e.g. "http://localhost:3000/v1"
	APIKey  string // bearer token, "dummy-key" works for local servers
	Model   string // e.g. "gpt-4o-mini"

	// Resilient call policy
	Timeout     time.Duration // per-call timeout
	MaxRetries  int           // retries after the first attempt
	MaxParallel int           // worker pool size for bulk operations

	// Gateway response cache
	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration

	// Local persistence
	DataDir string // holds state.json, state.lock and trainer.log
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		BaseURL:      getenvDefault("ENGLISH_RPG_BASE_URL", "http://localhost:3000/v1"),
		APIKey:       getenvDefault("ENGLISH_RPG_API_KEY", "dummy-key"),
		Model:        getenvDefault("ENGLISH_RPG_MODEL", "gpt-4o-mini"),
		Timeout:      time.Duration(getenvInt("ENGLISH_RPG_TIMEOUT", 60)) * time.Second,
		MaxRetries:   getenvInt("ENGLISH_RPG_MAX_RETRIES", 3),
		MaxParallel:  getenvInt("ENGLISH_RPG_MAX_PARALLEL", 5),
		CacheEnabled: getenvBool("ENGLISH_RPG_CACHE_ENABLED", true),
		CacheSize:    getenvInt("ENGLISH_RPG_CACHE_SIZE", 256),
		CacheTTL:     getenvDuration("ENGLISH_RPG_CACHE_TTL", 5*time.Minute),
		DataDir:      getenvDefault("ENGLISH_RPG_DATA_DIR", defaultDataDir()),
	}
}

// Validate rejects values that would make the trainer misbehave at runtime.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return configError("config: ENGLISH_RPG_BASE_URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return configError("config: ENGLISH_RPG_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return configError("config: ENGLISH_RPG_MAX_RETRIES cannot be negative")
	}
	if c.MaxParallel <= 0 {
		return configError("config: ENGLISH_RPG_MAX_PARALLEL must be positive")
	}
	if c.CacheSize <= 0 {
		return configError("config: ENGLISH_RPG_CACHE_SIZE must be positive")
	}
	return nil
}

// StatePath is the location of the persisted trainer state document.
func (c *Config) StatePath() string { return filepath.Join(c.DataDir, "state.json") }

// LockPath is the sidecar lock file guarding StatePath.
func (c *Config) LockPath() string { return filepath.Join(c.DataDir, "state.lock") }

// LogPath is the structured log destination; console output stays clean for the UI.
func (c *Config) LogPath() string { return filepath.Join(c.DataDir, "trainer.log") }

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".english_trainer"
	}
	return filepath.Join(home, ".english_trainer")
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

type configError string

func (e configError) Error() string { return string(e) }
