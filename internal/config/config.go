package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/tonetrace-api/internal/mockdata"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	LogLevel            string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	EventsSubject       string
	JWTSecret           string
	UseMocks            bool
	DefaultSeed         int64
	DefaultStudents     int
	DefaultAssignments  int
	DefaultSnapshot     string
	SeedOnStart         bool
	MockLatency         time.Duration
	CacheTTL            time.Duration
	SnapshotRateLimit   int
	SnapshotRateWindow  time.Duration
	AutoMigrateDatabase bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AuthEnabled reports whether teacher routes require a bearer token.
func (c Config) AuthEnabled() bool {
	return strings.TrimSpace(c.JWTSecret) != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TONETRACE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ToneTrace API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("events.subject", "tonetrace.datasets.generated")
	v.SetDefault("data.use_mocks", true)
	v.SetDefault("data.seed", 12345)
	v.SetDefault("data.students", 24)
	v.SetDefault("data.assignments", 6)
	v.SetDefault("data.snapshot", "default")
	v.SetDefault("data.seed_on_start", true)
	v.SetDefault("mock.latency", "0s")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("snapshot.rate_limit", 5)
	v.SetDefault("snapshot.rate_window", "1m")
	v.SetDefault("database.auto_migrate", true)

	latency, err := parseDuration(v, "mock.latency", "0s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid mock latency: %w", err)
	}

	ttl, err := parseDuration(v, "cache.ttl", "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache ttl: %w", err)
	}

	window, err := parseDuration(v, "snapshot.rate_window", "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid snapshot rate window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		LogLevel:            strings.ToLower(v.GetString("log.level")),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		EventsSubject:       v.GetString("events.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		UseMocks:            v.GetBool("data.use_mocks"),
		DefaultSeed:         v.GetInt64("data.seed"),
		DefaultStudents:     v.GetInt("data.students"),
		DefaultAssignments:  v.GetInt("data.assignments"),
		DefaultSnapshot:     v.GetString("data.snapshot"),
		SeedOnStart:         v.GetBool("data.seed_on_start"),
		MockLatency:         latency,
		CacheTTL:            ttl,
		SnapshotRateLimit:   v.GetInt("snapshot.rate_limit"),
		SnapshotRateWindow:  window,
		AutoMigrateDatabase: v.GetBool("database.auto_migrate"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the loaded values for consistency.
func (c Config) Validate() error {
	if c.DefaultStudents < 0 || c.DefaultAssignments < 0 {
		return fmt.Errorf("default population sizes must not be negative")
	}
	builder := mockdata.NewBuilder()
	if c.DefaultStudents > builder.MaxStudents() {
		return fmt.Errorf("default students must be at most %d, got %d", builder.MaxStudents(), c.DefaultStudents)
	}
	if c.DefaultAssignments > builder.MaxAssignments() {
		return fmt.Errorf("default assignments must be at most %d, got %d", builder.MaxAssignments(), c.DefaultAssignments)
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("mock latency must not be negative")
	}
	if !c.UseMocks && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database url must be provided when mocks are disabled")
	}
	return nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		raw = fallback
	}
	return time.ParseDuration(raw)
}
