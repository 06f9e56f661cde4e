// Package config loads the service's configuration document from environment
// variables (and an optional .env file), validating the scheduling section against
// the closed key set §6 recognizes.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// schedulingKeys is the closed set of SCHEDULING_* environment keys this service
// recognizes (§6). Any other SCHEDULING_* key present in the environment is rejected
// at startup (S8).
var schedulingKeys = map[string]struct{}{
	"SCHEDULING_RECENT_GAMES_WEEKS":     {},
	"SCHEDULING_RECENT_GAME_PENALTY":    {},
	"SCHEDULING_IDEAL_RANKING_DIFF":     {},
	"SCHEDULING_DEFAULT_ALGORITHM":      {},
	"SCHEDULING_ILP_TIME_LIMIT_SECONDS": {},
}

// Config is the service's full configuration document.
type Config struct {
	Env  string
	Port int

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduling SchedulingConfig
}

// DatabaseConfig holds the Catalog Loader's connection parameters — the `database`
// key in §6's closed configuration document.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig configures the optional generation preview cache (§11 DOMAIN STACK).
type RedisConfig struct {
	Enabled bool
	Host    string
	Port    int
	Password string
	DB       int
	TTL      time.Duration
}

// CORSConfig lists origins allowed to call this service from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// SchedulingConfig is the `scheduling.*` key namespace from §6: the weighter's and
// ILP selector's only configuration surface.
type SchedulingConfig struct {
	RecentGamesWeeks    int
	RecentGamePenalty   float64
	IdealRankingDiff    int
	DefaultAlgorithm    string
	ILPTimeLimitSeconds int
}

// Load builds the configuration from the environment (and an optional .env file),
// rejecting unrecognized SCHEDULING_* keys per §6 and §10.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if err := validateSchedulingKeys(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_PREVIEW_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      parseDuration(v.GetString("PREVIEW_CACHE_TTL"), 5*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduling = SchedulingConfig{
		RecentGamesWeeks:    v.GetInt("SCHEDULING_RECENT_GAMES_WEEKS"),
		RecentGamePenalty:   v.GetFloat64("SCHEDULING_RECENT_GAME_PENALTY"),
		IdealRankingDiff:    v.GetInt("SCHEDULING_IDEAL_RANKING_DIFF"),
		DefaultAlgorithm:    v.GetString("SCHEDULING_DEFAULT_ALGORITHM"),
		ILPTimeLimitSeconds: v.GetInt("SCHEDULING_ILP_TIME_LIMIT_SECONDS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "league_pairings")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_PREVIEW_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PREVIEW_CACHE_TTL", "5m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULING_RECENT_GAMES_WEEKS", 3)
	v.SetDefault("SCHEDULING_RECENT_GAME_PENALTY", 0.1)
	v.SetDefault("SCHEDULING_IDEAL_RANKING_DIFF", 5)
	v.SetDefault("SCHEDULING_DEFAULT_ALGORITHM", "greedy")
	v.SetDefault("SCHEDULING_ILP_TIME_LIMIT_SECONDS", 60)
}

// validateSchedulingKeys rejects any SCHEDULING_* environment variable that is not
// one of the five keys §6 recognizes.
func validateSchedulingKeys() error {
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		key := parts[0]
		if !strings.HasPrefix(key, "SCHEDULING_") {
			continue
		}
		if _, ok := schedulingKeys[key]; !ok {
			return fmt.Errorf("configuration error: unrecognized key %q", key)
		}
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
