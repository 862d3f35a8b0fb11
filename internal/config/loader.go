package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "HOMEWORK"

// Store backends accepted by STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config captures environment driven configuration values for the homework service.
type Config struct {
	HTTPPort           int
	Store              string
	DatabaseURL        string
	Env                string
	LogLevel           string
	LogFormat          string
	WarningCacheTTL    time.Duration
	DueWindowDays      int
	DueWindowThreshold int
	ServerURL          string
}

// Development reports whether error responses may include internal details.
func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// Options controls where Load looks for configuration besides the environment.
type Options struct {
	// DotEnvPath is loaded into the process environment when the file exists.
	DotEnvPath string
	// ConfigFile is an optional viper config file (yaml, toml, json).
	ConfigFile string
}

// Load reads configuration from ".env", the file named by HOMEWORK_CONFIG and
// the process environment, in increasing order of precedence.
func Load() (Config, error) {
	return LoadWithOptions(Options{
		DotEnvPath: ".env",
		ConfigFile: strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")),
	})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (Config, error) {
	if path := strings.TrimSpace(opts.DotEnvPath); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetDefault("http_port", 3000)
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("warning_cache_ttl", "0s")
	v.SetDefault("due_window_days", 0)
	v.SetDefault("due_window_threshold", 1)
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := Config{
		Store:     strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		Env:       strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		LogLevel:  strings.TrimSpace(v.GetString("log_level")),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		ServerURL: strings.TrimRight(strings.TrimSpace(v.GetString("server_url")), "/"),
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)
	name := func(key string) string { return EnvPrefix + "_" + strings.ToUpper(key) }

	intValue := func(key string, min int, dst *int) {
		raw := strings.TrimSpace(v.GetString(key))
		n, err := strconv.Atoi(raw)
		if err != nil || n < min {
			invalid = append(invalid, name(key))
			return
		}
		*dst = n
	}
	intValue("http_port", 1, &cfg.HTTPPort)
	intValue("due_window_days", 0, &cfg.DueWindowDays)
	intValue("due_window_threshold", 1, &cfg.DueWindowThreshold)

	if ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("warning_cache_ttl"))); err != nil || ttl < 0 {
		invalid = append(invalid, name("warning_cache_ttl"))
	} else {
		cfg.WarningCacheTTL = ttl
	}

	switch cfg.Store {
	case StoreSQLite:
		cfg.DatabaseURL = strings.TrimSpace(v.GetString("database_url"))
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "homework.db"
		}
	case StorePostgres:
		cfg.DatabaseURL = strings.TrimSpace(v.GetString("database_url"))
		if cfg.DatabaseURL == "" {
			missing = append(missing, name("database_url"))
		}
	case StoreMemory:
	default:
		invalid = append(invalid, name("store"))
	}

	switch cfg.Env {
	case "production", "development", "test":
	default:
		invalid = append(invalid, name("env"))
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		invalid = append(invalid, name("log_format"))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
