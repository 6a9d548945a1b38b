// Package config loads application settings from the environment, an
// optional .env file and an optional YAML config file, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/studyplan/internal/llm"
	"github.com/abhisek/studyplan/internal/narration"
	"github.com/abhisek/studyplan/internal/schedule"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STUDYPLAN"

type Config struct {
	Env string
	// DBPath is empty when the default location should be used.
	DBPath string

	Log       LogConfig
	HTTP      HTTPConfig
	Narration NarrationConfig
	LLM       llm.Config
	Practice  schedule.PracticePaperConfig
	// Seed fixes the practice-paper random source; 0 seeds from the clock.
	Seed uint64
}

type LogConfig struct {
	Level  string
	Format string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MaxBodyBytes caps plan request bodies.
	MaxBodyBytes int64
}

// NarrationConfig enables AI day commentary.
type NarrationConfig struct {
	Enabled bool
	narration.Config
}

// Load reads configuration. path names an optional YAML file; an empty
// path skips it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Env:    v.GetString("env"),
		DBPath: v.GetString("db"),
		Seed:   v.GetUint64("seed"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodyBytes:    v.GetInt64("http.max_body_bytes"),
		},
		Narration: NarrationConfig{
			Enabled: v.GetBool("narration.enabled"),
			Config: narration.Config{
				Concurrency: v.GetInt("narration.concurrency"),
				MaxDays:     v.GetInt("narration.max_days"),
				MaxTokens:   v.GetInt("narration.max_tokens"),
				Temperature: v.GetFloat64("narration.temperature"),
			},
		},
		Practice: schedule.PracticePaperConfig{
			Disabled:    v.GetBool("practice.disabled"),
			Probability: v.GetFloat64("practice.probability"),
			Priority:    v.GetFloat64("practice.priority"),
			Hours:       v.GetFloat64("practice.hours"),
		},
	}

	cfg.LLM = llm.DefaultConfig()
	cfg.LLM.Provider = v.GetString("llm.provider")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	cfg.LLM.Retry.MaxAttempts = v.GetInt("llm.retry.max_attempts")
	if cfg.LLM.Provider == "" {
		// Fall back to the conventional vendor variables.
		cfg.LLM, _ = llm.Discover(cfg.LLM, os.Getenv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("db", "")
	v.SetDefault("seed", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.max_body_bytes", 4<<20)

	nc := narration.DefaultConfig()
	v.SetDefault("narration.enabled", false)
	v.SetDefault("narration.concurrency", nc.Concurrency)
	v.SetDefault("narration.max_days", nc.MaxDays)
	v.SetDefault("narration.max_tokens", nc.MaxTokens)
	v.SetDefault("narration.temperature", nc.Temperature)

	lc := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", lc.Timeout.String())
	v.SetDefault("llm.retry.max_attempts", lc.Retry.MaxAttempts)

	v.SetDefault("practice.disabled", false)
	v.SetDefault("practice.probability", 0.3)
	v.SetDefault("practice.priority", 2.0)
	v.SetDefault("practice.hours", 1.5)
}

// Validate rejects settings that cannot work. LLM settings are only
// checked when narration is enabled.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid env %q (want %s or %s)", c.Env, EnvDevelopment, EnvProduction)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (want console or json)", c.Log.Format)
	}
	if c.Practice.Probability < 0 || c.Practice.Probability > 1 {
		return fmt.Errorf("practice probability must be within [0,1], got %v", c.Practice.Probability)
	}
	if c.Narration.Enabled {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("narration enabled but LLM is misconfigured: %w", err)
		}
	}
	return nil
}
