// Package config loads coach settings from defaults, an optional YAML
// file, a .env file and COACH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/progress"
	"github.com/abhisek/learncoach/internal/store"
)

// Config is the complete application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	LLM      llm.Config     `yaml:"llm"`
	Agents   agents.Config  `yaml:"agents"`
	Cache    CacheConfig    `yaml:"cache"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Coach    CoachConfig    `yaml:"coach"`

	// Warnings collects non-fatal problems met while loading.
	Warnings []string `yaml:"-"`
}

type LogConfig struct {
	Mode string `yaml:"mode" validate:"omitempty,oneof=dev development prod production"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	// DSN is a file path for sqlite and a connection URL for postgres.
	// Empty means the default sqlite file.
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CacheConfig configures the LLM response cache. An empty RedisAddr
// keeps the cache in memory; a zero TTL disables caching.
type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl" validate:"gte=0"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

type CoachConfig struct {
	CompletionThreshold float64 `yaml:"completion_threshold" validate:"gt=0,lte=100"`
	SuccessThreshold    float64 `yaml:"success_threshold" validate:"gt=0,lte=100"`
	// PipelineFile overrides the embedded pipeline stage file.
	PipelineFile string `yaml:"pipeline_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:      LogConfig{Mode: "dev"},
		Database: DatabaseConfig{Driver: store.DriverSQLite},
		Server:   ServerConfig{Addr: ":8080"},
		LLM:      llm.DefaultConfig(),
		Agents:   agents.DefaultConfig(),
		Cache:    CacheConfig{TTL: 24 * time.Hour},
		Tracing:  TracingConfig{SampleRatio: 1},
		Coach: CoachConfig{
			CompletionThreshold: progress.DefaultCompletionThreshold,
			SuccessThreshold:    75,
		},
	}
}

// Options says where to load configuration from.
type Options struct {
	// Path is an optional YAML file. A missing file is an error only
	// when the path was given explicitly.
	Path string
	// EnvFile defaults to ".env" in the working directory.
	EnvFile string
}

// Load builds the configuration and validates it.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.Path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", opts.Path, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s not found, using process environment", envFile))
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("load %s: %v", envFile, err))
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	str(&cfg.Log.Mode, "COACH_LOG_MODE")
	str(&cfg.Database.Driver, "COACH_DB_DRIVER")
	str(&cfg.Database.DSN, "COACH_DB_DSN")
	str(&cfg.Server.Addr, "COACH_SERVER_ADDR")
	str(&cfg.Cache.RedisAddr, "COACH_REDIS_ADDR")
	str(&cfg.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	str(&cfg.Tracing.Endpoint, "COACH_OTLP_ENDPOINT")
	str(&cfg.Coach.PipelineFile, "COACH_PIPELINE_FILE")

	if v := os.Getenv("COACH_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	var errs []error
	if v := os.Getenv("COACH_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		errs = append(errs, wrapEnv("COACH_CACHE_TTL", err))
		cfg.Cache.TTL = d
	}
	if v := os.Getenv("COACH_TRACING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		errs = append(errs, wrapEnv("COACH_TRACING_ENABLED", err))
		cfg.Tracing.Enabled = b
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"COACH_TRACE_SAMPLE_RATIO", &cfg.Tracing.SampleRatio},
		{"COACH_COMPLETION_THRESHOLD", &cfg.Coach.CompletionThreshold},
		{"COACH_SUCCESS_THRESHOLD", &cfg.Coach.SuccessThreshold},
	}
	for _, f := range floats {
		if v := os.Getenv(f.key); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			errs = append(errs, wrapEnv(f.key, err))
			*f.dst = n
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	llm.ApplyEnv(&cfg.LLM)
	if !cfg.LLM.HasKey() && os.Getenv("COACH_LLM_PROVIDER") == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			adoptKey(&cfg.LLM, found)
		}
	}
	return nil
}

// adoptKey switches cfg to the discovered provider, keeping any model
// names already configured.
func adoptKey(cfg *llm.Config, found llm.Config) {
	cfg.Provider = found.Provider
	switch found.Provider {
	case llm.ProviderOpenAI:
		cfg.OpenAI.APIKey = found.OpenAI.APIKey
	case llm.ProviderAnthropic:
		cfg.Anthropic.APIKey = found.Anthropic.APIKey
	case llm.ProviderGemini:
		cfg.Gemini.APIKey = found.Gemini.APIKey
	case llm.ProviderOpenRouter:
		cfg.OpenRouter.APIKey = found.OpenRouter.APIKey
	}
}

func wrapEnv(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", key, err)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
