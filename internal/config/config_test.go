package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/llm"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COACH_LOG_MODE", "COACH_DB_DRIVER", "COACH_DB_DSN", "COACH_SERVER_ADDR", "COACH_REDIS_ADDR",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "COACH_OTLP_ENDPOINT", "COACH_PIPELINE_FILE", "COACH_CORS_ORIGINS",
		"COACH_CACHE_TTL", "COACH_TRACING_ENABLED", "COACH_TRACE_SAMPLE_RATIO", "COACH_COMPLETION_THRESHOLD",
		"COACH_SUCCESS_THRESHOLD", "COACH_LLM_PROVIDER", "COACH_OPENAI_API_KEY", "COACH_ANTHROPIC_API_KEY",
		"COACH_GEMINI_API_KEY", "COACH_OPENROUTER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 70.0, cfg.Coach.CompletionThreshold)
	assert.Equal(t, 75.0, cfg.Coach.SuccessThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 0.3, cfg.Agents.Path.Temperature)
	assert.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "not found")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  mode: prod
database:
  driver: postgres
  dsn: postgres://localhost/coach
server:
  addr: ":9000"
  cors_origins: ["http://localhost:3000"]
llm:
  provider: mock
  timeout: 15s
cache:
  ttl: 1h
coach:
  completion_threshold: 80
agents:
  session:
    max_tokens: 500
    temperature: 0.1
`), 0o644))

	t.Setenv("COACH_SERVER_ADDR", ":9100")
	t.Setenv("COACH_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("COACH_TRACING_ENABLED", "true")

	cfg, err := Load(Options{Path: path, EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/coach", cfg.Database.DSN)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gpt-4", cfg.LLM.OpenAI.Model, "unset keys keep their defaults")
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 80.0, cfg.Coach.CompletionThreshold)
	assert.Equal(t, 500, cfg.Agents.Session.MaxTokens)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("COACH_REDIS_ADDR")
	t.Cleanup(func() { os.Unsetenv("COACH_REDIS_ADDR") })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("COACH_REDIS_ADDR=localhost:6379\n"), 0o644))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_DiscoversProviderKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load(Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad driver", env: map[string]string{"COACH_DB_DRIVER": "oracle"}},
		{name: "bad ttl", env: map[string]string{"COACH_CACHE_TTL": "soon"}},
		{name: "bad ratio", env: map[string]string{"COACH_TRACE_SAMPLE_RATIO": "2"}},
		{name: "bad threshold", env: map[string]string{"COACH_COMPLETION_THRESHOLD": "x"}},
		{name: "bad provider", env: map[string]string{"COACH_LLM_PROVIDER": "skynet"}},
		{name: "bad yaml", file: "server: [oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := Options{EnvFile: noEnvFile(t)}
			if tt.file != "" {
				opts.Path = filepath.Join(t.TempDir(), "bad.yaml")
				require.NoError(t, os.WriteFile(opts.Path, []byte(tt.file), 0o644))
			}
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	assert.Error(t, err)
}
