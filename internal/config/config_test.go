package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplan/internal/llm"
)

// clearVendorKeys keeps the developer's own API keys out of the test.
func clearVendorKeys(t *testing.T) {
	t.Helper()
	for _, p := range llm.Providers() {
		t.Setenv(p.KeyEnv, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearVendorKeys(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.Narration.Enabled)
	assert.Equal(t, 4, cfg.Narration.Concurrency)
	assert.Equal(t, 0.3, cfg.Practice.Probability)
	assert.Equal(t, 2.0, cfg.Practice.Priority)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.LLM.Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("STUDYPLAN_ENV", "production")
	t.Setenv("STUDYPLAN_DB", "/tmp/plan.db")
	t.Setenv("STUDYPLAN_LOG_FORMAT", "json")
	t.Setenv("STUDYPLAN_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("STUDYPLAN_NARRATION_ENABLED", "true")
	t.Setenv("STUDYPLAN_LLM_PROVIDER", "openai")
	t.Setenv("STUDYPLAN_LLM_API_KEY", "sk-test")
	t.Setenv("STUDYPLAN_PRACTICE_PROBABILITY", "0.5")
	t.Setenv("STUDYPLAN_SEED", "42")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "/tmp/plan.db", cfg.DBPath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.True(t, cfg.Narration.Enabled)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 0.5, cfg.Practice.Probability)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
}

func TestLoad_File(t *testing.T) {
	clearVendorKeys(t)
	path := filepath.Join(t.TempDir(), "studyplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
narration:
  enabled: true
  max_days: 3
llm:
  provider: mock
practice:
  hours: 2
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Narration.Enabled)
	assert.Equal(t, 3, cfg.Narration.MaxDays)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 2.0, cfg.Practice.Hours)
}

func TestLoad_Invalid(t *testing.T) {
	clearVendorKeys(t)
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"env", map[string]string{"STUDYPLAN_ENV": "staging"}},
		{"log format", map[string]string{"STUDYPLAN_LOG_FORMAT": "xml"}},
		{"probability", map[string]string{"STUDYPLAN_PRACTICE_PROBABILITY": "1.5"}},
		{"narration without llm", map[string]string{"STUDYPLAN_NARRATION_ENABLED": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "broken.yaml"))
	assert.Error(t, err, "missing explicit config file")
}
