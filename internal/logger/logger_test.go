package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/studyplan/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Config
		level zapcore.Level
	}{
		{"development default", config.Config{Env: config.EnvDevelopment}, zapcore.DebugLevel},
		{"production default", config.Config{Env: config.EnvProduction, Log: config.LogConfig{Format: "json"}}, zapcore.InfoLevel},
		{"explicit level", config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn"}}, zapcore.WarnLevel},
		{"bad level falls back to info", config.Config{Log: config.LogConfig{Level: "loud"}}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.level))
			assert.False(t, l.Core().Enabled(tt.level-1))
		})
	}
}
