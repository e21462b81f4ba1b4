package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelWarn},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("FUNDME_LOG_LEVEL", "error")

	logger := NewLogger(&config.RuntimeConfig{})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelError))

	debug := NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, debug.Enabled(context.Background(), slog.LevelDebug))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_fundme.go", shortPath("/home/dev/src/fundme/internal/usecase/deploy_fundme.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/build/main.go"))
}
