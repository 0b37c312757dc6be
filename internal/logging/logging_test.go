package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/registry-engine/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   types.LogConfig
		level zapcore.Level
	}{
		{"defaults", types.LogConfig{}, zapcore.InfoLevel},
		{"debug json", types.LogConfig{Level: "debug", Format: "json"}, zapcore.DebugLevel},
		{"warn console", types.LogConfig{Level: "WARN", Format: "console"}, zapcore.WarnLevel},
		{"error", types.LogConfig{Level: "error"}, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.level-1))
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(types.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
