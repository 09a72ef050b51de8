package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLogConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultLogConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name:    "default config",
			cfg:     DefaultLogConfig(),
			wantErr: false,
		},
		{
			name:    "debug level",
			cfg:     LogConfig{Level: "debug", Format: "json", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "console format",
			cfg:     LogConfig{Level: "info", Format: "console", Output: "stdout"},
			wantErr: false,
		},
		{
			name:    "warn level",
			cfg:     LogConfig{Level: "warn", Format: "json", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			cfg:     LogConfig{Level: "verbose", Format: "json", Output: "stderr"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, logger)
			} else {
				require.NoError(t, err)
				require.NotNil(t, logger)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"fatal", zapcore.FatalLevel, false},
		{"bogus", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := parseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoggerWith(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	child := logger.With(String("component", "resolver"))
	require.NotNil(t, child)

	// The child logger must be usable without affecting the parent.
	child.Info("message with fields")
	logger.Info("message without fields")
}

func TestLoggerWithContext(t *testing.T) {
	t.Parallel()

	logger := NopLogger()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		child := logger.WithContext(context.Background())
		assert.Equal(t, logger, child)
	})

	t.Run("context with request id", func(t *testing.T) {
		t.Parallel()

		ctx := ContextWithRequestID(context.Background(), "req-123")
		child := logger.WithContext(ctx)
		require.NotNil(t, child)
		assert.NotEqual(t, logger, child)
	})
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()

		ctx := ContextWithRequestID(context.Background(), "req-456")
		assert.Equal(t, "req-456", RequestIDFromContext(ctx))
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, RequestIDFromContext(context.Background()))
	})
}

func TestGlobalLogger(t *testing.T) {
	logger, err := NewLogger(DefaultLogConfig())
	require.NoError(t, err)

	SetGlobalLogger(logger)
	assert.Equal(t, logger, GetGlobalLogger())
	assert.Equal(t, logger, L())

	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	require.NotNil(t, logger)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")
	assert.NoError(t, logger.Sync())
}
