package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "no outputs",
			mutate:  func(c *Config) { c.Output = OutputConfig{} },
			wantErr: true,
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Level = "loud" },
			wantErr: true,
		},
		{
			name:   "trace level accepted",
			mutate: func(c *Config) { c.Level = "trace" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLevelFromString(t *testing.T) {
	level, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, level)

	level, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = LevelFromString("nonsense")
	assert.Error(t, err)
}

func TestContextFields(t *testing.T) {
	ctx := ContextWithUser(context.Background(), "planner1")
	ctx = ContextWithSession(ctx, "sess-42")

	logger, logs := NewObserved(zapcore.InfoLevel)
	logger.Info(ctx, "query accepted")

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := map[string]string{}
	for _, f := range entries[0].Context {
		fields[f.Key] = f.String
	}
	assert.Equal(t, "planner1", fields["user.id"])
	assert.Equal(t, "sess-42", fields["session.id"])
}

func TestTraceSuppressedBelowLevel(t *testing.T) {
	logger, logs := NewObserved(zapcore.InfoLevel)
	logger.Trace(context.Background(), "per-term retrieval attempt")
	assert.Zero(t, logs.Len())
}
