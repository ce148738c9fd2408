package logger

import (
	"context"
	"testing"

	"code_practice_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Log, FromContext(context.Background()))
}

func TestFromContextCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := NewContext(context.Background(), zap.New(core).With(zap.String("request_id", "abc")))

	FromContext(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
	}
}

func TestLevelFor(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	assert.Equal(t, zapcore.DebugLevel, levelFor(cfg))

	cfg.Server.Mode = "release"
	assert.Equal(t, zapcore.InfoLevel, levelFor(cfg))

	cfg.Log.Level = "warn"
	assert.Equal(t, zapcore.WarnLevel, levelFor(cfg))

	cfg.Log.Level = "loud"
	assert.Equal(t, zapcore.InfoLevel, levelFor(cfg))
}
