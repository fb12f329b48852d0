package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/mergefield/fieldclip/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig_New(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		contains string
	}{
		{name: "auto on a buffer is logfmt", format: "auto", contains: `msg="copied field"`},
		{name: "json", format: "json", contains: `"msg":"copied field"`},
		{name: "console", format: "console", contains: "copied field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			conf := logger.NewConfig()
			conf.Format = tt.format

			log, err := conf.New(&buf)
			require.NoError(t, err)
			log.Info("copied field", zap.String("kind", "simple"))
			require.NoError(t, log.Sync())

			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestConfig_NewUnknownFormat(t *testing.T) {
	conf := logger.Config{Format: "xml", Level: zapcore.InfoLevel}
	_, err := conf.New(&bytes.Buffer{})
	require.Error(t, err)
}

func TestConfig_Level(t *testing.T) {
	var buf bytes.Buffer
	conf := logger.Config{Format: "logfmt", Level: zapcore.WarnLevel}
	log, err := conf.New(&buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, logger.FromContext(ctx))

	log := zap.NewExample()
	ctx = logger.NewContextWithLogger(ctx, log)
	assert.Same(t, log, logger.FromContext(ctx))
}
