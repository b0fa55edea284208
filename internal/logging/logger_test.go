package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLoggerDropsTimeOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, false, "")

	log.Debug("hidden")
	log.Info("declared", "contract", "erc20")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "time=")
	assert.Contains(t, out, "contract=erc20")
}

func TestNewLoggerDebug(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, true, "error")

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "source=")
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/declare.go", shortPath("/home/dev/starkdeploy/internal/usecase/declare.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/main.go"))
}
