package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectteamwork/finrec/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("Should emit JSON with global service attributes", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		cfg := &config.AppConfig{
			Name:        "finrec",
			Version:     "1.2.3",
			Environment: "production",
			LogLevel:    "info",
			LogFormat:   "json",
		}

		// Act
		log := NewWithWriter(cfg, &buf)
		log.Info("rule created", "rule_id", "abc")

		// Assert
		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "rule created", line["msg"])
		assert.Equal(t, "finrec", line["service"])
		assert.Equal(t, "1.2.3", line["version"])
		assert.Equal(t, "production", line["env"])
		assert.Equal(t, "abc", line["rule_id"])
		assert.NotContains(t, line, "source", "production logs must not pay for AddSource")
	})

	t.Run("Should emit text format when configured", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		cfg := &config.AppConfig{
			Name:        "finrec",
			Version:     "dev",
			Environment: "development",
			LogLevel:    "debug",
			LogFormat:   "text",
		}

		// Act
		log := NewWithWriter(cfg, &buf)
		log.Debug("cache warmed")

		// Assert
		out := buf.String()
		assert.Contains(t, out, "msg=\"cache warmed\"")
		assert.Contains(t, out, "service=finrec")
	})

	t.Run("Should suppress records below the configured level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		cfg := &config.AppConfig{
			Name:        "finrec",
			Environment: "development",
			LogLevel:    "warn",
			LogFormat:   "json",
		}

		// Act
		log := NewWithWriter(cfg, &buf)
		log.Info("should be dropped")
		log.Warn("should be kept")

		// Assert
		assert.NotContains(t, buf.String(), "should be dropped")
		assert.Contains(t, buf.String(), "should be kept")
	})

	t.Run("Should default to info on an unknown level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		cfg := &config.AppConfig{
			Name:        "finrec",
			Environment: "development",
			LogLevel:    "super-critical",
			LogFormat:   "json",
		}

		// Act
		log := NewWithWriter(cfg, &buf)
		log.Debug("should be dropped")
		log.Info("should be kept")

		// Assert
		assert.NotContains(t, buf.String(), "should be dropped")
		assert.Contains(t, buf.String(), "should be kept")
	})

	t.Run("Should panic on nil config", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			NewWithWriter(nil, &bytes.Buffer{})
		})
	})
}
