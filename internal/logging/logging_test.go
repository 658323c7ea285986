package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/sunnysmathworld/smw-admin/internal/logging"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWithWriter(&buf, "PROD", "debug")
		logger.Info().Str("key", "value").Msg("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "hello", entry["message"])
		require.Equal(t, "value", entry["key"])
		require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWithWriter(&buf, "PROD", "loud")
		require.Equal(t, zerolog.InfoLevel, logger.GetLevel())
		logger.Debug().Msg("dropped")
		require.Empty(t, buf.String())
	})

	t.Run("console writer in DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewWithWriter(&buf, "DEV", "info")
		logger.Info().Msg("hello")
		require.Contains(t, buf.String(), "hello")
		require.False(t, json.Valid(buf.Bytes()))
	})
}
