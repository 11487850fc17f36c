package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records at every level", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.Debug("funding table loaded", slog.Int("rows", 8))
		logger.Error("funding data preparation failed", slog.String("error", "missing column"))

		assert.Equal(t, 2, logs.Count())
		assert.Len(t, logs.Records(slog.LevelDebug), 1)
		assert.True(t, logs.ContainsMessage("preparation failed"))
		assert.True(t, logs.ContainsAttr("rows", int64(8)))
		assert.False(t, logs.ContainsAttr("rows", int64(9)))
	})

	t.Run("derived handlers share the buffer", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.With(slog.String("component", "preparer")).Info("funding data prepared")
		logger.Info("funding data published")

		records := logs.Records()
		require.Len(t, records, 2)
		assert.Equal(t, "preparer", records[0].Attrs["component"])
		assert.NotContains(t, records[1].Attrs, "component")
	})

	t.Run("groups flatten to dotted keys", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.Info("missing values after imputation",
			slog.Group("missing", slog.Int("City_Location", 0), slog.Int("Amount_in_USD", 0)))
		logger.WithGroup("http").Info("request", slog.Int("status", 200))

		assert.True(t, logs.ContainsAttr("missing.City_Location", int64(0)))
		assert.True(t, logs.ContainsAttr("http.status", int64(200)))
	})

	t.Run("no errors", func(t *testing.T) {
		logger, logs := NewTestLogger(t)
		logger.Warn("no amount parsed, amount column left unimputed")
		AssertNoErrors(t, logs)
	})
}
