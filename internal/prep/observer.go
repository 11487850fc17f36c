package prep

import (
	"context"
	"log/slog"

	"fundingdash/internal/table"
)

// Observer receives the diagnostics produced while a table is prepared.
type Observer interface {
	// Loaded is called once the raw table has been read.
	Loaded(ctx context.Context, rows, columns int)
	// Imputed is called after the fill steps with the per-column missing counts.
	Imputed(ctx context.Context, missing []table.NullCount)
}

// LogObserver writes the diagnostics to a slog.Logger at debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer logging through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Loaded(ctx context.Context, rows, columns int) {
	o.logger.DebugContext(ctx, "funding table loaded",
		slog.Int("rows", rows),
		slog.Int("columns", columns))
}

func (o *LogObserver) Imputed(ctx context.Context, missing []table.NullCount) {
	attrs := make([]any, 0, len(missing))
	for _, nc := range missing {
		attrs = append(attrs, slog.Int(nc.Column, nc.Missing))
	}
	o.logger.DebugContext(ctx, "missing values after imputation", slog.Group("missing", attrs...))
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) Loaded(context.Context, int, int) {}

func (NopObserver) Imputed(context.Context, []table.NullCount) {}
