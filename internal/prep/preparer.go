package prep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "fundingdash/internal/errors"
	"fundingdash/internal/infrastructure"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

// Result is a cleaned funding table and the report of how it was produced.
type Result struct {
	Table  *table.Table
	Report domain.PreparationReport
}

// Preparer runs the cleaning pipeline. It holds no state between runs and is
// safe for concurrent use.
type Preparer struct {
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Preparer.
func New(opts Options) *Preparer {
	opts = opts.withDefaults()
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	return &Preparer{
		opts:   opts,
		logger: opts.Logger.With(slog.String("component", "preparer")),
		tracer: tracer,
	}
}

// Prepare reads and cleans the CSV file at path.
func Prepare(ctx context.Context, path string, opts Options) (*Result, error) {
	return New(opts).PrepareFile(ctx, path)
}

// FromReader reads and cleans CSV data from r.
func FromReader(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	return New(opts).Prepare(ctx, r, "reader")
}

// PrepareFile reads and cleans the CSV file at path.
func (p *Preparer) PrepareFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open funding data", err).WithContext("path", path)
	}
	defer f.Close()

	return p.Prepare(ctx, f, path)
}

// Prepare reads CSV data from r and cleans it. source names the input in
// logs, metrics and the report.
func (p *Preparer) Prepare(ctx context.Context, r io.Reader, source string) (*Result, error) {
	return p.instrument(ctx, source, func(ctx context.Context, report *domain.PreparationReport) (*table.Table, error) {
		var raw *table.Table
		err := p.step(ctx, "load", func(context.Context) error {
			var err error
			raw, err = table.ReadCSV(r, p.opts.Read)
			if err != nil {
				return apperrors.NewParsingError("failed to read funding data", err).WithContext("source", source)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return p.clean(ctx, raw, report)
	})
}

// Clean runs every step after loading on an already read table.
func (p *Preparer) Clean(ctx context.Context, raw *table.Table) (*Result, error) {
	return p.instrument(ctx, "table", func(ctx context.Context, report *domain.PreparationReport) (*table.Table, error) {
		return p.clean(ctx, raw, report)
	})
}

type pipelineFunc func(ctx context.Context, report *domain.PreparationReport) (*table.Table, error)

func (p *Preparer) instrument(ctx context.Context, source string, run pipelineFunc) (*Result, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "prep.prepare", trace.WithAttributes(attribute.String("prep.source", source)))
	defer span.End()

	report := domain.PreparationReport{
		Source:  source,
		Imputed: make(map[string]int, 3),
	}

	cleaned, err := run(ctx, &report)
	report.Duration = time.Since(start)
	p.opts.Metrics.RecordPreparation(ctx, source, report.Duration, report.Rows, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "funding data preparation failed",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	report.PreparedAt = time.Now().UTC()
	span.SetAttributes(attribute.Int("prep.rows", report.Rows))

	p.logger.InfoContext(ctx, "funding data prepared",
		slog.String("source", source),
		slog.Int("rows", report.Rows),
		slog.Int("unparsed_amounts", report.UnparsedAmounts),
		slog.Int("unparsed_dates", report.UnparsedDates),
		slog.Duration("duration", report.Duration))

	return &Result{Table: cleaned, Report: report}, nil
}

func (p *Preparer) clean(ctx context.Context, t *table.Table, report *domain.PreparationReport) (*table.Table, error) {
	report.Rows = t.NumRows()
	report.Columns = t.NumCols()
	p.opts.Observer.Loaded(ctx, t.NumRows(), t.NumCols())

	err := p.step(ctx, "normalize_columns", func(context.Context) error {
		next, err := NormalizeColumns(t)
		if err != nil {
			return apperrors.NewParsingError("column labels collide after normalization", err)
		}
		t = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.step(ctx, "drop_columns", func(context.Context) error {
		next, err := DropColumns(t, p.opts.DropColumns...)
		if err != nil {
			return columnError(err)
		}
		t = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.step(ctx, "coerce_amount", func(ctx context.Context) error {
		next, unparsed, err := CoerceAmount(t, p.opts.AmountColumn)
		if err != nil {
			return columnError(err)
		}
		t = next
		report.UnparsedAmounts = unparsed
		p.opts.Metrics.RecordUnparsed(ctx, p.opts.AmountColumn, unparsed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.MissingBefore = missingByColumn(t)

	err = p.step(ctx, "impute", func(ctx context.Context) error {
		next, amount, err := ImputeMean(t, p.opts.AmountColumn)
		if err != nil {
			return columnError(err)
		}
		if amount.Defined {
			mean, _ := amount.Value.AsFloat()
			report.AmountMean = &mean
		} else {
			p.logger.WarnContext(ctx, "no amount parsed, amount column left unimputed",
				slog.String("column", p.opts.AmountColumn))
		}

		next, city, err := ImputeConstant(next, p.opts.CityColumn, table.Str(p.opts.CityDefault))
		if err != nil {
			return columnError(err)
		}
		next, industry, err := ImputeConstant(next, p.opts.IndustryColumn, table.Str(p.opts.IndustryDefault))
		if err != nil {
			return columnError(err)
		}

		for _, imp := range []Imputation{amount, city, industry} {
			report.Imputed[imp.Column] = imp.Filled
			p.opts.Metrics.RecordImputed(ctx, imp.Column, imp.Filled)
		}
		t = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.MissingAfter = missingByColumn(t)
	p.opts.Observer.Imputed(ctx, t.NullCounts())

	err = p.step(ctx, "extract_year", func(ctx context.Context) error {
		next, unparsed, err := ExtractYear(t, p.opts.DateColumn, p.opts.DateLayout)
		if err != nil {
			return columnError(err)
		}
		t = next
		report.UnparsedDates = unparsed
		p.opts.Metrics.RecordUnparsed(ctx, p.opts.DateColumn, unparsed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// step runs fn inside a "prep.<name>" span.
func (p *Preparer) step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "prep."+name)
	defer span.End()

	err := fn(ctx)
	p.opts.Metrics.RecordPreparationStep(ctx, name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	p.logger.DebugContext(ctx, "preparation step complete",
		slog.String("step", name),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// columnError turns an absent required column into a configuration error naming it.
func columnError(err error) error {
	var mce *MissingColumnError
	if errors.As(err, &mce) {
		return apperrors.NewConfigError(fmt.Sprintf("required column %q is absent", mce.Name), err).
			WithContext("column", mce.Name)
	}
	return err
}

func missingByColumn(t *table.Table) map[string]int {
	counts := t.NullCounts()
	out := make(map[string]int, len(counts))
	for _, nc := range counts {
		out[nc.Column] = nc.Missing
	}
	return out
}
