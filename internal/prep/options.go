package prep

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"fundingdash/internal/config"
	"fundingdash/internal/infrastructure"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

// Default fill values and date layout.
const (
	DefaultCity       = "Lucknow"
	DefaultIndustry   = "IT"
	DefaultDateLayout = "2/1/2006"
)

// Options configures a Preparer. Zero fields take their defaults.
type Options struct {
	// DropColumns are removed after label normalization. Nil means domain.UnusedColumns.
	DropColumns []string

	AmountColumn   string
	CityColumn     string
	IndustryColumn string
	DateColumn     string

	CityDefault     string
	IndustryDefault string
	// DateLayout is a time.Parse layout for the date column.
	DateLayout string

	Read table.ReadOptions

	Observer Observer
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  *infrastructure.BusinessMetrics
}

// OptionsFromConfig maps the data config section onto Options.
func OptionsFromConfig(cfg config.DataConfig) Options {
	return Options{
		CityDefault:     cfg.CityDefault,
		IndustryDefault: cfg.IndustryDefault,
		DateLayout:      cfg.DateLayout,
	}
}

func (o Options) withDefaults() Options {
	if o.DropColumns == nil {
		o.DropColumns = append([]string(nil), domain.UnusedColumns...)
	}
	if o.AmountColumn == "" {
		o.AmountColumn = domain.ColumnAmount
	}
	if o.CityColumn == "" {
		o.CityColumn = domain.ColumnCity
	}
	if o.IndustryColumn == "" {
		o.IndustryColumn = domain.ColumnIndustry
	}
	if o.DateColumn == "" {
		o.DateColumn = domain.ColumnDate
	}
	if o.CityDefault == "" {
		o.CityDefault = DefaultCity
	}
	if o.IndustryDefault == "" {
		o.IndustryDefault = DefaultIndustry
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Logger == nil {
		o.Logger = infrastructure.GetLogger()
	}
	if o.Observer == nil {
		o.Observer = NewLogObserver(o.Logger)
	}
	return o
}
