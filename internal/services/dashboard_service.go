package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"fundingdash/internal/analytics"
	"fundingdash/internal/config"
	"fundingdash/internal/infrastructure"
	"fundingdash/internal/prep"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

// MaxTopN bounds the ranking length callers may ask for.
const MaxTopN = 50

// Snapshot is one prepared generation of the funding data. It is never
// modified after it is published.
type Snapshot struct {
	Table    *table.Table
	Records  []domain.FundingRecord
	Report   domain.PreparationReport
	LoadedAt time.Time
}

// DataStatus describes the loaded data for readiness probes.
type DataStatus struct {
	Loaded   bool      `json:"loaded"`
	Source   string    `json:"source,omitempty"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Reloads  int       `json:"reloads"`
}

// DashboardService answers dashboard queries from the prepared funding table.
// Queries run against an immutable snapshot; Reload swaps it atomically.
type DashboardService struct {
	cfg      config.DataConfig
	preparer *prep.Preparer
	metrics  *infrastructure.BusinessMetrics
	validate *validator.Validate
	logger   *slog.Logger

	reloadMu sync.Mutex
	mu       sync.RWMutex
	snapshot *Snapshot
	reloads  int
}

// NewDashboardService creates the service and prepares cfg.InputPath once.
func NewDashboardService(ctx context.Context, cfg config.DataConfig, preparer *prep.Preparer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*DashboardService, error) {
	s := NewDashboardServiceUnloaded(cfg, preparer, metrics, logger)
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewDashboardServiceUnloaded creates the service without reading any data.
// Queries fail with ErrDataNotLoaded until Reload succeeds.
func NewDashboardServiceUnloaded(cfg config.DataConfig, preparer *prep.Preparer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = analytics.DefaultTopN
	}
	if !domain.YearOptionsMode(cfg.YearOptions).Valid() {
		cfg.YearOptions = string(domain.YearOptionsDerived)
	}
	if preparer == nil {
		opts := prep.OptionsFromConfig(cfg)
		opts.Logger = logger
		opts.Metrics = metrics
		preparer = prep.New(opts)
	}
	return &DashboardService{
		cfg:      cfg,
		preparer: preparer,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Reload prepares the configured input file and publishes it. On failure the
// previous snapshot stays in place.
func (s *DashboardService) Reload(ctx context.Context) (*domain.PreparationReport, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	res, err := s.preparer.PrepareFile(ctx, s.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", s.cfg.InputPath, err)
	}
	records, err := analytics.Records(res.Table)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", s.cfg.InputPath, err)
	}

	snap := &Snapshot{
		Table:    res.Table,
		Records:  records,
		Report:   res.Report,
		LoadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.snapshot = snap
	s.reloads++
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "funding data published",
		slog.String("source", s.cfg.InputPath),
		slog.Int("rows", len(records)))

	report := res.Report
	return &report, nil
}

// Snapshot returns the current snapshot.
func (s *DashboardService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, ErrDataNotLoaded
	}
	return s.snapshot, nil
}

// Status reports what is loaded.
func (s *DashboardService) Status() DataStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return DataStatus{Reloads: s.reloads}
	}
	return DataStatus{
		Loaded:   true,
		Source:   s.snapshot.Report.Source,
		Rows:     len(s.snapshot.Records),
		LoadedAt: s.snapshot.LoadedAt,
		Reloads:  s.reloads,
	}
}

// DefaultFilters returns the filters a render without selector state uses.
func (s *DashboardService) DefaultFilters() domain.DashboardFilters {
	return domain.DashboardFilters{Distinct: s.cfg.DistinctCompanies, TopN: s.cfg.TopN}
}

// YearMode returns the configured year selector mode.
func (s *DashboardService) YearMode() domain.YearOptionsMode {
	return domain.YearOptionsMode(s.cfg.YearOptions)
}

func (s *DashboardService) records(ctx context.Context, query string) ([]domain.FundingRecord, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuery(ctx, query)
	return snap.Records, nil
}

// Summary returns the dashboard call-outs.
func (s *DashboardService) Summary(ctx context.Context) (domain.FundingSummary, error) {
	recs, err := s.records(ctx, "summary")
	if err != nil {
		return domain.FundingSummary{}, err
	}
	return analytics.Summarize(recs), nil
}

// YearOptions returns the year selector domain for the configured mode.
func (s *DashboardService) YearOptions(ctx context.Context) ([]int, error) {
	recs, err := s.records(ctx, "year_options")
	if err != nil {
		return nil, err
	}
	return analytics.YearOptions(recs, s.YearMode()), nil
}

// CompanyOptions returns the company selector domain.
func (s *DashboardService) CompanyOptions(ctx context.Context, distinct bool) ([]string, error) {
	recs, err := s.records(ctx, "company_options")
	if err != nil {
		return nil, err
	}
	return analytics.CompanyOptions(recs, distinct), nil
}

// FundingForYear returns the funding total of one year. A year with no
// records is not an error; its total is zero.
func (s *DashboardService) FundingForYear(ctx context.Context, year int) (domain.SelectedFunding, error) {
	if err := validateYear(year); err != nil {
		return domain.SelectedFunding{}, err
	}
	recs, err := s.records(ctx, "year_funding")
	if err != nil {
		return domain.SelectedFunding{}, err
	}
	return analytics.FundingForYear(recs, year), nil
}

// FundingForCompany returns the funding total of one startup.
func (s *DashboardService) FundingForCompany(ctx context.Context, name string) (domain.SelectedFunding, error) {
	if name == "" {
		return domain.SelectedFunding{}, fmt.Errorf("%w: company name is empty", ErrInvalidInput)
	}
	recs, err := s.records(ctx, "company_funding")
	if err != nil {
		return domain.SelectedFunding{}, err
	}
	sel := analytics.FundingForCompany(recs, name)
	if sel.Records == 0 {
		return domain.SelectedFunding{}, fmt.Errorf("%w: %q", ErrCompanyNotFound, name)
	}
	return sel, nil
}

// TopCities ranks cities by funding. limit 0 uses the configured length.
func (s *DashboardService) TopCities(ctx context.Context, limit int) ([]domain.RankedAmount, error) {
	n, err := s.limit(limit)
	if err != nil {
		return nil, err
	}
	recs, err := s.records(ctx, "top_cities")
	if err != nil {
		return nil, err
	}
	return analytics.TopCities(recs, n), nil
}

// TopCompanies ranks startups by funding. limit 0 uses the configured length.
func (s *DashboardService) TopCompanies(ctx context.Context, limit int) ([]domain.RankedAmount, error) {
	n, err := s.limit(limit)
	if err != nil {
		return nil, err
	}
	recs, err := s.records(ctx, "top_companies")
	if err != nil {
		return nil, err
	}
	return analytics.TopCompanies(recs, n), nil
}

// Dashboard computes a full page render. Zero TopN uses the configured length.
func (s *DashboardService) Dashboard(ctx context.Context, filters domain.DashboardFilters) (domain.Dashboard, error) {
	if filters.TopN == 0 {
		filters.TopN = s.cfg.TopN
	}
	if err := s.validateFilters(filters); err != nil {
		return domain.Dashboard{}, err
	}

	recs, err := s.records(ctx, "dashboard")
	if err != nil {
		return domain.Dashboard{}, err
	}
	if filters.Company != "" && analytics.FundingForCompany(recs, filters.Company).Records == 0 {
		return domain.Dashboard{}, fmt.Errorf("%w: %q", ErrCompanyNotFound, filters.Company)
	}

	d := analytics.Dashboard(recs, filters, s.YearMode())
	d.GeneratedAt = time.Now().UTC()

	s.logger.DebugContext(ctx, "dashboard computed",
		slog.Int("records", len(recs)),
		slog.Int("top_n", filters.TopN),
		slog.Bool("distinct", filters.Distinct))
	return d, nil
}

// Report returns how the current snapshot was prepared.
func (s *DashboardService) Report(ctx context.Context) (domain.PreparationReport, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.PreparationReport{}, err
	}
	s.metrics.RecordQuery(ctx, "report")
	return snap.Report, nil
}

func (s *DashboardService) limit(limit int) (int, error) {
	switch {
	case limit == 0:
		return s.cfg.TopN, nil
	case limit < 0 || limit > MaxTopN:
		return 0, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, MaxTopN)
	default:
		return limit, nil
	}
}

func (s *DashboardService) validateFilters(f domain.DashboardFilters) error {
	err := s.validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Year":
				return fmt.Errorf("%w: %v", ErrInvalidYear, fe.Value())
			case "TopN":
				return fmt.Errorf("%w: %v not in [1,%d]", ErrInvalidLimit, fe.Value(), MaxTopN)
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func validateYear(year int) error {
	if year < 1900 || year > 2100 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}
