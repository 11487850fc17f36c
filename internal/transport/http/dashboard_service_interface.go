package http

import (
	"context"

	"fundingdash/internal/services"
	"fundingdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard queries the HTTP layer needs
type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, filters domain.DashboardFilters) (domain.Dashboard, error)
	DefaultFilters() domain.DashboardFilters
	Summary(ctx context.Context) (domain.FundingSummary, error)
	YearOptions(ctx context.Context) ([]int, error)
	CompanyOptions(ctx context.Context, distinct bool) ([]string, error)
	FundingForYear(ctx context.Context, year int) (domain.SelectedFunding, error)
	FundingForCompany(ctx context.Context, name string) (domain.SelectedFunding, error)
	TopCities(ctx context.Context, limit int) ([]domain.RankedAmount, error)
	TopCompanies(ctx context.Context, limit int) ([]domain.RankedAmount, error)
	Report(ctx context.Context) (domain.PreparationReport, error)
	Snapshot() (*services.Snapshot, error)

	// Reload re-prepares the input file
	Reload(ctx context.Context) (*domain.PreparationReport, error)
}
