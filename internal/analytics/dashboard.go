package analytics

import (
	"fundingdash/pkg/contracts/domain"
)

// Dashboard computes a full page render for the given selector state.
//
// A nil filters.Year selects the first year option and an empty
// filters.Company the first company option, the way a selector opens on its
// first entry. When the matching option list is empty the selection is nil.
// GeneratedAt is left zero for the caller to stamp.
func Dashboard(records []domain.FundingRecord, filters domain.DashboardFilters, mode domain.YearOptionsMode) domain.Dashboard {
	d := domain.Dashboard{
		Summary:        Summarize(records),
		TopCities:      TopCities(records, filters.TopN),
		TopCompanies:   TopCompanies(records, filters.TopN),
		YearOptions:    YearOptions(records, mode),
		CompanyOptions: CompanyOptions(records, filters.Distinct),
	}

	switch {
	case filters.Year != nil:
		yf := FundingForYear(records, *filters.Year)
		d.YearFunding = &yf
	case len(d.YearOptions) > 0:
		yf := FundingForYear(records, d.YearOptions[0])
		d.YearFunding = &yf
	}

	company := filters.Company
	if company == "" && len(d.CompanyOptions) > 0 {
		company = d.CompanyOptions[0]
	}
	if company != "" {
		cf := FundingForCompany(records, company)
		d.CompanyFunding = &cf
	}
	return d
}
