package analytics

import (
	"fmt"

	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

// RequiredColumns are the cleaned columns Records reads.
var RequiredColumns = []string{
	domain.ColumnDate,
	domain.ColumnStartupName,
	domain.ColumnIndustry,
	domain.ColumnCity,
	domain.ColumnInvestors,
	domain.ColumnInvestmentType,
	domain.ColumnAmount,
}

// Records converts a cleaned table into typed records in row order.
func Records(t *table.Table) ([]domain.FundingRecord, error) {
	for _, name := range RequiredColumns {
		if !t.Has(name) {
			return nil, fmt.Errorf("funding records: %w", &table.MissingColumnError{Name: name})
		}
	}

	out := make([]domain.FundingRecord, t.NumRows())
	text := func(name string, set func(*domain.FundingRecord, string)) {
		_ = t.Scan(name, func(row int, v table.Value) {
			if s, ok := v.AsString(); ok {
				set(&out[row], s)
			}
		})
	}
	text(domain.ColumnStartupName, func(r *domain.FundingRecord, s string) { r.StartupName = s })
	text(domain.ColumnIndustry, func(r *domain.FundingRecord, s string) { r.Industry = s })
	text(domain.ColumnCity, func(r *domain.FundingRecord, s string) { r.City = s })
	text(domain.ColumnInvestors, func(r *domain.FundingRecord, s string) { r.Investors = s })
	text(domain.ColumnInvestmentType, func(r *domain.FundingRecord, s string) { r.InvestmentType = s })

	_ = t.Scan(domain.ColumnAmount, func(row int, v table.Value) {
		out[row].AmountUSD, out[row].HasAmount = v.AsFloat()
	})
	_ = t.Scan(domain.ColumnDate, func(row int, v table.Value) {
		out[row].Year, out[row].HasYear = v.AsInt()
	})
	return out, nil
}
