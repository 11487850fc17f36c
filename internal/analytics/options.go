package analytics

import (
	"sort"

	"fundingdash/pkg/contracts/domain"
)

// YearOptions returns the year selector domain. Derived mode lists the
// distinct years present in records in ascending order; legacy mode returns
// domain.LegacyYears whatever the data holds. Unknown modes behave as derived.
func YearOptions(records []domain.FundingRecord, mode domain.YearOptionsMode) []int {
	if mode == domain.YearOptionsLegacy {
		return append([]int(nil), domain.LegacyYears...)
	}

	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if !r.HasYear {
			continue
		}
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

// CompanyOptions returns the company selector domain in row order. With
// distinct set each name appears once, at its first position; otherwise
// every record contributes its name, duplicates included. Missing names are
// skipped in both modes.
func CompanyOptions(records []domain.FundingRecord, distinct bool) []string {
	names := make([]string, 0, len(records))
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.StartupName == "" {
			continue
		}
		if distinct {
			if _, ok := seen[r.StartupName]; ok {
				continue
			}
			seen[r.StartupName] = struct{}{}
		}
		names = append(names, r.StartupName)
	}
	return names
}
