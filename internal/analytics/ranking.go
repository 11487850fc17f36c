package analytics

import (
	"sort"

	"fundingdash/pkg/contracts/domain"
)

// DefaultTopN is the ranking length used when a caller passes n <= 0.
const DefaultTopN = 5

// KeyFunc extracts the grouping key of a record. An empty key excludes the record.
type KeyFunc func(domain.FundingRecord) string

// TopCities ranks cities by summed funding.
func TopCities(records []domain.FundingRecord, n int) []domain.RankedAmount {
	return TopBy(records, func(r domain.FundingRecord) string { return r.City }, n)
}

// TopCompanies ranks startups by summed funding.
func TopCompanies(records []domain.FundingRecord, n int) []domain.RankedAmount {
	return TopBy(records, func(r domain.FundingRecord) string { return r.StartupName }, n)
}

// TopBy groups records by key, sums their amounts and returns the n largest
// groups in non-increasing order. Groups are visited in ascending key order
// and sorted stably, so equal sums keep that order. Share is the group's
// fraction of TotalFunding(records).
func TopBy(records []domain.FundingRecord, key KeyFunc, n int) []domain.RankedAmount {
	if n <= 0 {
		n = DefaultTopN
	}

	sums := make(map[string]float64)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if r.HasAmount {
			sums[k] += r.AmountUSD
		} else if _, ok := sums[k]; !ok {
			sums[k] = 0
		}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return sums[keys[i]] > sums[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}

	total := TotalFunding(records)
	ranked := make([]domain.RankedAmount, len(keys))
	for i, k := range keys {
		ranked[i] = domain.RankedAmount{Rank: i + 1, Key: k, Amount: sums[k]}
		if total != 0 {
			ranked[i].Share = sums[k] / total
		}
	}
	return ranked
}
