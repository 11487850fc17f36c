package analytics

import (
	"strconv"

	"fundingdash/pkg/contracts/domain"
)

// Selector names used in SelectedFunding.
const (
	SelectorYear    = "year"
	SelectorCompany = "company"
)

// TotalFunding sums the amount of every record. Missing amounts are skipped.
func TotalFunding(records []domain.FundingRecord) float64 {
	var total float64
	for _, r := range records {
		if r.HasAmount {
			total += r.AmountUSD
		}
	}
	return total
}

// MeanFunding is the mean amount over records with an amount, or 0 when there are none.
func MeanFunding(records []domain.FundingRecord) float64 {
	var sum float64
	var n int
	for _, r := range records {
		if r.HasAmount {
			sum += r.AmountUSD
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// DistinctStartups counts distinct non-empty startup names.
func DistinctStartups(records []domain.FundingRecord) int {
	return countDistinct(records, func(r domain.FundingRecord) string { return r.StartupName })
}

// DistinctInvestors counts distinct non-empty investor strings. A syndicate
// listed as "A, B" is one investor string.
func DistinctInvestors(records []domain.FundingRecord) int {
	return countDistinct(records, func(r domain.FundingRecord) string { return r.Investors })
}

func countDistinct(records []domain.FundingRecord, key func(domain.FundingRecord) string) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if k := key(r); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// FundingForYear sums the amounts of records whose year is year.
// Records with a missing year never match.
func FundingForYear(records []domain.FundingRecord, year int) domain.SelectedFunding {
	sel := domain.SelectedFunding{Selector: SelectorYear, Value: strconv.Itoa(year)}
	for _, r := range records {
		if r.HasYear && r.Year == year {
			sel.Records++
			if r.HasAmount {
				sel.Amount += r.AmountUSD
			}
		}
	}
	return sel
}

// FundingForCompany sums the amounts of records whose startup name is exactly name.
func FundingForCompany(records []domain.FundingRecord, name string) domain.SelectedFunding {
	sel := domain.SelectedFunding{Selector: SelectorCompany, Value: name}
	if name == "" {
		return sel
	}
	for _, r := range records {
		if r.StartupName == name {
			sel.Records++
			if r.HasAmount {
				sel.Amount += r.AmountUSD
			}
		}
	}
	return sel
}

// Summarize computes the dashboard call-outs.
func Summarize(records []domain.FundingRecord) domain.FundingSummary {
	return domain.FundingSummary{
		Records:           len(records),
		TotalFunding:      TotalFunding(records),
		DistinctStartups:  DistinctStartups(records),
		MeanFunding:       MeanFunding(records),
		DistinctInvestors: DistinctInvestors(records),
	}
}
