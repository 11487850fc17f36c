package domain

import "time"

// DashboardFilters carries the selector state of one dashboard render.
type DashboardFilters struct {
	Year     *int   `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Company  string `json:"company,omitempty" validate:"max=256"`
	Distinct bool   `json:"distinct"`
	TopN     int    `json:"top_n" validate:"min=1,max=50"`
}

// FundingSummary is the row of numeric call-outs at the top of the dashboard.
type FundingSummary struct {
	Records           int     `json:"records"`
	TotalFunding      float64 `json:"total_funding"`
	DistinctStartups  int     `json:"distinct_startups"`
	MeanFunding       float64 `json:"mean_funding"`
	DistinctInvestors int     `json:"distinct_investors"`
}

// RankedAmount is one group of a top-N ranking.
type RankedAmount struct {
	Rank   int     `json:"rank"`
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
	Share  float64 `json:"share"`
}

// SelectedFunding is the funding total for one selector value.
type SelectedFunding struct {
	Selector string  `json:"selector"`
	Value    string  `json:"value"`
	Amount   float64 `json:"amount"`
	Records  int     `json:"records"`
}

// Dashboard is everything one page render needs.
type Dashboard struct {
	Summary        FundingSummary   `json:"summary"`
	YearFunding    *SelectedFunding `json:"year_funding,omitempty"`
	CompanyFunding *SelectedFunding `json:"company_funding,omitempty"`
	TopCities      []RankedAmount   `json:"top_cities"`
	TopCompanies   []RankedAmount   `json:"top_companies"`
	YearOptions    []int            `json:"year_options"`
	CompanyOptions []string         `json:"company_options"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// PreparationReport describes one run of the cleaning pipeline.
// Rows and Columns are the shape of the input as loaded. UnparsedAmounts and
// UnparsedDates count cells that held text which failed to parse; cells read
// as NA tokens are already missing on load and only show in MissingBefore.
type PreparationReport struct {
	Source          string         `json:"source"`
	Rows            int            `json:"rows"`
	Columns         int            `json:"columns"`
	MissingBefore   map[string]int `json:"missing_before"`
	MissingAfter    map[string]int `json:"missing_after"`
	UnparsedAmounts int            `json:"unparsed_amounts"`
	UnparsedDates   int            `json:"unparsed_dates"`
	AmountMean      *float64       `json:"amount_mean,omitempty"`
	Imputed         map[string]int `json:"imputed"`
	Duration        time.Duration  `json:"duration_ns"`
	PreparedAt      time.Time      `json:"prepared_at"`
}
