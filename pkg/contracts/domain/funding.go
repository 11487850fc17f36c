package domain

// Column labels of the funding table after label normalization.
const (
	ColumnSerialNumber   = "Sr_No"
	ColumnDate           = "Date_dd/mm/yyyy"
	ColumnStartupName    = "Startup_Name"
	ColumnIndustry       = "Industry_Vertical"
	ColumnSubVertical    = "SubVertical"
	ColumnCity           = "City_Location"
	ColumnInvestors      = "Investors_Name"
	ColumnInvestmentType = "InvestmentnType"
	ColumnAmount         = "Amount_in_USD"
	ColumnRemarks        = "Remarks"
)

// UnusedColumns are removed by the preparer before any value is touched.
var UnusedColumns = []string{ColumnSerialNumber, ColumnRemarks, ColumnSubVertical}

// YearOptionsMode selects how the year selector's domain is built.
type YearOptionsMode string

const (
	// YearOptionsDerived lists every distinct year present in the data.
	YearOptionsDerived YearOptionsMode = "derived"
	// YearOptionsLegacy lists the fixed years the first dashboard shipped with.
	YearOptionsLegacy YearOptionsMode = "legacy"
)

// LegacyYears is the fixed year selector domain of YearOptionsLegacy.
var LegacyYears = []int{2019, 2020}

// Valid reports whether m is a known mode.
func (m YearOptionsMode) Valid() bool {
	return m == YearOptionsDerived || m == YearOptionsLegacy
}

// FundingRecord is a typed view of one cleaned row.
// Missing cells are reported as zero values with the matching Has* flag unset.
type FundingRecord struct {
	StartupName    string  `json:"startup_name,omitempty"`
	Industry       string  `json:"industry_vertical"`
	City           string  `json:"city_location"`
	Investors      string  `json:"investors_name,omitempty"`
	InvestmentType string  `json:"investment_type,omitempty"`
	AmountUSD      float64 `json:"amount_usd"`
	Year           int     `json:"year,omitempty"`
	HasAmount      bool    `json:"-"`
	HasYear        bool    `json:"-"`
}
