package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundingdash/internal/prep"
	"fundingdash/internal/shared/testutil"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

func fixtureRecords(t *testing.T) []domain.FundingRecord {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	res, err := prep.Prepare(context.Background(), testutil.WriteFundingCSV(t), prep.Options{
		Logger:   logger,
		Observer: prep.NopObserver{},
	})
	require.NoError(t, err)
	recs, err := Records(res.Table)
	require.NoError(t, err)
	return recs
}

func rec(name, city string, amount float64, year int) domain.FundingRecord {
	return domain.FundingRecord{
		StartupName: name,
		City:        city,
		AmountUSD:   amount,
		HasAmount:   true,
		Year:        year,
		HasYear:     year != 0,
	}
}

func TestRecords(t *testing.T) {
	recs := fixtureRecords(t)
	require.Len(t, recs, 8)

	assert.Equal(t, domain.FundingRecord{
		StartupName:    "Byju's",
		Industry:       "E-Tech",
		City:           "Bengaluru",
		Investors:      "Tiger Global",
		InvestmentType: "Private Equity",
		AmountUSD:      1000,
		HasAmount:      true,
		Year:           2020,
		HasYear:        true,
	}, recs[0])
	assert.False(t, recs[5].HasYear, "31/02 does not parse")
	assert.Equal(t, "Lucknow", recs[4].City)
	assert.Equal(t, "IT", recs[3].Industry)
}

func TestRecords_MissingColumn(t *testing.T) {
	tbl, err := table.New(table.Column{Name: domain.ColumnAmount, Values: []table.Value{table.Num(1)}})
	require.NoError(t, err)

	_, err = Records(tbl)
	assert.ErrorIs(t, err, table.ErrMissingColumn)
}

func TestSummarize_Fixture(t *testing.T) {
	assert.Equal(t, domain.FundingSummary{
		Records:           8,
		TotalFunding:      8000,
		DistinctStartups:  7,
		MeanFunding:       1000,
		DistinctInvestors: 8,
	}, Summarize(fixtureRecords(t)))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, domain.FundingSummary{}, Summarize(nil))
}

func TestMeanFunding_SkipsMissingAmounts(t *testing.T) {
	recs := []domain.FundingRecord{rec("A", "X", 100, 0), rec("B", "X", 200, 0), {StartupName: "C"}}
	assert.Equal(t, 150.0, MeanFunding(recs))
	assert.Equal(t, 300.0, TotalFunding(recs))
}

func TestFundingForYear(t *testing.T) {
	recs := fixtureRecords(t)

	tests := []struct {
		year    int
		amount  float64
		records int
	}{
		{2020, 1500, 2},
		{2019, 2300, 2},
		{2018, 1000, 1},
		{2017, 700, 1},
		{2015, 0, 0},
	}
	for _, tt := range tests {
		got := FundingForYear(recs, tt.year)
		assert.Equal(t, tt.amount, got.Amount, "year %d", tt.year)
		assert.Equal(t, tt.records, got.Records, "year %d", tt.year)
		assert.Equal(t, SelectorYear, got.Selector)
	}
}

func TestFundingForCompany(t *testing.T) {
	recs := fixtureRecords(t)

	got := FundingForCompany(recs, "Byju's")
	assert.Equal(t, domain.SelectedFunding{Selector: SelectorCompany, Value: "Byju's", Amount: 3000, Records: 2}, got)

	assert.Zero(t, FundingForCompany(recs, "byju's").Amount, "match is exact")
	assert.Zero(t, FundingForCompany(recs, "").Records)
}

func TestTopCities_Fixture(t *testing.T) {
	top := TopCities(fixtureRecords(t), 5)

	keys := make([]string, len(top))
	amounts := make([]float64, len(top))
	for i, r := range top {
		keys[i] = r.Key
		amounts[i] = r.Amount
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"Bengaluru", "Gurgaon", "Lucknow", "Noida", "Mumbai"}, keys)
	assert.Equal(t, []float64{3700, 2000, 1000, 1000, 300}, amounts)
	assert.InDelta(t, 0.4625, top[0].Share, 1e-9)
}

func TestTopCompanies_Fixture(t *testing.T) {
	recs := fixtureRecords(t)
	top := TopCompanies(recs, 0)

	require.Len(t, top, DefaultTopN)
	keys := make([]string, len(top))
	var sum float64
	for i, r := range top {
		keys[i] = r.Key
		sum += r.Amount
		if i > 0 {
			assert.LessOrEqual(t, r.Amount, top[i-1].Amount)
		}
	}
	assert.Equal(t, []string{"Byju's", "Zomato", "Ola", "Paytm", "Swiggy"}, keys)
	assert.LessOrEqual(t, sum, TotalFunding(recs))
}

func TestTopBy_TiesKeepKeyOrder(t *testing.T) {
	recs := []domain.FundingRecord{
		rec("c", "", 10, 0),
		rec("a", "", 10, 0),
		rec("b", "", 20, 0),
		rec("", "", 99, 0),
	}

	top := TopCompanies(recs, 10)

	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].Key)
	assert.Equal(t, "a", top[1].Key)
	assert.Equal(t, "c", top[2].Key)
}

func TestTopBy_ZeroTotal(t *testing.T) {
	top := TopCities([]domain.FundingRecord{{City: "Pune"}}, 5)
	require.Len(t, top, 1)
	assert.Zero(t, top[0].Share)
	assert.Zero(t, top[0].Amount)
}

func TestYearOptions(t *testing.T) {
	recs := fixtureRecords(t)

	assert.Equal(t, []int{2017, 2018, 2019, 2020}, YearOptions(recs, domain.YearOptionsDerived))
	assert.Equal(t, []int{2019, 2020}, YearOptions(recs, domain.YearOptionsLegacy))
	assert.Equal(t, []int{2019, 2020}, YearOptions(nil, domain.YearOptionsLegacy))
	assert.Empty(t, YearOptions(nil, domain.YearOptionsDerived))

	legacy := YearOptions(recs, domain.YearOptionsLegacy)
	legacy[0] = 1999
	assert.Equal(t, []int{2019, 2020}, domain.LegacyYears, "callers get a copy")
}

func TestCompanyOptions(t *testing.T) {
	recs := fixtureRecords(t)

	legacy := CompanyOptions(recs, false)
	assert.Len(t, legacy, 8)
	assert.Equal(t, "Byju's", legacy[2])

	assert.Equal(t,
		[]string{"Byju's", "Shuttl", "Fashor", "Ola", "Zomato", "Paytm", "Swiggy"},
		CompanyOptions(recs, true))
}

func TestDashboard(t *testing.T) {
	recs := fixtureRecords(t)
	year := 2019

	d := Dashboard(recs, domain.DashboardFilters{Year: &year, Company: "Ola", Distinct: true, TopN: 3}, domain.YearOptionsDerived)

	assert.Equal(t, 8000.0, d.Summary.TotalFunding)
	require.NotNil(t, d.YearFunding)
	assert.Equal(t, 2300.0, d.YearFunding.Amount)
	require.NotNil(t, d.CompanyFunding)
	assert.Equal(t, 1000.0, d.CompanyFunding.Amount)
	assert.Len(t, d.TopCities, 3)
	assert.Len(t, d.TopCompanies, 3)
	assert.Len(t, d.CompanyOptions, 7)
	assert.True(t, d.GeneratedAt.IsZero())
}

func TestDashboard_DefaultsToFirstOptions(t *testing.T) {
	recs := fixtureRecords(t)

	d := Dashboard(recs, domain.DashboardFilters{}, domain.YearOptionsLegacy)

	require.NotNil(t, d.YearFunding)
	assert.Equal(t, "2019", d.YearFunding.Value)
	require.NotNil(t, d.CompanyFunding)
	assert.Equal(t, "Byju's", d.CompanyFunding.Value)
	assert.Len(t, d.TopCities, DefaultTopN)
	assert.Len(t, d.CompanyOptions, 8)
}

func TestDashboard_Empty(t *testing.T) {
	d := Dashboard(nil, domain.DashboardFilters{}, domain.YearOptionsDerived)

	assert.Nil(t, d.YearFunding)
	assert.Nil(t, d.CompanyFunding)
	assert.Empty(t, d.TopCities)
}

func TestDashboard_DoesNotMutateRecords(t *testing.T) {
	recs := fixtureRecords(t)
	before := append([]domain.FundingRecord(nil), recs...)

	_ = Dashboard(recs, domain.DashboardFilters{Distinct: true}, domain.YearOptionsDerived)

	assert.Equal(t, before, recs)
}

func TestFormatUSD(t *testing.T) {
	tests := map[float64]string{
		8000:       "$8,000",
		1000.4:     "$1,000",
		999.5:      "$1,000",
		0:          "$0",
		-0.2:       "$0",
		1234567.89: "$1,234,568",
		-2500:      "-$2,500",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatUSD(in), "FormatUSD(%v)", in)
	}
}

func TestFormatShare(t *testing.T) {
	assert.Equal(t, "50.0%", FormatShare(0.5))
	assert.Equal(t, "12.5%", FormatShare(0.125))
	assert.Equal(t, "0.0%", FormatShare(0))
}
