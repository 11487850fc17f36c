package prep

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "fundingdash/internal/errors"
	"fundingdash/internal/shared/testutil"
	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

func testOptions(t *testing.T) Options {
	logger, _ := testutil.NewTestLogger(t)
	return Options{Logger: logger, Observer: NopObserver{}}
}

func prepareFixture(t *testing.T) *Result {
	t.Helper()
	res, err := Prepare(context.Background(), testutil.WriteFundingCSV(t), testOptions(t))
	require.NoError(t, err)
	return res
}

func cell(t *testing.T, tbl *table.Table, row int, name string) table.Value {
	t.Helper()
	v, err := tbl.Cell(row, name)
	require.NoError(t, err)
	return v
}

func TestPrepare_Fixture(t *testing.T) {
	res := prepareFixture(t)
	tbl := res.Table

	assert.Equal(t, []string{
		domain.ColumnDate, domain.ColumnStartupName, domain.ColumnIndustry, domain.ColumnCity,
		domain.ColumnInvestors, domain.ColumnInvestmentType, domain.ColumnAmount,
	}, tbl.ColumnNames())
	assert.Equal(t, 8, tbl.NumRows())

	amounts := columnValues(t, tbl, domain.ColumnAmount)
	assert.Equal(t, []table.Value{
		table.Num(1000), table.Num(500), table.Num(2000), table.Num(300),
		table.Num(1000), table.Num(1500), table.Num(1000), table.Num(700),
	}, amounts)

	years := columnValues(t, tbl, domain.ColumnDate)
	assert.Equal(t, []table.Value{
		table.Int(2020), table.Int(2020), table.Int(2019), table.Int(2019),
		table.Int(2018), table.Null(), table.Null(), table.Int(2017),
	}, years)

	assert.Equal(t, table.Str("Lucknow"), cell(t, tbl, 4, domain.ColumnCity))
	assert.Equal(t, table.Str("IT"), cell(t, tbl, 3, domain.ColumnIndustry))
	assert.Equal(t, table.Str("Byju's"), cell(t, tbl, 0, domain.ColumnStartupName), "row order preserved")
	assert.Equal(t, table.Str("Swiggy"), cell(t, tbl, 7, domain.ColumnStartupName), "row order preserved")
}

func TestPrepare_Report(t *testing.T) {
	rep := prepareFixture(t).Report

	assert.Equal(t, 8, rep.Rows)
	assert.Equal(t, 10, rep.Columns)
	assert.Equal(t, 1, rep.UnparsedAmounts, "N/A loads as missing, only unknown fails to parse")
	assert.Equal(t, 2, rep.UnparsedDates)
	require.NotNil(t, rep.AmountMean)
	assert.Equal(t, 1000.0, *rep.AmountMean)

	assert.Equal(t, 2, rep.MissingBefore[domain.ColumnAmount])
	assert.Equal(t, 1, rep.MissingBefore[domain.ColumnCity])
	assert.Equal(t, 1, rep.MissingBefore[domain.ColumnIndustry])
	for col, n := range rep.MissingAfter {
		assert.Zero(t, n, "column %s after imputation", col)
	}
	assert.Equal(t, map[string]int{
		domain.ColumnAmount:   2,
		domain.ColumnCity:     1,
		domain.ColumnIndustry: 1,
	}, rep.Imputed)
	assert.False(t, rep.PreparedAt.IsZero())
}

func TestPrepare_InvariantsHold(t *testing.T) {
	tbl := prepareFixture(t).Table

	for _, name := range []string{domain.ColumnAmount, domain.ColumnCity, domain.ColumnIndustry} {
		require.NoError(t, tbl.Scan(name, func(row int, v table.Value) {
			assert.False(t, v.IsMissing(), "%s row %d", name, row)
		}))
	}
	require.NoError(t, tbl.Scan(domain.ColumnDate, func(row int, v table.Value) {
		assert.Contains(t, []table.Kind{table.Integer, table.Missing}, v.Kind(), "row %d", row)
	}))
}

func TestFromReader_Scenario(t *testing.T) {
	input := testutil.FundingHeader + `1,01/02/2016,Ola,,,,SoftBank,Series A,$500,` + "\n"

	res, err := FromReader(context.Background(), strings.NewReader(input), testOptions(t))
	require.NoError(t, err)

	tbl := res.Table
	assert.Equal(t, table.Str("Lucknow"), cell(t, tbl, 0, domain.ColumnCity))
	assert.Equal(t, table.Str("IT"), cell(t, tbl, 0, domain.ColumnIndustry))
	assert.Equal(t, table.Num(500), cell(t, tbl, 0, domain.ColumnAmount))
	assert.Equal(t, table.Int(2016), cell(t, tbl, 0, domain.ColumnDate))
}

func TestFromReader_MeanOfParsedAmounts(t *testing.T) {
	input := testutil.FundingHeader +
		"1,01/01/2019,A,IT,x,Pune,I1,Seed,100,\n" +
		"2,01/01/2019,B,IT,x,Pune,I2,Seed,200,\n" +
		"3,01/01/2019,C,IT,x,Pune,I3,Seed,,\n"

	res, err := FromReader(context.Background(), strings.NewReader(input), testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, table.Num(150), cell(t, res.Table, 2, domain.ColumnAmount))
}

func TestFromReader_NoAmountParses(t *testing.T) {
	input := testutil.FundingHeader + "1,01/01/2019,A,IT,x,Pune,I1,Seed,undisclosed,\n"

	res, err := FromReader(context.Background(), strings.NewReader(input), testOptions(t))
	require.NoError(t, err)

	assert.True(t, cell(t, res.Table, 0, domain.ColumnAmount).IsMissing())
	assert.Nil(t, res.Report.AmountMean)
}

func TestPrepare_MissingRequiredColumn(t *testing.T) {
	header := strings.Replace(testutil.FundingHeader, ",Remarks", "", 1)
	path := testutil.WriteFile(t, "no_remarks.csv", header+"1,01/01/2019,A,IT,x,Pune,I1,Seed,100\n")

	res, err := Prepare(context.Background(), path, testOptions(t))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrMissingColumn))

	var mce *MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "Remarks", mce.Name)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Equal(t, "Remarks", appErr.Context["column"])
}

func TestPrepare_Errors(t *testing.T) {
	_, err := Prepare(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), testOptions(t))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)

	_, err = FromReader(context.Background(), strings.NewReader(""), testOptions(t))
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.ErrorIs(t, err, table.ErrEmptyInput)
}

func TestPrepare_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromReader(ctx, strings.NewReader(testutil.FundingCSV), testOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepare_Deterministic(t *testing.T) {
	path := testutil.WriteFundingCSV(t)

	var outputs [2]bytes.Buffer
	for i := range outputs {
		res, err := Prepare(context.Background(), path, testOptions(t))
		require.NoError(t, err)
		require.NoError(t, res.Table.WriteCSV(&outputs[i]))
	}

	assert.Equal(t, outputs[0].Bytes(), outputs[1].Bytes())
	assert.Contains(t, outputs[0].String(), "2020,Byju's,E-Tech,Bengaluru,Tiger Global,Private Equity,1000\n")
}

func TestPrepare_CustomDefaults(t *testing.T) {
	opts := testOptions(t)
	opts.CityDefault = "Unknown"
	opts.IndustryDefault = "Other"

	res, err := Prepare(context.Background(), testutil.WriteFundingCSV(t), opts)
	require.NoError(t, err)

	assert.Equal(t, table.Str("Unknown"), cell(t, res.Table, 4, domain.ColumnCity))
	assert.Equal(t, table.Str("Other"), cell(t, res.Table, 3, domain.ColumnIndustry))
}

func TestPrepare_CleanIsIdempotent(t *testing.T) {
	first := prepareFixture(t)

	rows := first.Table.NumRows()
	withDropped, err := table.New(append(columnsOf(t, first.Table),
		table.Column{Name: domain.ColumnSerialNumber, Values: make([]table.Value, rows)},
		table.Column{Name: domain.ColumnRemarks, Values: make([]table.Value, rows)},
		table.Column{Name: domain.ColumnSubVertical, Values: make([]table.Value, rows)},
	)...)
	require.NoError(t, err)

	second, err := New(testOptions(t)).Clean(context.Background(), withDropped)
	require.NoError(t, err)

	assert.True(t, second.Table.Equal(first.Table))
	assert.Zero(t, second.Report.UnparsedAmounts)
	assert.Zero(t, second.Report.UnparsedDates)
}

func columnValues(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	return c.Values
}

func columnsOf(t *testing.T, tbl *table.Table) []table.Column {
	t.Helper()
	cols := make([]table.Column, 0, tbl.NumCols())
	for _, name := range tbl.ColumnNames() {
		c, err := tbl.Column(name)
		require.NoError(t, err)
		cols = append(cols, c)
	}
	return cols
}

type recordingObserver struct {
	rows, cols int
	missing    []table.NullCount
}

func (o *recordingObserver) Loaded(_ context.Context, rows, cols int) {
	o.rows, o.cols = rows, cols
}

func (o *recordingObserver) Imputed(_ context.Context, missing []table.NullCount) {
	o.missing = missing
}

func TestPrepare_Observer(t *testing.T) {
	obs := &recordingObserver{}
	opts := testOptions(t)
	opts.Observer = obs

	_, err := Prepare(context.Background(), testutil.WriteFundingCSV(t), opts)
	require.NoError(t, err)

	assert.Equal(t, 8, obs.rows)
	assert.Equal(t, 10, obs.cols)
	require.Len(t, obs.missing, 7)
	for _, nc := range obs.missing {
		assert.Zero(t, nc.Missing, nc.Column)
	}
}

func TestLogObserver(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	opts := Options{Logger: logger}

	_, err := Prepare(context.Background(), testutil.WriteFundingCSV(t), opts)
	require.NoError(t, err)

	assert.True(t, logs.ContainsMessage("funding table loaded"))
	assert.True(t, logs.ContainsMessage("missing values after imputation"))
	assert.True(t, logs.ContainsMessage("funding data prepared"))
	assert.True(t, logs.ContainsAttr("component", "preparer"))
	assert.True(t, logs.ContainsAttr("missing.City_Location", int64(0)))
	testutil.AssertNoErrors(t, logs)
}

func TestPrepare_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	opts := testOptions(t)
	opts.Tracer = tp.Tracer("test")

	_, err := Prepare(context.Background(), testutil.WriteFundingCSV(t), opts)
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"prep.load", "prep.normalize_columns", "prep.drop_columns",
		"prep.coerce_amount", "prep.impute", "prep.extract_year", "prep.prepare",
	}, names)
}

func TestPrepare_FileIsNotModified(t *testing.T) {
	path := testutil.WriteFundingCSV(t)

	_, err := Prepare(context.Background(), path, testOptions(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.FundingCSV, string(data))
}
