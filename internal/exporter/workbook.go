package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"fundingdash/internal/table"
	"fundingdash/pkg/contracts/domain"
)

// Sheet names of the dashboard workbook, in order.
const (
	SheetSummary      = "Summary"
	SheetTopCities    = "Top Cities"
	SheetTopCompanies = "Top Companies"
	SheetRecords      = "Records"
)

const amountFormat = 3 // built-in "#,##0"

// Workbook builds an XLSX file of a dashboard render and the table it was computed from.
type Workbook struct {
	Dashboard domain.Dashboard
	Report    *domain.PreparationReport
	Table     *table.Table
}

// Build creates the workbook. The caller must Close the returned file.
func (wb Workbook) Build() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetTopCities, SheetTopCompanies, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, int, int) error{
		wb.writeSummary,
		func(f *excelize.File, h, a int) error {
			return writeRanking(f, SheetTopCities, "City", wb.Dashboard.TopCities, h, a)
		},
		func(f *excelize.File, h, a int) error {
			return writeRanking(f, SheetTopCompanies, "Startup", wb.Dashboard.TopCompanies, h, a)
		},
		wb.writeRecords,
	}
	for _, step := range steps {
		if err := step(f, header, amount); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to w.
func (wb Workbook) Write(w io.Writer) error {
	f, err := wb.Build()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (wb Workbook) writeSummary(f *excelize.File, header, amount int) error {
	d := wb.Dashboard
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Funding", d.Summary.TotalFunding},
		{"Total Startups Funded", d.Summary.DistinctStartups},
		{"Average Funding per Startup", d.Summary.MeanFunding},
		{"Total Investors", d.Summary.DistinctInvestors},
		{"Records", d.Summary.Records},
	}
	amountRows := []int{2, 4}
	if d.YearFunding != nil {
		rows = append(rows, []interface{}{"Funding in " + d.YearFunding.Value, d.YearFunding.Amount})
		amountRows = append(amountRows, len(rows))
	}
	if d.CompanyFunding != nil {
		rows = append(rows, []interface{}{"Funding to " + d.CompanyFunding.Value, d.CompanyFunding.Amount})
		amountRows = append(amountRows, len(rows))
	}
	if !d.GeneratedAt.IsZero() {
		rows = append(rows, []interface{}{"Generated At", d.GeneratedAt.UTC().Format(time.RFC3339)})
	}
	if r := wb.Report; r != nil {
		rows = append(rows,
			[]interface{}{"Source", r.Source},
			[]interface{}{"Unparsed Amounts", r.UnparsedAmounts},
			[]interface{}{"Unparsed Dates", r.UnparsedDates},
		)
	}

	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", header); err != nil {
		return err
	}
	for _, row := range amountRows {
		cell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(SheetSummary, cell, cell, amount); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 32)
}

func writeRanking(f *excelize.File, sheet, keyLabel string, ranked []domain.RankedAmount, header, amount int) error {
	rows := make([][]interface{}, 0, len(ranked)+1)
	rows = append(rows, []interface{}{"Rank", keyLabel, "Amount in USD", "Share"})
	for _, r := range ranked {
		rows = append(rows, []interface{}{r.Rank, r.Key, r.Amount, r.Share})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", header); err != nil {
		return err
	}
	if len(ranked) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(ranked)+1)
		if err := f.SetCellStyle(sheet, "C2", last, amount); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "B", "C", 20)
}

func (wb Workbook) writeRecords(f *excelize.File, header, _ int) error {
	if wb.Table == nil {
		return nil
	}
	sw, err := f.NewStreamWriter(SheetRecords)
	if err != nil {
		return fmt.Errorf("records sheet: %w", err)
	}

	names := wb.Table.ColumnNames()
	head := make([]interface{}, len(names))
	for i, n := range names {
		head[i] = excelize.Cell{StyleID: header, Value: n}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for r, row := range wb.Table.Rows() {
		out := make([]interface{}, len(row))
		for c, v := range row {
			out[c] = cellValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := sw.SetRow(cell, out); err != nil {
			return fmt.Errorf("records row %d: %w", r, err)
		}
	}
	return sw.Flush()
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func cellValue(v table.Value) interface{} {
	switch v.Kind() {
	case table.String:
		s, _ := v.AsString()
		return s
	case table.Number:
		f, _ := v.AsFloat()
		return f
	case table.Integer:
		i, _ := v.AsInt()
		return i
	default:
		return nil
	}
}
