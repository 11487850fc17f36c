// Package exporter writes the funding dashboard's downloadable artifacts.
//
// CSVWriter writes the cleaned funding table as CSV, optionally behind a
// UTF-8 BOM for Excel. Output is deterministic: the same table always gives
// the same bytes.
//
// Workbook builds an XLSX dashboard with four sheets (Summary, Top Cities,
// Top Companies, Records) using excelize.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteFile("out/cleaned.csv", result.Table, exporter.WriteOptions{BOMPrefix: true})
package exporter
