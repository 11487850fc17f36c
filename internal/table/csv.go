package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// DefaultNATokens are the field values read as the missing marker.
var DefaultNATokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// ReadOptions configures ReadCSV.
type ReadOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
	// NATokens overrides DefaultNATokens when non-nil.
	NATokens []string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a header row followed by data rows. Every cell is a String
// cell unless it matches an NA token, in which case it is missing.
// Short rows are padded with missing cells; long rows are rejected.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tokens := opts.NATokens
	if tokens == nil {
		tokens = DefaultNATokens
	}
	na := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		na[tok] = struct{}{}
	}

	values := make([][]Value, len(header))
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrRaggedRow, line, len(rec), len(header))
		}
		for c := range header {
			if c >= len(rec) {
				values[c] = append(values[c], Null())
				continue
			}
			if _, missing := na[rec[c]]; missing {
				values[c] = append(values[c], Null())
				continue
			}
			values[c] = append(values[c], Str(rec[c]))
		}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Values: values[i]}
	}
	return New(cols...)
}

// WriteCSV writes the header and every row. Missing cells are written empty.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.columns))
	for r := 0; r < t.rows; r++ {
		for c, col := range t.columns {
			record[c] = col.Values[r].Format()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
