package exporter

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fundingdash/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write writes the table to w.
func (cw *CSVWriter) Write(w io.Writer, t *table.Table, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	if err := t.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// WriteFile writes the table to filePath, creating parent directories.
func (cw *CSVWriter) WriteFile(filePath string, t *table.Table, options WriteOptions) error {
	cw.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", t.NumRows()))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	buf := bufio.NewWriter(file)
	if err := cw.Write(buf, t, options); err != nil {
		file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return file.Close()
}
