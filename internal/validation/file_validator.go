package validation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "fundingdash/internal/errors"
)

var (
	// ErrNotExist is returned when the input path is absent.
	ErrNotExist = errors.New("does not exist")
	// ErrNotFile is returned when the input path is a directory.
	ErrNotFile = errors.New("is a directory, not a file")
	// ErrEmptyFile is returned when the input file has no bytes.
	ErrEmptyFile = errors.New("is empty")
	// ErrNotDirectory is returned when an output path exists and is a file.
	ErrNotDirectory = errors.New("is not a directory")
)

// FileValidator checks CLI input files and output directories before the
// pipeline touches them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks that path is a readable, non-empty regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s %w", path, ErrNotExist)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s %w", path, ErrNotFile)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s %w", path, ErrEmptyFile)
	}

	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile runs ValidateFile and checks that the first line looks like
// a delimited header. Extensions other than .csv are logged, not rejected.
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		v.logger.Warn("Input does not have a .csv extension",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 4096)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	first, _, _ := strings.Cut(string(head[:n]), "\n")
	if !strings.Contains(first, ",") {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s has no comma separated header", path)).
			WithContext("path", path)
	}
	return nil
}

// ValidateOutputDirectory creates dir when needed and checks it is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return fmt.Errorf("%s %w", dir, ErrNotDirectory)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
