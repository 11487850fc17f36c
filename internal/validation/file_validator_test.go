package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fundingdash/internal/errors"
	"fundingdash/internal/shared/testutil"
)

func TestFileValidator_ValidateCSVFile(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
		errText string
	}{
		{
			name:  "funding export",
			setup: testutil.WriteFundingCSV,
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr: ErrNotExist,
		},
		{
			name: "directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: ErrNotFile,
		},
		{
			name: "empty file",
			setup: func(t *testing.T) string {
				return testutil.WriteFile(t, "empty.csv", "")
			},
			wantErr: ErrEmptyFile,
		},
		{
			name: "no delimited header",
			setup: func(t *testing.T) string {
				return testutil.WriteFile(t, "notes.csv", "just some text\nmore text\n")
			},
			errText: "no comma separated header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			err := NewFileValidator(logger).ValidateCSVFile(tt.setup(t))

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
				var appErr *apperrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apperrors.ErrTypeValidation, appErr.Type)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_WarnsOnExtension(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := testutil.WriteFile(t, "funding.txt", testutil.FundingCSV)

	require.NoError(t, NewFileValidator(logger).ValidateCSVFile(path))
	assert.True(t, handler.ContainsMessage("Input does not have a .csv extension"))
	assert.True(t, handler.ContainsAttr("extension", ".txt"))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	file := testutil.WriteFile(t, "out.png", "x")
	assert.ErrorIs(t, v.ValidateOutputDirectory(file), ErrNotDirectory)
}
