// Package validation checks the local files handed to the command line tool
// before they reach the parser or the exporter.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileKind is the document type of a spreadsheet file.
type FileKind string

const (
	KindCSV      FileKind = "csv"
	KindWorkbook FileKind = "xlsx"
)

// ErrUnsupportedFile is returned for files that are neither CSV nor xlsx.
var ErrUnsupportedFile = errors.New("unsupported file type")

// FileValidator provides the file checks shared by the CLI commands
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// KindOf maps the extension of path to a FileKind.
func KindOf(path string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx":
		return KindWorkbook, nil
	}
	return "", fmt.Errorf("%w: %s (use .csv or .xlsx)", ErrUnsupportedFile, filepath.Base(path))
}

// ValidateInputFile checks that path is a readable, non-empty CSV or xlsx
// file and returns its kind.
func (v *FileValidator) ValidateInputFile(path string) (FileKind, error) {
	kind, err := KindOf(path)
	if err != nil {
		v.logger.Error("Input file has an unsupported extension",
			slog.String("file", path))
		return "", err
	}

	// Excel keeps lock files named ~$<name> next to open workbooks
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return "", fmt.Errorf("file %s is a temporary Excel file", path)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return "", fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file %s is empty", path)
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("kind", string(kind)),
		slog.Int64("size", info.Size()))
	return kind, nil
}

// ValidateOutputFile checks that path names a CSV or xlsx file whose
// directory exists.
func (v *FileValidator) ValidateOutputFile(path string) (FileKind, error) {
	kind, err := KindOf(path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		v.logger.Error("Output directory is not accessible",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("output directory %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return kind, nil
}
