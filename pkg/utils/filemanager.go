// =============================================================================
// Ventas Semaforo - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for a run, including:
//   - Input directory and workbook resolution
//   - Output directory creation
//   - Output file naming
//
// INPUT LAYOUT:
//   Both workbooks live in one input directory. The drivers sheet may live
//   in the sales workbook, in which case both names resolve to one file.
//
// =============================================================================

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	// ErrNotADirectory is returned when a directory path names a file.
	ErrNotADirectory = eris.New("not a directory")

	// ErrFileNotFound is returned when an input workbook does not exist.
	ErrFileNotFound = eris.New("file not found")
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for one run.
type FileManager struct {
	// InputDir is the directory holding the input workbooks.
	InputDir string

	// OutputDir is the directory where the output workbook is written.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// ResolveInput returns the path of an input workbook.
func (fm *FileManager) ResolveInput(name string) (string, error) {
	return ResolveExistingFile(fm.InputDir, name)
}

// PrepareOutput creates the output directory and returns the path of the
// output workbook named after format.
//
// PARAMETERS:
//   - format: The file name format (see GenerateOutputFileName).
//   - params: Extra placeholder values.
//
// RETURNS:
//   - The output workbook path.
//   - An error if the output directory cannot be created.
func (fm *FileManager) PrepareOutput(format string, params map[string]string) (string, error) {
	dir, err := EnsureDir(fm.OutputDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, GenerateOutputFileName(format, params)), nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir if it does not exist and returns its absolute path.
//
// RETURNS:
//   - The absolute directory path.
//   - ErrNotADirectory if the path exists but is a file, or an error if the
//     directory cannot be created.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", eris.Wrapf(err, "resolve directory %s", dir)
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return "", eris.Wrapf(ErrNotADirectory, "%s", abs)
	case err == nil:
		return abs, nil
	case !os.IsNotExist(err):
		return "", eris.Wrapf(err, "stat directory %s", abs)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", eris.Wrapf(err, "create directory %s", abs)
	}
	zap.L().Debug("utils: directory created", zap.String("dir", abs))
	return abs, nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// ResolveExistingFile joins dir and name and checks that the result is a
// regular file.
//
// PARAMETERS:
//   - dir: The directory. It must exist.
//   - name: The file name, relative to dir. An absolute name is used as is.
//
// RETURNS:
//   - The absolute file path.
//   - ErrNotADirectory or ErrFileNotFound (wrapped) when the lookup fails.
func ResolveExistingFile(dir, name string) (string, error) {
	if name == "" {
		return "", eris.New("file name is required")
	}

	path := name
	if !filepath.IsAbs(name) {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return "", eris.Wrapf(ErrFileNotFound, "input directory %s", dir)
			}
			return "", eris.Wrapf(err, "stat input directory %s", dir)
		}
		if !info.IsDir() {
			return "", eris.Wrapf(ErrNotADirectory, "%s", dir)
		}
		path = filepath.Join(dir, name)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", eris.Wrapf(err, "resolve file %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", eris.Wrapf(ErrFileNotFound, "%s", abs)
		}
		return "", eris.Wrapf(err, "stat file %s", abs)
	}
	if info.IsDir() {
		return "", eris.Wrapf(ErrFileNotFound, "%s is a directory", abs)
	}

	zap.L().Info("utils: input file found", zap.String("path", abs))
	return abs, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output workbook name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {sales}     - Sales workbook name (without extension), when
//                             passed in params
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//   format: "{sales}_homologado_{date}"
//   params: {"sales": "ventas_marzo"}
//   output: "ventas_marzo_homologado_20240115.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
