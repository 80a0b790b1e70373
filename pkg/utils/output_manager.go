package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a relative path would leave its root directory.
var ErrOutsideRoot = errors.New("path escapes its root directory")

// ResolveUnder joins rel onto root. rel must be relative and stay inside root.
func ResolveUnder(root, rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	return filepath.Join(root, rel), nil
}

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateRunOutputDir creates the directory holding one run's artifacts
func (om *OutputManager) CreateRunOutputDir(runID string) (string, error) {
	runDir := filepath.Join(om.BaseOutputDir, filepath.Base(runID))

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}

	return runDir, nil
}

// ResolveRunFile returns the path of an existing artifact inside a run directory.
// Path separators in either argument are stripped so callers cannot escape the base dir.
func (om *OutputManager) ResolveRunFile(runID, fileName string) (string, error) {
	return om.ResolveRunSubdirFile(runID, "", fileName)
}

// ResolveRunSubdirFile is ResolveRunFile for a file one directory below the run dir.
// An empty subdir means the run dir itself.
func (om *OutputManager) ResolveRunSubdirFile(runID, subdir, fileName string) (string, error) {
	cleanRunID := filepath.Base(runID)
	cleanFileName := filepath.Base(fileName)
	if !validSegment(cleanRunID) || !validSegment(cleanFileName) {
		return "", fmt.Errorf("invalid artifact reference %q/%q", runID, fileName)
	}

	dir := filepath.Join(om.BaseOutputDir, cleanRunID)
	if subdir != "" {
		cleanSubdir := filepath.Base(subdir)
		if !validSegment(cleanSubdir) {
			return "", fmt.Errorf("invalid artifact subdir %q", subdir)
		}
		dir = filepath.Join(dir, cleanSubdir)
	}

	path := filepath.Join(dir, cleanFileName)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && s != string(filepath.Separator)
}

// GetDownloadURL generates a download URL for a file
func (om *OutputManager) GetDownloadURL(runID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/api/v1/download/%s/%s", runID, cleanFileName)
}

// GetFileType determines the file type based on extension
func (om *OutputManager) GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".png":
		return "image"
	case ".txt":
		return "text"
	case ".xlsx":
		return "excel"
	default:
		return "unknown"
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
