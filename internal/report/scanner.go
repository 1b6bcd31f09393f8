package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks a project directory and cross-validates report records
// against what is actually on disk.
type Scanner struct {
	projectDir string

	// Warnings collects directories that could not be read.
	Warnings []string
}

// ScanResult is the outcome of cross-validating records against disk.
type ScanResult struct {
	// Matched maps path -> record for report entries found on disk.
	Matched map[string]*FileRecord

	// Ghost lists report paths missing from disk, sorted.
	Ghost []string

	// NewFiles lists on-disk paths absent from the report, sorted.
	NewFiles []string
}

// NewScanner creates a Scanner rooted at projectDir.
func NewScanner(projectDir string) *Scanner {
	return &Scanner{projectDir: projectDir}
}

// Scan walks the project directory and returns the set of relative,
// forward-slash file paths found. Hidden directories and symlinks are
// skipped; unreadable directories add a warning and are skipped.
func (s *Scanner) Scan() (map[string]struct{}, error) {
	found := make(map[string]struct{})
	if err := s.walk(s.projectDir, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *Scanner) walk(dir string, found map[string]struct{}) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			s.Warnings = append(s.Warnings, fmt.Sprintf("permission denied scanning %s", dir))
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if err := s.walk(full, found); err != nil {
				return err
			}
			continue
		}
		if entry.Type().IsRegular() {
			rel, err := filepath.Rel(s.projectDir, full)
			if err != nil {
				return fmt.Errorf("failed to compute relative path for %s: %w", full, err)
			}
			found[filepath.ToSlash(rel)] = struct{}{}
		}
	}
	return nil
}

// CrossValidate compares the report records against the files on disk.
// Matched records get ExistsOnDisk=true; ghost records (in the report but
// not on disk) get ExistsOnDisk=false and are listed separately so the
// caller can surface them.
func (s *Scanner) CrossValidate(records map[string]*FileRecord) (*ScanResult, error) {
	diskFiles, err := s.Scan()
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Matched: make(map[string]*FileRecord)}

	for path, record := range records {
		normalized := strings.TrimPrefix(path, "./")
		if _, onDisk := diskFiles[normalized]; onDisk {
			record.ExistsOnDisk = true
			result.Matched[normalized] = record
		} else {
			record.ExistsOnDisk = false
			result.Ghost = append(result.Ghost, normalized)
		}
	}

	reportPaths := make(map[string]struct{}, len(records))
	for path := range records {
		reportPaths[strings.TrimPrefix(path, "./")] = struct{}{}
	}
	for diskPath := range diskFiles {
		if _, inReport := reportPaths[diskPath]; !inReport {
			result.NewFiles = append(result.NewFiles, diskPath)
		}
	}

	sort.Strings(result.Ghost)
	sort.Strings(result.NewFiles)

	return result, nil
}
