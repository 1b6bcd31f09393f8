package analyzer

import (
	"path"
	"regexp"
	"sort"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// backupPattern is one filename pattern that marks a file as a likely
// abandoned backup copy.
type backupPattern struct {
	re       *regexp.Regexp
	risk     action.RiskLevel
	label    string
	fullPath bool
}

// Patterns are tried in order and the first match wins, so a file is
// never double-counted. Most patterns match the basename; the x--- prefix
// convention appears anywhere in the path.
var backupPatterns = []backupPattern{
	// LOW risk: clearly abandoned
	{regexp.MustCompile(`(?i)_backup\d*\.(php|txt|sql)$`), action.RiskLow, "explicit backup suffix", false},
	{regexp.MustCompile(`(?i)_bak\d*\.(php|txt|sql)$`), action.RiskLow, "bak suffix", false},
	{regexp.MustCompile(`(?i)_old\d*\.(php|txt|sql)$`), action.RiskLow, "old suffix", false},
	{regexp.MustCompile(`(?i)\.bak$`), action.RiskLow, ".bak extension", false},
	{regexp.MustCompile(`(?i)\.orig$`), action.RiskLow, ".orig extension", false},
	{regexp.MustCompile(`~$`), action.RiskLow, "tilde backup", false},
	{regexp.MustCompile(`(?i)copy_of_`), action.RiskLow, "copy_of prefix", false},
	// MEDIUM risk: date-stamped or test copies
	{regexp.MustCompile(`(?i)-\d{8}\.(php|txt|sql)$`), action.RiskMedium, "date-stamped file", false},
	{regexp.MustCompile(`(?i)_copy\d*\.(php|txt|sql)$`), action.RiskMedium, "copy suffix", false},
	{regexp.MustCompile(`(?i)_test\d*\.(php|txt|sql)$`), action.RiskMedium, "test copy suffix", false},
	{regexp.MustCompile(`(?i)x-{3,}`), action.RiskMedium, "x--- prefix (disabled file)", true},
}

// BackupAnalyzer proposes DELETE actions for backup-like filenames.
type BackupAnalyzer struct{}

// NewBackupAnalyzer creates a BackupAnalyzer.
func NewBackupAnalyzer() *BackupAnalyzer {
	return &BackupAnalyzer{}
}

// Name returns the analyzer identifier.
func (a *BackupAnalyzer) Name() string { return "backup_analyzer" }

// Analyze scans every record path against the backup patterns and emits a
// DELETE action at the matched pattern's risk level.
func (a *BackupAnalyzer) Analyze(records map[string]*report.FileRecord) (*Result, error) {
	paths := sortedPaths(records)

	var actions []action.Action
	byPattern := make(map[string][]string)
	lowCount := 0
	mediumCount := 0

	for _, p := range paths {
		pat := matchBackupPattern(p)
		if pat == nil {
			continue
		}

		actions = append(actions, action.Action{
			Type:   action.Delete,
			Source: p,
			Risk:   pat.risk,
			Reason: "Backup file detected: " + pat.label,
		})
		byPattern[pat.label] = append(byPattern[pat.label], p)

		switch pat.risk {
		case action.RiskLow:
			lowCount++
		case action.RiskMedium:
			mediumCount++
		}
	}

	return &Result{
		Analyzer: a.Name(),
		Actions:  actions,
		Metadata: map[string]any{
			"by_pattern":        byPattern,
			"low_risk_count":    lowCount,
			"medium_risk_count": mediumCount,
		},
	}, nil
}

// matchBackupPattern returns the first pattern matching the path, or nil.
func matchBackupPattern(p string) *backupPattern {
	base := path.Base(p)
	for i := range backupPatterns {
		pat := &backupPatterns[i]
		target := base
		if pat.fullPath {
			target = p
		}
		if pat.re.MatchString(target) {
			return pat
		}
	}
	return nil
}

// sortedPaths returns the record paths in lexicographic order so analyzer
// output is deterministic across runs.
func sortedPaths(records map[string]*report.FileRecord) []string {
	paths := make([]string, 0, len(records))
	for p := range records {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
