package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// DefaultVendorDirs are directory names that hold third-party code and
// belong in .gitignore rather than in the repository.
var DefaultVendorDirs = []string{"vendor", "node_modules", "bower_components"}

// VendorAnalyzer proposes ADD_GITIGNORE actions for vendored directory
// roots found among the report paths.
type VendorAnalyzer struct {
	vendorDirs map[string]struct{}
}

// NewVendorAnalyzer creates a VendorAnalyzer. An empty dir list means the
// defaults.
func NewVendorAnalyzer(vendorDirs []string) *VendorAnalyzer {
	if len(vendorDirs) == 0 {
		vendorDirs = DefaultVendorDirs
	}
	set := make(map[string]struct{}, len(vendorDirs))
	for _, d := range vendorDirs {
		set[strings.TrimSuffix(d, "/")] = struct{}{}
	}
	return &VendorAnalyzer{vendorDirs: set}
}

// Name returns the analyzer identifier.
func (a *VendorAnalyzer) Name() string { return "vendor_analyzer" }

// Analyze finds every vendored root and emits one LOW-risk ADD_GITIGNORE
// action per root.
func (a *VendorAnalyzer) Analyze(records map[string]*report.FileRecord) (*Result, error) {
	roots := make(map[string][]string)
	for p := range records {
		if root, ok := a.vendorRoot(p); ok {
			roots[root] = append(roots[root], p)
		}
	}

	rootNames := make([]string, 0, len(roots))
	for root := range roots {
		rootNames = append(rootNames, root)
	}
	sort.Strings(rootNames)

	totalFiles := len(records)
	totalVendorFiles := 0
	rootsMeta := make(map[string]map[string]any, len(roots))
	var actions []action.Action

	for _, root := range rootNames {
		fileCount := len(roots[root])
		totalVendorFiles += fileCount

		pct := 0.0
		if totalFiles > 0 {
			pct = math.Round(float64(fileCount)/float64(totalFiles)*1000) / 10
		}
		rootsMeta[root+"/"] = map[string]any{"file_count": fileCount, "pct": pct}

		actions = append(actions, action.Action{
			Type:   action.AddGitignore,
			Source: root,
			Risk:   action.RiskLow,
			Reason: fmt.Sprintf(
				"%s/ contains %d files (%.1f%% of project). Add to .gitignore.",
				root, fileCount, pct),
		})
	}

	return &Result{
		Analyzer: a.Name(),
		Actions:  actions,
		Metadata: map[string]any{
			"vendor_roots":       rootsMeta,
			"total_vendor_files": totalVendorFiles,
			"total_files":        totalFiles,
		},
	}, nil
}

// vendorRoot returns the path prefix up to and including the first vendor
// directory component, excluding the filename itself.
func (a *VendorAnalyzer) vendorRoot(p string) (string, bool) {
	parts := strings.Split(p, "/")
	for i := 0; i < len(parts)-1; i++ {
		if _, ok := a.vendorDirs[parts[i]]; ok {
			return strings.Join(parts[:i+1], "/"), true
		}
	}
	return "", false
}
