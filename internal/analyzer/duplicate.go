package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/fsops"
	"github.com/danieljhkim/phpsweep/internal/hash"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// canonicalScoreRule penalizes path features that suggest a file is a
// copy rather than the original. The lowest-scoring member of a duplicate
// group is the canonical file.
type canonicalScoreRule struct {
	re      *regexp.Regexp
	penalty int
}

var canonicalScoreRules = []canonicalScoreRule{
	{regexp.MustCompile(`(?i)_copy`), 10},
	{regexp.MustCompile(`(?i)_bak`), 10},
	{regexp.MustCompile(`(?i)_old`), 10},
	{regexp.MustCompile(`(?i)_backup`), 10},
	{regexp.MustCompile(`(?i)copy_of`), 10},
	{regexp.MustCompile(`\(\d+\)`), 10},
	{regexp.MustCompile(`-\d{8}`), 5},
	{regexp.MustCompile(`(?i)/test/`), 5},
	{regexp.MustCompile(`(?i)/backup/`), 20},
	{regexp.MustCompile(`(?i)/bak/`), 20},
}

// DuplicateGroup is a set of files sharing one SHA-256 digest.
type DuplicateGroup struct {
	SHA256    string   `json:"sha256"`
	Files     []string `json:"files"`
	Canonical string   `json:"canonical"`
	Copies    []string `json:"copies"`
}

// DuplicateAnalyzer finds exact content duplicates and proposes deleting
// the non-canonical copies.
type DuplicateAnalyzer struct {
	fs         fsops.FS
	projectDir string
	hasher     hash.Hasher

	// Warnings collects files that could not be hashed.
	Warnings []string
}

// NewDuplicateAnalyzer creates a DuplicateAnalyzer for projectDir.
func NewDuplicateAnalyzer(fs fsops.FS, projectDir string, hasher hash.Hasher) *DuplicateAnalyzer {
	return &DuplicateAnalyzer{fs: fs, projectDir: projectDir, hasher: hasher}
}

// Name returns the analyzer identifier.
func (a *DuplicateAnalyzer) Name() string { return "duplicate_analyzer" }

// Analyze hashes every on-disk, non-empty record and groups files by
// digest. For each group it elects a canonical file by score; every other
// member gets a DELETE action. When the canonical choice is ambiguous
// (tied minimum score, or five or more members) the deletes are HIGH risk
// and no canonical is named.
func (a *DuplicateAnalyzer) Analyze(records map[string]*report.FileRecord) (*Result, error) {
	byDigest := make(map[string][]string)

	for _, relPath := range sortedPaths(records) {
		record := records[relPath]
		if !record.ExistsOnDisk {
			continue
		}
		absPath := filepath.Join(a.projectDir, filepath.FromSlash(relPath))
		info, err := a.fs.Lstat(absPath)
		if err != nil || info.Size() < 1 {
			continue
		}
		digest, err := a.hasher.HashFile(absPath)
		if err != nil {
			a.Warnings = append(a.Warnings, fmt.Sprintf("could not hash %s: %v", relPath, err))
			continue
		}
		byDigest[digest] = append(byDigest[digest], relPath)
	}

	groups := buildGroups(byDigest)

	var actions []action.Action
	totalWastedBytes := int64(0)
	totalDuplicateFiles := 0

	for _, group := range groups {
		totalDuplicateFiles += len(group.Files)

		ambiguous := group.Canonical == "" || len(group.Files) >= 5
		risk := action.RiskMedium
		if ambiguous {
			risk = action.RiskHigh
		}

		canonicalLabel := group.Canonical
		if canonicalLabel == "" {
			canonicalLabel = "unknown"
		}

		for _, copyPath := range group.Copies {
			absCopy := filepath.Join(a.projectDir, filepath.FromSlash(copyPath))
			if info, err := a.fs.Lstat(absCopy); err == nil {
				totalWastedBytes += info.Size()
			}
			actions = append(actions, action.Action{
				Type:   action.Delete,
				Source: copyPath,
				Risk:   risk,
				Reason: fmt.Sprintf("Duplicate of %s (SHA-256: %.12s...)", canonicalLabel, group.SHA256),
			})
		}
	}

	return &Result{
		Analyzer: a.Name(),
		Actions:  actions,
		Metadata: map[string]any{
			"groups":                groups,
			"total_duplicate_files": totalDuplicateFiles,
			"total_wasted_bytes":    totalWastedBytes,
		},
	}, nil
}

// buildGroups turns digest buckets with two or more members into groups
// with an elected canonical. Output is ordered by digest for determinism.
func buildGroups(byDigest map[string][]string) []DuplicateGroup {
	digests := make([]string, 0, len(byDigest))
	for digest, paths := range byDigest {
		if len(paths) >= 2 {
			digests = append(digests, digest)
		}
	}
	sort.Strings(digests)

	groups := make([]DuplicateGroup, 0, len(digests))
	for _, digest := range digests {
		paths := byDigest[digest]

		scores := make(map[string]int, len(paths))
		for _, p := range paths {
			scores[p] = scorePath(p)
		}
		sorted := append([]string(nil), paths...)
		sort.Slice(sorted, func(i, j int) bool {
			if scores[sorted[i]] != scores[sorted[j]] {
				return scores[sorted[i]] < scores[sorted[j]]
			}
			return sorted[i] < sorted[j]
		})

		minScore := scores[sorted[0]]
		tied := 0
		for _, p := range sorted {
			if scores[p] == minScore {
				tied++
			}
		}

		group := DuplicateGroup{SHA256: digest, Files: sorted}
		if tied == 1 {
			group.Canonical = sorted[0]
			group.Copies = sorted[1:]
		} else {
			// No confident canonical; every member is a candidate copy.
			group.Copies = sorted
		}
		groups = append(groups, group)
	}
	return groups
}

// scorePath scores how copy-like a path looks. Higher is more copy-like;
// shorter paths get a bonus because originals tend to sit closer to the
// project root.
func scorePath(p string) int {
	score := 0
	for _, rule := range canonicalScoreRules {
		if rule.re.MatchString(p) {
			score += rule.penalty
		}
	}
	score += len(strings.Split(p, "/"))
	return score
}
