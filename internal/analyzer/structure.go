package analyzer

import (
	"fmt"
	"math"
	"path"
	"sort"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// DefaultSimilarityThreshold is the minimum Jaccard similarity between two
// directories' basename sets for the pair to be flagged.
const DefaultSimilarityThreshold = 0.7

// highSimilarity marks a pair as HIGH risk instead of MEDIUM.
const highSimilarity = 0.9

// StructureAnalyzer flags directory pairs whose file names largely
// overlap, a common sign of a copy-pasted directory. All its actions are
// REPORT_ONLY; the flagged pair is named in the reason and metadata.
type StructureAnalyzer struct {
	threshold float64
}

// NewStructureAnalyzer creates a StructureAnalyzer with the given
// similarity threshold; zero or negative means the default.
func NewStructureAnalyzer(threshold float64) *StructureAnalyzer {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &StructureAnalyzer{threshold: threshold}
}

// Name returns the analyzer identifier.
func (a *StructureAnalyzer) Name() string { return "structure_analyzer" }

// SimilarPair describes one flagged directory pair.
type SimilarPair struct {
	DirA        string   `json:"dir_a"`
	DirB        string   `json:"dir_b"`
	Similarity  float64  `json:"similarity"`
	CommonFiles []string `json:"common_files"`
	OnlyInA     []string `json:"only_in_a"`
	OnlyInB     []string `json:"only_in_b"`
}

// Analyze compares every unordered directory pair once and flags pairs at
// or above the similarity threshold.
func (a *StructureAnalyzer) Analyze(records map[string]*report.FileRecord) (*Result, error) {
	dirMap := buildDirMap(records)

	dirs := make([]string, 0, len(dirMap))
	for dir := range dirMap {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var actions []action.Action
	var pairs []SimilarPair

	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			dirA, dirB := dirs[i], dirs[j]
			similarity := jaccard(dirMap[dirA], dirMap[dirB])
			if similarity < a.threshold {
				continue
			}

			risk := action.RiskMedium
			if similarity >= highSimilarity {
				risk = action.RiskHigh
			}

			simPct := int(math.Round(similarity * 100))
			actions = append(actions, action.Action{
				Type:   action.ReportOnly,
				Source: dirA,
				Risk:   risk,
				Reason: fmt.Sprintf(
					"Directories %s and %s share %d%% of file names (Jaccard=%.2f). Possible duplicate.",
					dirA, dirB, simPct, similarity),
			})

			pairs = append(pairs, SimilarPair{
				DirA:        dirA,
				DirB:        dirB,
				Similarity:  math.Round(similarity*10000) / 10000,
				CommonFiles: sortedIntersection(dirMap[dirA], dirMap[dirB]),
				OnlyInA:     sortedDifference(dirMap[dirA], dirMap[dirB]),
				OnlyInB:     sortedDifference(dirMap[dirB], dirMap[dirA]),
			})
		}
	}

	return &Result{
		Analyzer: a.Name(),
		Actions:  actions,
		Metadata: map[string]any{
			"similar_pairs":     pairs,
			"total_directories": len(dirs),
		},
	}, nil
}

// buildDirMap groups record basenames by parent directory. Root-level
// files are grouped under ".".
func buildDirMap(records map[string]*report.FileRecord) map[string]map[string]struct{} {
	dirMap := make(map[string]map[string]struct{})
	for p := range records {
		parent := path.Dir(p)
		if dirMap[parent] == nil {
			dirMap[parent] = make(map[string]struct{})
		}
		dirMap[parent][path.Base(p)] = struct{}{}
	}
	return dirMap
}

// jaccard returns |A∩B| / |A∪B|, or 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	common := 0
	for name := range a {
		if _, ok := b[name]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	return float64(common) / float64(union)
}

func sortedIntersection(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func sortedDifference(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
