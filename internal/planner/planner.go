// Package planner merges analyzer findings into one deduplicated, sorted
// action plan and resolves cross-action conflicts no single analyzer
// could see.
//
// Both stages are pure transforms: plan in, plan out, plus a separately
// returned conflict list. Nothing here touches the filesystem.
package planner

import (
	"sort"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/analyzer"
	"github.com/danieljhkim/phpsweep/internal/clock"
)

// BuildPlan flattens every analyzer's actions into one plan.
//
// Duplicate (type, source) keys collapse to a single action at the lowest
// risk level seen for that key; a lower risk means a more confident
// producer, so it wins. Ties keep the first action seen. The surviving
// actions are sorted ascending by (risk, type priority, source) and the
// plan is stamped with the current UTC time and the project root.
func BuildPlan(results []*analyzer.Result, projectDir string, clk clock.Clock) *action.Plan {
	var all []action.Action
	for _, result := range results {
		all = append(all, result.Actions...)
	}

	deduped := deduplicate(all)

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if a.Risk.Ord() != b.Risk.Ord() {
			return a.Risk.Ord() < b.Risk.Ord()
		}
		if a.Type.Ord() != b.Type.Ord() {
			return a.Type.Ord() < b.Type.Ord()
		}
		return a.Source < b.Source
	})

	return &action.Plan{
		Actions:    deduped,
		CreatedAt:  clock.Timestamp(clk),
		ProjectDir: projectDir,
	}
}

// deduplicate keeps one action per (type, source) key, preferring the
// lowest risk and preserving first-seen order.
func deduplicate(actions []action.Action) []action.Action {
	bestIdx := make(map[action.Key]int)
	var kept []action.Action

	for _, a := range actions {
		key := a.Key()
		idx, seen := bestIdx[key]
		if !seen {
			bestIdx[key] = len(kept)
			kept = append(kept, a)
			continue
		}
		if a.Risk.Ord() < kept[idx].Risk.Ord() {
			kept[idx] = a
		}
	}

	return kept
}
