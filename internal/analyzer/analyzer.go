// Package analyzer contains the finding producers.
//
// Each analyzer inspects the pre-validated, read-only file-record map and
// proposes risk-tagged actions. Analyzers never touch the plan or the
// filesystem beyond reading file content; interactions between their
// proposals are resolved later at plan level.
package analyzer

import (
	"sort"
	"sync"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/report"
)

// Analyzer produces actions from the file-record map.
type Analyzer interface {
	// Name returns the analyzer's stable identifier.
	Name() string

	// Analyze inspects the records and returns proposed actions.
	Analyze(records map[string]*report.FileRecord) (*Result, error)
}

// Result is the outcome of one analyzer run.
type Result struct {
	Analyzer string          `json:"analyzer_name"`
	Actions  []action.Action `json:"actions"`
	Metadata map[string]any  `json:"metadata"`
}

// runOutcome pairs a result with its error for collection across goroutines.
type runOutcome struct {
	result *Result
	err    error
}

// RunAll runs every analyzer concurrently over the shared record map.
// The map is read-only by contract, so no locking is needed. Results come
// back sorted by analyzer name so downstream output is deterministic
// regardless of completion order. The first analyzer error is returned.
func RunAll(analyzers []Analyzer, records map[string]*report.FileRecord) ([]*Result, error) {
	outcomes := make([]runOutcome, len(analyzers))

	var wg sync.WaitGroup
	for i, a := range analyzers {
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			result, err := a.Analyze(records)
			outcomes[i] = runOutcome{result: result, err: err}
		}(i, a)
	}
	wg.Wait()

	results := make([]*Result, 0, len(analyzers))
	for _, out := range outcomes {
		if out.err != nil {
			return nil, out.err
		}
		results = append(results, out.result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Analyzer < results[j].Analyzer
	})
	return results, nil
}
