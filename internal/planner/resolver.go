package planner

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/action"
)

// Conflict record types.
const (
	ConflictDeleteMove      = "DELETE_MOVE_CONFLICT"
	ConflictDuplicateMove   = "DUPLICATE_MOVE_CONFLICT"
	ConflictRedundantDelete = "REDUNDANT_DELETE"
	ConflictMoveCycle       = "MOVE_CYCLE"
)

// ConflictRecord describes one detected interaction between actions.
// Records are append-only and independent of the plan itself; Resolved
// is false only for conflicts the resolver refuses to guess at (cycles).
type ConflictRecord struct {
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Resolution      string          `json:"resolution"`
	ActionsInvolved []action.Action `json:"actions_involved"`
	Resolved        bool            `json:"resolved"`
}

// Resolver runs the four conflict passes over a plan.
//
// Each pass feeds the next, each change appends a ConflictRecord, and the
// input plan is never mutated: Resolve returns a fresh plan. Actions are
// tracked by slice index within a pass, never by pointer identity, so
// copies of equal actions cannot be confused.
type Resolver struct {
	conflicts []ConflictRecord
}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Conflicts returns every conflict detected so far, resolved or not.
func (r *Resolver) Conflicts() []ConflictRecord {
	return r.conflicts
}

// Resolve runs the passes in their fixed order and returns the corrected
// plan: delete-vs-move, duplicate moves, gitignore-covered deletes, and
// move-chain ordering.
func (r *Resolver) Resolve(plan *action.Plan) *action.Plan {
	actions := append([]action.Action(nil), plan.Actions...)
	actions = r.resolveDeleteMove(actions)
	actions = r.resolveDuplicateMoves(actions)
	actions = r.dropGitignoredDeletes(actions)
	actions = r.orderMoveChains(actions)

	return &action.Plan{
		Actions:    actions,
		CreatedAt:  plan.CreatedAt,
		ProjectDir: plan.ProjectDir,
	}
}

// resolveDeleteMove drops every DELETE whose source another action wants
// to MOVE. A move that something else wanted deleted is more consequential
// than either proposal alone, so the surviving MOVE is flagged and forced
// to HIGH risk.
func (r *Resolver) resolveDeleteMove(actions []action.Action) []action.Action {
	moveSources := make(map[string]struct{})
	for _, a := range actions {
		if a.Type == action.Move {
			moveSources[a.Source] = struct{}{}
		}
	}

	drop := make(map[int]struct{})
	recorded := make(map[string]struct{})

	for i, a := range actions {
		if a.Type != action.Delete {
			continue
		}
		if _, conflicting := moveSources[a.Source]; !conflicting {
			continue
		}
		drop[i] = struct{}{}

		if _, done := recorded[a.Source]; done {
			continue
		}
		recorded[a.Source] = struct{}{}

		var involved []action.Action
		for j := range actions {
			if actions[j].Source != a.Source {
				continue
			}
			switch actions[j].Type {
			case action.Delete:
				involved = append(involved, actions[j])
			case action.Move:
				actions[j].Conflict = true
				actions[j].Risk = action.RiskHigh
				involved = append(involved, actions[j])
			}
		}

		r.record(ConflictRecord{
			Type:            ConflictDeleteMove,
			Source:          a.Source,
			Resolution:      "DELETE removed, MOVE kept with HIGH risk",
			ActionsInvolved: involved,
			Resolved:        true,
		})
	}

	return without(actions, drop)
}

// resolveDuplicateMoves keeps exactly one MOVE per source: the lowest
// risk wins, ties keep the earliest in plan order.
func (r *Resolver) resolveDuplicateMoves(actions []action.Action) []action.Action {
	bySource := make(map[string][]int)
	var sources []string
	for i, a := range actions {
		if a.Type != action.Move {
			continue
		}
		if _, seen := bySource[a.Source]; !seen {
			sources = append(sources, a.Source)
		}
		bySource[a.Source] = append(bySource[a.Source], i)
	}

	drop := make(map[int]struct{})
	for _, source := range sources {
		indexes := bySource[source]
		if len(indexes) < 2 {
			continue
		}

		keep := indexes[0]
		for _, idx := range indexes[1:] {
			if actions[idx].Risk.Ord() < actions[keep].Risk.Ord() {
				keep = idx
			}
		}

		var involved []action.Action
		for _, idx := range indexes {
			involved = append(involved, actions[idx])
			if idx != keep {
				drop[idx] = struct{}{}
			}
		}
		actions[keep].Conflict = true

		r.record(ConflictRecord{
			Type:            ConflictDuplicateMove,
			Source:          source,
			Resolution:      fmt.Sprintf("Lowest-risk MOVE kept (dest=%s), %d duplicate(s) removed", actions[keep].Dest(), len(indexes)-1),
			ActionsInvolved: involved,
			Resolved:        true,
		})
	}

	return without(actions, drop)
}

// dropGitignoredDeletes removes DELETE actions under a directory that an
// ADD_GITIGNORE action already covers: deleting there is unnecessary and
// strictly riskier than leaving the files ignored.
func (r *Resolver) dropGitignoredDeletes(actions []action.Action) []action.Action {
	type ignoredDir struct {
		act action.Action
		dir string
	}
	var ignored []ignoredDir
	for _, a := range actions {
		if a.Type == action.AddGitignore {
			ignored = append(ignored, ignoredDir{act: a, dir: strings.TrimRight(a.Source, "/")})
		}
	}
	if len(ignored) == 0 {
		return actions
	}

	drop := make(map[int]struct{})
	for i, a := range actions {
		if a.Type != action.Delete {
			continue
		}
		for _, gi := range ignored {
			if !strings.HasPrefix(a.Source, gi.dir+"/") {
				continue
			}
			drop[i] = struct{}{}
			r.record(ConflictRecord{
				Type:            ConflictRedundantDelete,
				Source:          a.Source,
				Resolution:      "DELETE removed, covered by ADD_GITIGNORE for " + gi.dir,
				ActionsInvolved: []action.Action{gi.act, a},
				Resolved:        true,
			})
			break
		}
	}

	return without(actions, drop)
}

// orderMoveChains topologically sorts the MOVE actions so that when one
// move's source is another move's destination, the occupying move runs
// first. Non-move actions keep their relative order ahead of the moves.
//
// On a cycle no order is guessed: the plan order is left unchanged, every
// cycle member is flagged, and an unresolved record is appended.
func (r *Resolver) orderMoveChains(actions []action.Action) []action.Action {
	var moveIdx []int
	for i, a := range actions {
		if a.Type == action.Move {
			moveIdx = append(moveIdx, i)
		}
	}
	if len(moveIdx) == 0 {
		return actions
	}

	// source path -> position within moveIdx
	sourcePos := make(map[string]int, len(moveIdx))
	for pos, idx := range moveIdx {
		sourcePos[actions[idx].Source] = pos
	}

	// successors[y] lists moves that must run after move y.
	successors := make(map[int][]int)
	inDegree := make([]int, len(moveIdx))
	for pos, idx := range moveIdx {
		dest := actions[idx].Dest()
		if other, ok := sourcePos[dest]; ok {
			// This move writes onto another move's source, so that
			// other move must vacate the path first.
			successors[other] = append(successors[other], pos)
			inDegree[pos]++
		}
	}

	// Kahn's algorithm; the queue is seeded in plan order so unrelated
	// moves keep their relative order.
	var queue []int
	for pos := range moveIdx {
		if inDegree[pos] == 0 {
			queue = append(queue, pos)
		}
	}

	var sorted []int
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		sorted = append(sorted, pos)
		for _, succ := range successors[pos] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(sorted) < len(moveIdx) {
		// Not all nodes emitted: a cycle. Flag the members still holding
		// an in-degree and leave the order alone.
		var involved []action.Action
		var cycleSources []string
		for pos, idx := range moveIdx {
			if inDegree[pos] > 0 {
				actions[idx].Conflict = true
				involved = append(involved, actions[idx])
				cycleSources = append(cycleSources, actions[idx].Source)
			}
		}
		r.record(ConflictRecord{
			Type:            ConflictMoveCycle,
			Source:          strings.Join(cycleSources, ", "),
			Resolution:      "Move cycle detected; order left unchanged",
			ActionsInvolved: involved,
			Resolved:        false,
		})
		return actions
	}

	var out []action.Action
	for _, a := range actions {
		if a.Type != action.Move {
			out = append(out, a)
		}
	}
	for _, pos := range sorted {
		out = append(out, actions[moveIdx[pos]])
	}
	return out
}

func (r *Resolver) record(c ConflictRecord) {
	r.conflicts = append(r.conflicts, c)
}

// without returns actions minus the dropped indexes, preserving order.
func without(actions []action.Action, drop map[int]struct{}) []action.Action {
	if len(drop) == 0 {
		return actions
	}
	out := make([]action.Action, 0, len(actions)-len(drop))
	for i, a := range actions {
		if _, dropped := drop[i]; !dropped {
			out = append(out, a)
		}
	}
	return out
}
