// Package action defines the cleanup action data model.
//
// An Action is one proposed filesystem change (or informational flag)
// produced by an analyzer: what to do, to which repo-relative path, at what
// risk tier, and why. An ActionPlan is the consolidated, deduplicated,
// sorted list of actions for one run. Two actions are the same proposal
// when they share the (type, source) identity key.
package action

import "strings"

// RiskLevel classifies how much confirmation an action requires before
// execution. Levels are totally ordered: LOW < MEDIUM < HIGH.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Ord returns the numeric position of the risk level in the total order.
// Unknown levels sort last.
func (r RiskLevel) Ord() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return 3
	}
}

// Valid reports whether r is one of the three known levels.
func (r RiskLevel) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// ParseRiskLevel converts a string such as "low" or "HIGH" to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	r := RiskLevel(strings.ToUpper(s))
	return r, r.Valid()
}

// Type is the kind of change an action proposes. Only Delete and Move
// touch files; AddGitignore and ReportOnly are realized outside FileOps.
type Type string

const (
	Delete       Type = "DELETE"
	Move         Type = "MOVE"
	AddGitignore Type = "ADD_GITIGNORE"
	ReportOnly   Type = "REPORT_ONLY"
)

// Ord returns the fixed type priority used for plan ordering:
// ADD_GITIGNORE < DELETE < MOVE < REPORT_ONLY.
func (t Type) Ord() int {
	switch t {
	case AddGitignore:
		return 0
	case Delete:
		return 1
	case Move:
		return 2
	case ReportOnly:
		return 3
	default:
		return 4
	}
}

// Valid reports whether t is a known action type.
func (t Type) Valid() bool {
	return t == Delete || t == Move || t == AddGitignore || t == ReportOnly
}

// Action is one proposed filesystem change or informational flag.
//
// Source and Destination are repo-relative, forward-slash paths.
// Destination is required for MOVE and must be absent for every other type.
// Conflict is owned by the conflict resolver: it is false when an analyzer
// emits the action and set to true only when the action was involved in a
// cross-action conflict.
type Action struct {
	Type        Type      `json:"action_type"`
	Source      string    `json:"source"`
	Destination *string   `json:"destination"`
	Risk        RiskLevel `json:"risk_level"`
	Reason      string    `json:"reason"`
	Conflict    bool      `json:"conflict"`
}

// Key is the identity key of an action within a plan.
type Key struct {
	Type   Type
	Source string
}

// Key returns the (type, source) identity key.
func (a Action) Key() Key {
	return Key{Type: a.Type, Source: a.Source}
}

// Dest returns the destination path, or "" when none is set.
func (a Action) Dest() string {
	if a.Destination == nil {
		return ""
	}
	return *a.Destination
}

// WithDest returns a copy of the action with the destination set.
func (a Action) WithDest(dest string) Action {
	a.Destination = &dest
	return a
}

// Validate returns every shape error in the action. An empty slice means
// the action is valid.
func (a Action) Validate() []string {
	var errs []string

	if a.Source == "" {
		errs = append(errs, "source must be non-empty")
	}
	if a.Reason == "" {
		errs = append(errs, "reason must be non-empty")
	}
	if !a.Type.Valid() {
		errs = append(errs, "unknown action type "+string(a.Type))
	}
	if !a.Risk.Valid() {
		errs = append(errs, "unknown risk level "+string(a.Risk))
	}
	if a.Type == Move && a.Dest() == "" {
		errs = append(errs, "MOVE action must have a non-empty destination")
	}
	if a.Type != Move && a.Destination != nil {
		errs = append(errs, string(a.Type)+" action must not have a destination")
	}

	return errs
}
