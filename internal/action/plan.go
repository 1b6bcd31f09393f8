package action

// Plan is the consolidated action list for one run.
//
// A Plan is created once by the planner, rewritten by the conflict
// resolver, and read-only afterward. CreatedAt is a UTC RFC 3339
// timestamp; ProjectDir is the project root the sources are relative to.
type Plan struct {
	Actions    []Action `json:"actions"`
	CreatedAt  string   `json:"created_at"`
	ProjectDir string   `json:"project_dir"`
}

// Summary holds read-only counts over a plan.
type Summary struct {
	Total  int               `json:"total"`
	ByRisk map[RiskLevel]int `json:"by_risk"`
	ByType map[Type]int      `json:"by_type"`
}

// Summarize returns total, per-risk, and per-type counts for the plan.
// Every known risk level and type appears in the maps, zero or not.
func (p *Plan) Summarize() Summary {
	s := Summary{
		Total: len(p.Actions),
		ByRisk: map[RiskLevel]int{
			RiskLow:    0,
			RiskMedium: 0,
			RiskHigh:   0,
		},
		ByType: map[Type]int{
			AddGitignore: 0,
			Delete:       0,
			Move:         0,
			ReportOnly:   0,
		},
	}
	for _, a := range p.Actions {
		s.ByRisk[a.Risk]++
		s.ByType[a.Type]++
	}
	return s
}

// FilterMaxRisk returns a copy of the plan containing only actions at or
// below the given risk ceiling. The original plan is not modified.
func (p *Plan) FilterMaxRisk(max RiskLevel) *Plan {
	filtered := make([]Action, 0, len(p.Actions))
	for _, a := range p.Actions {
		if a.Risk.Ord() <= max.Ord() {
			filtered = append(filtered, a)
		}
	}
	return &Plan{
		Actions:    filtered,
		CreatedAt:  p.CreatedAt,
		ProjectDir: p.ProjectDir,
	}
}
