// Package executor walks a resolved plan and applies per-risk gating
// before delegating mutations to fileops.
//
// Dry-run mode (the default) logs every action and touches nothing. Live
// mode creates an owner-only backup directory first, then executes the
// plan in order; one failing action never aborts the rest. Confirmation
// is an injected predicate so gating policy is testable headless.
package executor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/clock"
	"github.com/danieljhkim/phpsweep/internal/fileops"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// ErrAlreadyExecuted indicates Execute was called twice on one instance.
// Each execution owns its backup directory, so instances are single-use.
var ErrAlreadyExecuted = errors.New("executor already used")

// ConfirmFunc decides whether a gated action (or batch) may proceed.
// A nil ConfirmFunc approves everything.
type ConfirmFunc func(prompt string) bool

// LogEntry records the outcome of one action.
type LogEntry struct {
	Action     action.Action  `json:"action"`
	Status     fileops.Status `json:"status"`
	BackupPath string         `json:"backup_path"`
	Error      string         `json:"error,omitempty"`
}

// BackupInfo describes one live execution: where the backups went and
// what happened to each action.
type BackupInfo struct {
	RunID     string     `json:"run_id"`
	Timestamp string     `json:"timestamp"`
	BackupDir string     `json:"backup_dir"`
	Log       []LogEntry `json:"action_log"`
}

// SafeExecutor executes one plan, once.
type SafeExecutor struct {
	plan       *action.Plan
	projectDir string
	backupRoot string
	dryRun     bool
	confirm    ConfirmFunc
	fs         fsops.FS
	clk        clock.Clock
	logf       func(format string, args ...any)
	executed   bool
}

// Options configure a SafeExecutor.
type Options struct {
	// DryRun disables all filesystem mutation; this is the default mode
	// and must be explicitly turned off for a live run.
	DryRun bool

	// Confirm gates MEDIUM (batch) and HIGH (per-action) mutations.
	// nil approves everything.
	Confirm ConfirmFunc

	// Logf receives progress lines; nil discards them.
	Logf func(format string, args ...any)
}

// New creates a SafeExecutor for one plan.
func New(fs fsops.FS, clk clock.Clock, plan *action.Plan, projectDir, backupRoot string, opts Options) *SafeExecutor {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &SafeExecutor{
		plan:       plan,
		projectDir: projectDir,
		backupRoot: backupRoot,
		dryRun:     opts.DryRun,
		confirm:    opts.Confirm,
		fs:         fs,
		clk:        clk,
		logf:       logf,
	}
}

// Execute runs the plan. In dry-run mode it logs each action and returns
// an empty log; in live mode it creates the backup directory, gates each
// mutating action by risk, dispatches approved ones to fileops, and
// writes action_log.json into the backup directory.
func (e *SafeExecutor) Execute() (*BackupInfo, error) {
	if e.executed {
		return nil, ErrAlreadyExecuted
	}
	e.executed = true

	timestamp := clock.BackupStamp(e.clk)
	info := &BackupInfo{
		RunID:     uuid.NewString(),
		Timestamp: timestamp,
		BackupDir: filepath.Join(e.backupRoot, timestamp),
	}

	if e.dryRun {
		for _, a := range e.plan.Actions {
			e.logf("[DRY-RUN] %-13s %-40s (%s) - %s", a.Type, a.Source, a.Risk, a.Reason)
		}
		return info, nil
	}

	// Backed-up sources may hold credentials; owner-only from the start.
	if err := e.fs.MkdirAll(info.BackupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	ops, err := fileops.New(e.fs, e.projectDir, info.BackupDir)
	if err != nil {
		return nil, err
	}

	mediumAsked := false
	mediumApproved := false

	for _, a := range e.plan.Actions {
		// Gitignore and report actions are realized outside this layer.
		if a.Type == action.AddGitignore || a.Type == action.ReportOnly {
			e.logf("%s %s noted (no file ops)", a.Type, a.Source)
			info.Log = append(info.Log, LogEntry{Action: a, Status: fileops.StatusExecuted})
			continue
		}

		approved := true
		switch a.Risk {
		case action.RiskMedium:
			if !mediumAsked {
				mediumAsked = true
				mediumApproved = e.gate(fmt.Sprintf(
					"Proceed with batch of %d MEDIUM actions? [y/N] ", e.countMedium()))
			}
			approved = mediumApproved
		case action.RiskHigh:
			approved = e.gate(fmt.Sprintf("%s %s? [y/N] ", a.Type, a.Source))
		}

		if !approved {
			info.Log = append(info.Log, LogEntry{Action: a, Status: fileops.StatusSkipped})
			continue
		}

		info.Log = append(info.Log, e.dispatch(ops, a))
	}

	if err := SaveLog(e.fs, info); err != nil {
		return nil, err
	}

	return info, nil
}

// dispatch routes one approved mutating action to fileops. Any failure,
// contract violations included, becomes an error entry so the rest of
// the plan still runs.
func (e *SafeExecutor) dispatch(ops *fileops.FileOps, a action.Action) LogEntry {
	var result fileops.Result
	var err error

	switch a.Type {
	case action.Delete:
		result, err = ops.Delete(a.Source)
	case action.Move:
		result, err = ops.Move(a.Source, a.Dest())
	default:
		return LogEntry{Action: a, Status: fileops.StatusError,
			Error: fmt.Sprintf("unknown action type: %s", a.Type)}
	}

	entry := LogEntry{Action: a, Status: result.Status, BackupPath: result.BackupPath}
	if err != nil {
		entry.Error = err.Error()
		e.logf("error executing %s on %s: %v", a.Type, a.Source, err)
	} else if result.Status == fileops.StatusError {
		entry.Error = result.Reason
		e.logf("error executing %s on %s: %s", a.Type, a.Source, result.Reason)
	} else {
		e.logf("%s %s: %s", a.Type, a.Source, result.Status)
	}
	return entry
}

// gate asks for confirmation; a nil confirm function approves.
func (e *SafeExecutor) gate(prompt string) bool {
	if e.confirm == nil {
		return true
	}
	return e.confirm(prompt)
}

// countMedium counts the MEDIUM mutating actions the batch gate covers.
func (e *SafeExecutor) countMedium() int {
	n := 0
	for _, a := range e.plan.Actions {
		if a.Risk == action.RiskMedium && (a.Type == action.Delete || a.Type == action.Move) {
			n++
		}
	}
	return n
}
