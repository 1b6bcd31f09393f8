// Package fileops holds the only code that mutates the project tree.
//
// Every externally supplied relative path is resolved against the project
// root and rejected if the resolved form escapes it: this is the single
// path-traversal firewall for the whole pipeline. Every mutation writes a
// backup snapshot before touching the source, so a crash between snapshot
// and mutation is retry-safe and every executed change can be undone
// byte-for-byte.
package fileops

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// Status of one attempted file operation.
type Status string

const (
	// StatusExecuted means the mutation happened and a backup exists.
	StatusExecuted Status = "executed"

	// StatusSkipped means nothing was done (e.g. source already gone).
	StatusSkipped Status = "skipped"

	// StatusError means the operation failed; the source may be untouched.
	StatusError Status = "error"
)

// ErrPathTraversal indicates a path resolved outside the project root.
// This is a contract violation, not an expected per-file condition.
var ErrPathTraversal = errors.New("path traversal blocked")

// ErrNoDestination indicates a move without a destination reached FileOps.
var ErrNoDestination = errors.New("move has no destination")

// Result is the outcome of one delete or move.
type Result struct {
	Status     Status
	BackupPath string
	Reason     string
}

// FileOps performs safety-checked mutations inside one project root,
// backed by one backup directory.
type FileOps struct {
	fs         fsops.FS
	projectDir string
	backupDir  string
}

// New creates a FileOps for the given project root and backup directory.
// projectDir is made absolute so containment checks are stable.
func New(fs fsops.FS, projectDir, backupDir string) (*FileOps, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project dir: %w", err)
	}
	return &FileOps{fs: fs, projectDir: abs, backupDir: backupDir}, nil
}

// safeResolve resolves a repo-relative path against the project root and
// rejects anything whose cleaned form is not a strict descendant. The
// path shape is validated first, then the resolved form is checked for
// containment.
func (f *FileOps) safeResolve(relative string) (string, error) {
	native := filepath.FromSlash(relative)
	if err := f.fs.ValidateRelPath(native); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}

	resolved := filepath.Clean(filepath.Join(f.projectDir, native))

	rel, err := filepath.Rel(f.projectDir, resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, relative)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q resolves outside project root", ErrPathTraversal, relative)
	}
	return resolved, nil
}

// Delete removes source after snapshotting it into the backup directory.
// An absent source is skipped; the now-empty parent directory is pruned.
func (f *FileOps) Delete(source string) (Result, error) {
	src, err := f.safeResolve(source)
	if err != nil {
		return Result{Status: StatusError, Reason: "path traversal blocked"}, err
	}

	exists, err := f.fs.Exists(src)
	if err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	if !exists {
		return Result{Status: StatusSkipped, Reason: "not found"}, nil
	}

	backup := f.backupPathFor(source)
	if err := f.snapshot(src, backup); err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	if err := f.fs.Remove(src); err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	f.pruneEmptyParent(src)

	return Result{Status: StatusExecuted, BackupPath: backup}, nil
}

// Move renames source to destination after snapshotting the source.
// An absent source is skipped; an existing, different destination is an
// error so a move never silently overwrites anything.
func (f *FileOps) Move(source, destination string) (Result, error) {
	src, err := f.safeResolve(source)
	if err != nil {
		return Result{Status: StatusError, Reason: "path traversal blocked"}, err
	}
	if destination == "" {
		return Result{Status: StatusError, Reason: "no destination specified"}, ErrNoDestination
	}
	dst, err := f.safeResolve(destination)
	if err != nil {
		return Result{Status: StatusError, Reason: "path traversal blocked"}, err
	}

	exists, err := f.fs.Exists(src)
	if err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	if !exists {
		return Result{Status: StatusSkipped, Reason: "not found"}, nil
	}

	if dst != src {
		if dstExists, err := f.fs.Exists(dst); err != nil {
			return Result{Status: StatusError, Reason: err.Error()}, nil
		} else if dstExists {
			return Result{Status: StatusError, Reason: "destination exists"}, nil
		}
	}

	backup := f.backupPathFor(source)
	if err := f.snapshot(src, backup); err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	if err := f.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}
	if err := f.fs.Rename(src, dst); err != nil {
		return Result{Status: StatusError, Reason: err.Error()}, nil
	}

	return Result{Status: StatusExecuted, BackupPath: backup}, nil
}

// backupPathFor mirrors the project layout inside the backup directory.
func (f *FileOps) backupPathFor(source string) string {
	return filepath.Join(f.backupDir, filepath.FromSlash(source))
}

// snapshot captures src at dst before any mutation: hard link when
// possible, full copy when the backup lives on another device.
func (f *FileOps) snapshot(src, dst string) error {
	if err := f.fs.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Re-running after a crash finds the snapshot already in place.
	if exists, err := f.fs.Exists(dst); err == nil && exists {
		return nil
	}

	if err := f.fs.Link(src, dst); err != nil {
		if err := f.fs.CopyFile(src, dst); err != nil {
			return fmt.Errorf("failed to snapshot %s: %w", src, err)
		}
	}
	return nil
}

// pruneEmptyParent removes the parent directory of path when it is empty
// and not the project root itself.
func (f *FileOps) pruneEmptyParent(path string) {
	parent := filepath.Dir(path)
	if parent == f.projectDir {
		return
	}
	entries, err := f.fs.ReadDir(parent)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = f.fs.Remove(parent)
}

// RollbackEntry is the slice of an action-log entry that rollback needs:
// what was done, to which paths, and where the backup went.
type RollbackEntry struct {
	Type        string
	Source      string
	Destination string
	Status      Status
	BackupPath  string
}

// RollbackOutcome reports what a rollback run restored.
type RollbackOutcome struct {
	Restored int
	Failures []string
	Skipped  []string
}

// Rollback restores executed entries by copying their backups over their
// original locations, processing the log in reverse: a later entry may
// occupy the location an earlier restore needs, so newest-first avoids
// resurrecting the wrong intermediate state.
//
// Restores are lineage-aware: a path that was the destination of an
// earlier move is traced back to the oldest source in the rename chain,
// and that origin is restored from its own (oldest) backup. Missing
// backups are reported and skipped, never fatal.
func (f *FileOps) Rollback(backupDir string, log []RollbackEntry) RollbackOutcome {
	var outcome RollbackOutcome
	restored := make(map[string]struct{})

	for i := len(log) - 1; i >= 0; i-- {
		entry := log[i]
		if entry.Status != StatusExecuted || entry.BackupPath == "" {
			continue
		}

		origin := resolveOrigin(log, i)
		if _, done := restored[origin]; done {
			continue
		}

		backup := filepath.Join(backupDir, filepath.FromSlash(origin))
		if exists, err := f.fs.Exists(backup); err != nil || !exists {
			// Fall back to the entry's own backup before giving up.
			backup = entry.BackupPath
			if exists, err := f.fs.Exists(backup); err != nil || !exists {
				outcome.Skipped = append(outcome.Skipped,
					fmt.Sprintf("backup missing for %s", origin))
				continue
			}
		}

		target, err := f.safeResolve(origin)
		if err != nil {
			outcome.Failures = append(outcome.Failures,
				fmt.Sprintf("%s: %v", origin, err))
			continue
		}

		if err := f.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			outcome.Failures = append(outcome.Failures,
				fmt.Sprintf("%s: %v", origin, err))
			continue
		}
		if err := f.fs.CopyFile(backup, target); err != nil {
			outcome.Failures = append(outcome.Failures,
				fmt.Sprintf("%s: %v", origin, err))
			continue
		}

		restored[origin] = struct{}{}
		outcome.Restored++
	}

	return outcome
}

// resolveOrigin traces entry i's source back through every move executed
// earlier in the log, returning the oldest path in the rename lineage.
func resolveOrigin(log []RollbackEntry, i int) string {
	path := log[i].Source
	for {
		found := false
		for j := i - 1; j >= 0; j-- {
			e := log[j]
			if e.Status == StatusExecuted && e.Type == "MOVE" && e.Destination == path {
				path = e.Source
				i = j
				found = true
				break
			}
		}
		if !found {
			return path
		}
	}
}
