// Package gitignore appends vendored-directory entries to a project's
// .gitignore file, preserving whatever is already there.
package gitignore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/clock"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// Gen generates .gitignore updates from ADD_GITIGNORE actions.
type Gen struct {
	fs   fsops.FS
	path string
	clk  clock.Clock
}

// NewGen creates a Gen for the .gitignore at the root of projectDir.
func NewGen(fs fsops.FS, projectDir string, clk clock.Clock) *Gen {
	return &Gen{
		fs:   fs,
		path: filepath.Join(projectDir, ".gitignore"),
		clk:  clk,
	}
}

// ReadExisting returns the current .gitignore lines with line endings
// preserved, or nil when the file does not exist.
func (g *Gen) ReadExisting() ([]string, error) {
	data, err := g.fs.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	return splitKeepEnds(string(data)), nil
}

// NewEntries derives sorted, rooted entries ("/dir/") from the
// ADD_GITIGNORE actions, skipping anything already present.
func (g *Gen) NewEntries(actions []action.Action) ([]string, error) {
	existing, err := g.ReadExisting()
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, line := range existing {
		present[strings.TrimSpace(line)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var entries []string
	for _, a := range actions {
		if a.Type != action.AddGitignore {
			continue
		}
		entry := "/" + strings.Trim(a.Source, "/") + "/\n"
		key := strings.TrimSpace(entry)
		if _, ok := present[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}

	sort.Strings(entries)
	return entries, nil
}

// BuildContent appends the new entries to the existing content under a
// timestamped comment header, normalizing the trailing newline first.
func (g *Gen) BuildContent(newEntries []string) (string, error) {
	existing, err := g.ReadExisting()
	if err != nil {
		return "", err
	}
	content := strings.Join(existing, "")

	if len(newEntries) == 0 {
		return content, nil
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	if content != "" {
		b.WriteString("\n")
	}
	b.WriteString("# Added by phpsweep " + g.clk.Now().UTC().Format("2006-01-02T15:04:05Z") + "\n")
	for _, entry := range newEntries {
		b.WriteString(entry)
	}
	return b.String(), nil
}

// Diff renders a unified-style diff between the current file and the
// proposed content. Updates are append-only, so the diff is the shared
// prefix as context followed by the added lines.
func (g *Gen) Diff(newContent string) (string, error) {
	existing, err := g.ReadExisting()
	if err != nil {
		return "", err
	}
	proposed := splitKeepEnds(newContent)

	if strings.Join(existing, "") == newContent {
		return "", nil
	}

	// First differing line; everything before it is unchanged context.
	common := 0
	for common < len(existing) && common < len(proposed) && existing[common] == proposed[common] {
		common++
	}

	// An empty range addresses the line before the hunk, per unified
	// diff convention ("-0,0" for a previously absent file).
	oldStart, oldCount := common+1, len(existing)-common
	if oldCount == 0 {
		oldStart = common
	}
	newStart, newCount := common+1, len(proposed)-common
	if newCount == 0 {
		newStart = common
	}

	var b strings.Builder
	b.WriteString("--- .gitignore (current)\n")
	b.WriteString("+++ .gitignore (proposed)\n")
	b.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
		oldStart, oldCount, newStart, newCount))
	for _, line := range existing[common:] {
		b.WriteString("-" + strings.TrimSuffix(line, "\n") + "\n")
	}
	for _, line := range proposed[common:] {
		b.WriteString("+" + strings.TrimSuffix(line, "\n") + "\n")
	}
	return b.String(), nil
}

// Apply generates entries, builds the updated content, and returns its
// diff. With dryRun false the file is also rewritten atomically.
func (g *Gen) Apply(actions []action.Action, dryRun bool) (string, error) {
	entries, err := g.NewEntries(actions)
	if err != nil {
		return "", err
	}
	content, err := g.BuildContent(entries)
	if err != nil {
		return "", err
	}
	diff, err := g.Diff(content)
	if err != nil {
		return "", err
	}

	if !dryRun && diff != "" {
		if err := g.fs.AtomicWrite(g.path, []byte(content), 0644); err != nil {
			return "", fmt.Errorf("failed to write .gitignore: %w", err)
		}
	}
	return diff, nil
}

// splitKeepEnds splits s into lines, each keeping its trailing newline.
func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			return lines
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
		if s == "" {
			return lines
		}
	}
}
