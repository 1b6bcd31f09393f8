package gitignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/phpsweep/internal/action"
	"github.com/danieljhkim/phpsweep/internal/clock"
	"github.com/danieljhkim/phpsweep/internal/fsops"
)

func setupGen(t *testing.T) (*Gen, string) {
	t.Helper()
	projectDir := t.TempDir()
	clk := clock.NewFakeClock(time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC))
	return NewGen(fsops.NewRealFS(), projectDir, clk), projectDir
}

func gitignoreActions(sources ...string) []action.Action {
	var actions []action.Action
	for _, s := range sources {
		actions = append(actions, action.Action{
			Type: action.AddGitignore, Source: s, Risk: action.RiskLow, Reason: "vendored",
		})
	}
	return actions
}

func writeGitignore(t *testing.T, projectDir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(projectDir, ".gitignore"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .gitignore: %v", err)
	}
}

func readGitignore(t *testing.T, projectDir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(projectDir, ".gitignore"))
	if err != nil {
		t.Fatalf("failed to read .gitignore: %v", err)
	}
	return string(data)
}

func TestGen_NewEntries(t *testing.T) {
	gen, projectDir := setupGen(t)
	writeGitignore(t, projectDir, "/vendor/\n*.log\n")

	entries, err := gen.NewEntries(gitignoreActions("vendor", "node_modules", "node_modules"))
	if err != nil {
		t.Fatalf("NewEntries failed: %v", err)
	}

	// vendor is already present; the duplicate collapses.
	if len(entries) != 1 || entries[0] != "/node_modules/\n" {
		t.Errorf("entries = %q", entries)
	}
}

func TestGen_Apply_CreatesFile(t *testing.T) {
	gen, projectDir := setupGen(t)

	diff, err := gen.Apply(gitignoreActions("vendor"), false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff == "" {
		t.Fatal("expected a non-empty diff")
	}

	content := readGitignore(t, projectDir)
	if !strings.Contains(content, "/vendor/\n") {
		t.Errorf("content = %q, want the vendor entry", content)
	}
	if !strings.Contains(content, "# Added by phpsweep 2026-08-24T10:30:00Z") {
		t.Errorf("content = %q, want the timestamped header", content)
	}
}

func TestGen_Apply_PreservesExistingContent(t *testing.T) {
	gen, projectDir := setupGen(t)
	existing := "# hand-written\n*.log\n"
	writeGitignore(t, projectDir, existing)

	if _, err := gen.Apply(gitignoreActions("vendor"), false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	content := readGitignore(t, projectDir)
	if !strings.HasPrefix(content, existing) {
		t.Errorf("existing content was not preserved:\n%s", content)
	}
	if !strings.HasSuffix(content, "/vendor/\n") {
		t.Errorf("new entry not appended:\n%s", content)
	}
}

func TestGen_Apply_NormalizesMissingTrailingNewline(t *testing.T) {
	gen, projectDir := setupGen(t)
	writeGitignore(t, projectDir, "*.log") // no trailing newline

	if _, err := gen.Apply(gitignoreActions("vendor"), false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	content := readGitignore(t, projectDir)
	if !strings.Contains(content, "*.log\n") {
		t.Errorf("last existing line not newline-terminated:\n%q", content)
	}
}

func TestGen_Apply_DryRunWritesNothing(t *testing.T) {
	gen, projectDir := setupGen(t)

	diff, err := gen.Apply(gitignoreActions("vendor"), true)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff == "" {
		t.Error("dry run should still report the diff")
	}
	if _, err := os.Lstat(filepath.Join(projectDir, ".gitignore")); !os.IsNotExist(err) {
		t.Error("dry run created .gitignore")
	}
}

func TestGen_Apply_NoNewEntriesNoWrite(t *testing.T) {
	gen, projectDir := setupGen(t)
	existing := "/vendor/\n"
	writeGitignore(t, projectDir, existing)

	diff, err := gen.Apply(gitignoreActions("vendor"), false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff != "" {
		t.Errorf("diff = %q, want empty when everything is already present", diff)
	}
	if readGitignore(t, projectDir) != existing {
		t.Error("file changed despite no new entries")
	}
}

func TestGen_Apply_IgnoresOtherActionTypes(t *testing.T) {
	gen, projectDir := setupGen(t)

	diff, err := gen.Apply([]action.Action{
		{Type: action.Delete, Source: "a.php", Risk: action.RiskLow, Reason: "backup"},
	}, false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if diff != "" {
		t.Errorf("diff = %q, want empty", diff)
	}
	if _, err := os.Lstat(filepath.Join(projectDir, ".gitignore")); !os.IsNotExist(err) {
		t.Error(".gitignore created for non-gitignore actions")
	}
}

func TestGen_Diff_Format(t *testing.T) {
	gen, projectDir := setupGen(t)
	writeGitignore(t, projectDir, "*.log\n")

	entries, err := gen.NewEntries(gitignoreActions("vendor"))
	if err != nil {
		t.Fatalf("NewEntries failed: %v", err)
	}
	content, err := gen.BuildContent(entries)
	if err != nil {
		t.Fatalf("BuildContent failed: %v", err)
	}
	diff, err := gen.Diff(content)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	if !strings.HasPrefix(diff, "--- .gitignore (current)\n+++ .gitignore (proposed)\n") {
		t.Errorf("diff header:\n%s", diff)
	}
	if !strings.Contains(diff, "+/vendor/\n") {
		t.Errorf("diff missing added entry:\n%s", diff)
	}
	if strings.Contains(diff, "-*.log") {
		t.Errorf("unchanged line reported as removed:\n%s", diff)
	}
	// Pure additions address the line before the insertion point.
	if !strings.Contains(diff, "@@ -1,0 +2,3 @@\n") {
		t.Errorf("hunk header:\n%s", diff)
	}
}

func TestGen_Diff_NewFileHunkHeader(t *testing.T) {
	gen, _ := setupGen(t)

	entries, err := gen.NewEntries(gitignoreActions("vendor"))
	if err != nil {
		t.Fatalf("NewEntries failed: %v", err)
	}
	content, err := gen.BuildContent(entries)
	if err != nil {
		t.Fatalf("BuildContent failed: %v", err)
	}
	diff, err := gen.Diff(content)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}

	// No .gitignore yet: the old side is the empty range "-0,0".
	if !strings.Contains(diff, "@@ -0,0 +1,2 @@\n") {
		t.Errorf("hunk header for a new file:\n%s", diff)
	}
	if strings.Contains(diff, "\n-") {
		t.Errorf("new-file diff reports removals:\n%s", diff)
	}
}
