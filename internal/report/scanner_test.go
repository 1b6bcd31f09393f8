package report

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

func TestScanner_Scan(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, projectDir, "index.php", "<?php")
	writeFile(t, projectDir, "lib/util.php", "<?php")
	writeFile(t, projectDir, ".git/config", "ignored")
	writeFile(t, projectDir, ".hidden/secret.php", "ignored")

	if err := os.Symlink(
		filepath.Join(projectDir, "index.php"),
		filepath.Join(projectDir, "link.php")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	found, err := NewScanner(projectDir).Scan()
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for _, want := range []string{"index.php", "lib/util.php"} {
		if _, ok := found[want]; !ok {
			t.Errorf("missing %s", want)
		}
	}
	for _, skip := range []string{".git/config", ".hidden/secret.php", "link.php"} {
		if _, ok := found[skip]; ok {
			t.Errorf("%s should be skipped", skip)
		}
	}
}

func TestScanner_CrossValidate(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, projectDir, "present.php", "<?php")
	writeFile(t, projectDir, "untracked.php", "<?php")

	records := map[string]*FileRecord{
		"present.php": {Path: "present.php", MaxDepth: 2},
		"ghost.php":   {Path: "ghost.php", MaxDepth: 4},
	}

	result, err := NewScanner(projectDir).CrossValidate(records)
	if err != nil {
		t.Fatalf("CrossValidate failed: %v", err)
	}

	if !records["present.php"].ExistsOnDisk {
		t.Error("present.php should be marked as on disk")
	}
	if records["ghost.php"].ExistsOnDisk {
		t.Error("ghost.php should be marked as missing")
	}

	if len(result.Matched) != 1 {
		t.Errorf("Matched = %v, want one entry", result.Matched)
	}
	if len(result.Ghost) != 1 || result.Ghost[0] != "ghost.php" {
		t.Errorf("Ghost = %v", result.Ghost)
	}
	if len(result.NewFiles) != 1 || result.NewFiles[0] != "untracked.php" {
		t.Errorf("NewFiles = %v", result.NewFiles)
	}
}

func TestScanner_CrossValidate_NormalizesDotSlash(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, projectDir, "a.php", "<?php")

	records := map[string]*FileRecord{
		"./a.php": {Path: "./a.php"},
	}

	result, err := NewScanner(projectDir).CrossValidate(records)
	if err != nil {
		t.Fatalf("CrossValidate failed: %v", err)
	}
	if !records["./a.php"].ExistsOnDisk {
		t.Error("./a.php should match a.php on disk")
	}
	if len(result.Ghost) != 0 {
		t.Errorf("Ghost = %v, want none", result.Ghost)
	}
}
