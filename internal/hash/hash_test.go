package hash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSHA256Hasher_HashFile(t *testing.T) {
	tmpDir := t.TempDir()
	hasher := NewSHA256Hasher()

	t.Run("known digest", func(t *testing.T) {
		path := filepath.Join(tmpDir, "known.txt")
		if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		got, err := hasher.HashFile(path)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if got != want {
			t.Errorf("HashFile = %s, want %s", got, want)
		}
	})

	t.Run("identical content same digest", func(t *testing.T) {
		a := filepath.Join(tmpDir, "a.php")
		b := filepath.Join(tmpDir, "b.php")
		for _, p := range []string{a, b} {
			if err := os.WriteFile(p, []byte("<?php echo 1;"), 0644); err != nil {
				t.Fatalf("failed to write %s: %v", p, err)
			}
		}

		hashA, err := hasher.HashFile(a)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		hashB, err := hasher.HashFile(b)
		if err != nil {
			t.Fatalf("HashFile failed: %v", err)
		}
		if hashA != hashB {
			t.Errorf("identical files hash differently: %s vs %s", hashA, hashB)
		}
	})

	t.Run("different content different digest", func(t *testing.T) {
		a := filepath.Join(tmpDir, "one.txt")
		b := filepath.Join(tmpDir, "two.txt")
		if err := os.WriteFile(a, []byte("one"), 0644); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if err := os.WriteFile(b, []byte("two"), 0644); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		hashA, _ := hasher.HashFile(a)
		hashB, _ := hasher.HashFile(b)
		if hashA == hashB {
			t.Error("different files share a digest")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := hasher.HashFile(filepath.Join(tmpDir, "missing.txt")); err == nil {
			t.Error("HashFile of a missing file should fail")
		}
	})
}

func TestFakeHasher(t *testing.T) {
	hasher := NewFakeHasher()
	hasher.SetHash("/project/a.php", "digest-a")

	got, err := hasher.HashFile("/project/a.php")
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if got != "digest-a" {
		t.Errorf("HashFile = %s, want digest-a", got)
	}

	fallback, err := hasher.HashFile("/project/unknown.php")
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if fallback != "fakehash" {
		t.Errorf("fallback = %s, want fakehash", fallback)
	}
}
