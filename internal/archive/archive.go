// Package archive packs a backup directory into a zstd-compressed tar
// file for long-term retention. The source tree is never removed.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/danieljhkim/phpsweep/internal/fsops"
)

// Suffix is appended to the backup directory name to form the archive
// file name.
const Suffix = ".tar.zst"

// Create archives backupDir into <backupDir>.tar.zst and returns the
// archive path. An existing archive of the same name is an error so a
// prior archive is never silently replaced.
func Create(fs fsops.FS, backupDir string) (string, error) {
	info, err := fs.Lstat(backupDir)
	if err != nil {
		return "", fmt.Errorf("failed to stat backup directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", backupDir)
	}

	archivePath := filepath.Clean(backupDir) + Suffix
	if exists, err := fs.Exists(archivePath); err == nil && exists {
		return "", fmt.Errorf("archive already exists: %s", archivePath)
	}

	// The tar stream needs a real file handle, so the writer side stays
	// on os directly.
	out, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return "", fmt.Errorf("failed to create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	if err := addTree(tw, backupDir); err != nil {
		_ = tw.Close()
		_ = zw.Close()
		_ = os.Remove(archivePath)
		return "", err
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("failed to finalize tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize zstd stream: %w", err)
	}
	if err := out.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync archive: %w", err)
	}
	return archivePath, nil
}

// addTree writes every regular file under root into the tar, with paths
// relative to root. Symlinks are skipped; backups never contain them.
func addTree(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute archive path for %s: %w", path, err)
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to build tar header for %s: %w", rel, err)
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", rel, err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() {
			_ = f.Close()
		}()

		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("failed to archive %s: %w", rel, err)
		}
		return nil
	})
}
