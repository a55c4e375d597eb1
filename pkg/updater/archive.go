// ABOUTME: Default Extractor backed by archive/zip
// ABOUTME: Filters to the bundle's top-level directory and guards traversal
package updater

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type zipExtractor struct{}

// DefaultExtractor returns the built-in zip extractor the workflow uses
// when Options.Extractor is nil.
func DefaultExtractor() Extractor {
	return zipExtractor{}
}

func (zipExtractor) Available() error { return nil }

// Extract writes the members of archive that live under topDir into
// dest, keeping archive-relative paths, so "platform-tools/fastboot"
// lands at dest/platform-tools/fastboot. Other members are skipped.
// Modes and modification times are restored so later merge runs can
// still tell fresh files from stale ones.
func (zipExtractor) Extract(archive, topDir, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	destRoot := filepath.Clean(dest)
	prefix := topDir + "/"

	for _, f := range r.File {
		if topDir != "" && f.Name != topDir && !strings.HasPrefix(f.Name, prefix) {
			continue
		}

		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, destRoot+string(os.PathSeparator)) {
			return fmt.Errorf("archive member %q escapes extraction root", f.Name)
		}

		if err := writeMember(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}

	return nil
}

func writeMember(f *zip.File, target string) error {
	mode := f.Mode()

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, dirPerm(mode.Perm()))
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if mode&os.ModeSymlink != 0 {
		linkTarget, err := readMember(f)
		if err != nil {
			return err
		}
		os.Remove(target)
		return os.Symlink(string(linkTarget), target)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	in, err := f.Open()
	if err != nil {
		out.Close()
		return err
	}

	_, copyErr := io.Copy(out, in)
	in.Close()
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return copyErr
	}

	// OpenFile leaves the mode of a pre-existing file alone.
	if err := os.Chmod(target, perm); err != nil {
		return err
	}

	if !f.Modified.IsZero() {
		return os.Chtimes(target, f.Modified, f.Modified)
	}
	return nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func dirPerm(perm os.FileMode) os.FileMode {
	if perm == 0 {
		return 0o755
	}
	// The run needs to write into directories it just created.
	return perm | 0o700
}
