// ABOUTME: Default Copier that merges the new bundle over the installed one
// ABOUTME: Overwrites stale files, skips ones already newer, keeps the rest
package updater

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

type mergeCopier struct{}

// Merge walks src and mirrors it into dest. A file is copied when dest
// does not have it yet or the source copy is newer; files dest already
// holds in a newer state are left untouched, and files absent from src
// are never removed. Modes and modification times carry over so the
// comparison stays meaningful on the next run.
func (mergeCopier) Merge(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if d.Type()&fs.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(p)
			if err != nil {
				return err
			}
			os.Remove(target)
			return os.Symlink(linkTarget, target)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		fresh, err := destIsFresh(target, info.ModTime())
		if err != nil {
			return err
		}
		if fresh {
			return nil
		}

		return copyFile(p, target, info)
	})
}

// destIsFresh reports whether target already carries a modification time
// at or past srcMod.
func destIsFresh(target string, srcMod time.Time) (bool, error) {
	fi, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !fi.ModTime().Before(srcMod), nil
}

func copyFile(src, dest string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	perm := info.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return copyErr
	}

	// OpenFile leaves the mode of a pre-existing file alone.
	if err := os.Chmod(dest, perm); err != nil {
		return err
	}

	return os.Chtimes(dest, time.Now(), info.ModTime())
}
