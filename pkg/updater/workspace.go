// ABOUTME: Scratch directory for the download and extraction
// ABOUTME: Created fresh per run, removed best-effort on every exit path
package updater

import "os"

// newWorkspace creates the per-run scratch directory. The returned
// cleanup removes the whole tree; its error is reported as a notice but
// never replaces the run's outcome.
func newWorkspace(root string) (dir string, cleanup func() error, err error) {
	if root == "" {
		root = os.TempDir()
	}

	dir, err = os.MkdirTemp(root, "ptup-*")
	if err != nil {
		return "", nil, &WorkspaceError{Err: err}
	}

	return dir, func() error { return os.RemoveAll(dir) }, nil
}
