// ABOUTME: Environment probing that runs before any network traffic
// ABOUTME: Extractor first, then network client, then the installed binary
package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// probe validates the run environment. Capability misses abort with a
// CapabilityError (exit 127); a missing or broken toolset binary is a
// PreconditionError (exit 1). The extractor is checked first: there is
// no point touching the network when the bundle could never be unpacked.
func (w *Workflow) probe() error {
	if err := w.extractor.Available(); err != nil {
		return capabilityErr("archive extractor", err)
	}
	if err := w.fetcher.Available(); err != nil {
		return capabilityErr("network client", err)
	}
	return CheckExecutable(w.executablePath())
}

// CheckExecutable verifies that bin exists and carries execute
// permission. Failures come back as a PreconditionError.
func CheckExecutable(bin string) error {
	fi, err := os.Stat(bin)
	if err != nil {
		return &PreconditionError{
			Reason: fmt.Sprintf("toolset executable %s not found", bin),
			Err:    err,
		}
	}

	if fi.IsDir() {
		return &PreconditionError{
			Reason: fmt.Sprintf("toolset executable %s is a directory", bin),
		}
	}

	if runtime.GOOS != "windows" && fi.Mode().Perm()&0o111 == 0 {
		return &PreconditionError{
			Reason: fmt.Sprintf("toolset executable %s is not executable", bin),
		}
	}

	return nil
}

// CheckWritable verifies dir accepts new files by creating and removing
// a probe file. The workflow runs it only after the user has confirmed
// the upgrade, so a declined run never touches the filesystem.
func CheckWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return &PreconditionError{
			Reason: fmt.Sprintf("directory %s is not writable", dir),
			Err:    err,
		}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

func (w *Workflow) executablePath() string {
	return filepath.Join(w.opts.Dir, w.opts.Executable)
}
