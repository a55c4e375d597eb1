// ABOUTME: Structured error types for every workflow failure class
// ABOUTME: Maps errors to process exit codes, passing sub-step codes through
package updater

import (
	"errors"
	"fmt"
	"syscall"
)

// CapabilityError reports that a required capability (archive extractor,
// network client) is not usable. It maps to exit code 127.
type CapabilityError struct {
	Capability string
	Remedy     string
	Err        error
}

func (e *CapabilityError) Error() string {
	msg := fmt.Sprintf("missing capability: %s", e.Capability)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Remedy != "" {
		msg += "\n  " + e.Remedy
	}
	return msg
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// PreconditionError reports a run environment that cannot support the
// update: missing or non-executable toolset binary, unwritable target
// directory, unparseable local version. It maps to exit code 1.
type PreconditionError struct {
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// ExecError reports a failure to read the installed version from the
// toolset executable. It maps to exit code 1.
type ExecError struct {
	Bin string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to read version from %s: %v", e.Bin, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// WorkspaceError reports that the scratch directory could not be created.
// It maps to exit code 1.
type WorkspaceError struct {
	Err error
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("failed to create workspace: %v", e.Err)
}

func (e *WorkspaceError) Unwrap() error { return e.Err }

// NetworkError reports a failed resolve or download. Code carries the
// HTTP status when a response was received, 1 otherwise, and becomes the
// process exit code.
type NetworkError struct {
	Op   string // "resolve" or "download"
	URL  string
	Code int
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed for %s (code %d): %v", e.Op, e.URL, e.Code, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ExtractError reports a failed archive extraction. Code carries the
// underlying OS errno when one is available, 1 otherwise.
type ExtractError struct {
	Archive string
	Code    int
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract failed for %s (code %d): %v", e.Archive, e.Code, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// InstallError reports a failed merge into the toolset directory. The
// partially copied state is left in place; Code carries the underlying
// OS errno when one is available, 1 otherwise.
type InstallError struct {
	Code int
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install failed (code %d): %v", e.Code, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// ExitCode maps a workflow error to the process exit code: 0 for nil,
// 127 for missing capabilities, the embedded sub-step code for network,
// extract, and install failures, and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var (
		capErr     *CapabilityError
		netErr     *NetworkError
		extractErr *ExtractError
		installErr *InstallError
	)
	switch {
	case errors.As(err, &capErr):
		return 127
	case errors.As(err, &netErr):
		return clampCode(netErr.Code)
	case errors.As(err, &extractErr):
		return clampCode(extractErr.Code)
	case errors.As(err, &installErr):
		return clampCode(installErr.Code)
	}
	return 1
}

func clampCode(code int) int {
	// The OS keeps only the low byte of an exit status, so a code that
	// is a multiple of 256 would read as success.
	if code < 1 || code&0xff == 0 {
		return 1
	}
	return code
}

// errnoCode digs the OS error number out of a syscall-level failure, so
// a permission denial surfaces as 13 (EACCES) rather than a generic 1.
func errnoCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 1
}

func wrapDownload(url string, err error) error {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return err
	}
	return &NetworkError{Op: "download", URL: url, Code: 1, Err: err}
}

func wrapExtract(archive string, err error) error {
	var extractErr *ExtractError
	if errors.As(err, &extractErr) {
		return err
	}
	return &ExtractError{Archive: archive, Code: errnoCode(err), Err: err}
}

func wrapInstall(err error) error {
	var installErr *InstallError
	if errors.As(err, &installErr) {
		return err
	}
	return &InstallError{Code: errnoCode(err), Err: err}
}
