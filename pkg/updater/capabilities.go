// ABOUTME: Capability interfaces the workflow depends on
// ABOUTME: Each seam has a stdlib-backed default and accepts substitutes
package updater

import (
	"context"
	"errors"
	"net/http"
)

// Fetcher performs the two network operations the workflow needs. The
// default is backed by net/http; substitutes can add authentication,
// mirrors, or test doubles.
type Fetcher interface {
	// Available reports whether the fetcher can be used at all. A non-nil
	// error aborts the run before any network traffic.
	Available() error

	// Head issues a single HEAD request without following redirects and
	// returns the response status and headers.
	Head(ctx context.Context, url string) (status int, header http.Header, err error)

	// Download fetches url into the file at dest, following redirects.
	Download(ctx context.Context, url, dest string) error
}

// Extractor unpacks the downloaded bundle archive.
type Extractor interface {
	// Available reports whether extraction is possible. It is consulted
	// once up front and again right before Extract runs.
	Available() error

	// Extract writes the members of archive that live under topDir into
	// dest, preserving relative layout, modes, and modification times.
	Extract(archive, topDir, dest string) error
}

// Copier merges the extracted bundle into the installed toolset.
type Copier interface {
	// Merge copies the tree at src into dest. Files already newer in dest
	// are left alone; everything else is overwritten in place.
	Merge(src, dest string) error
}

// Runner executes the toolset binary to read its version.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) ([]byte, error)
}

// capabilityErr normalizes an Available failure: an error that already is
// a CapabilityError passes through with its own remedy text, anything
// else gets wrapped under the capability's name.
func capabilityErr(name string, err error) error {
	var capErr *CapabilityError
	if errors.As(err, &capErr) {
		return err
	}
	return &CapabilityError{Capability: name, Err: err}
}
