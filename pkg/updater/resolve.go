// ABOUTME: Remote metadata resolution from the latest-bundle link
// ABOUTME: One HEAD request, no redirect following, filename from Location
package updater

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Artifact identifies the bundle the latest-link currently points at.
// The version is never fetched from a manifest; it is carried entirely by
// the redirect target's filename.
type Artifact struct {
	Filename string // e.g. "platform-tools_r36.0.0-linux.zip"
	URL      string // resolved download target
}

// Version extracts the release tag embedded in the filename,
// "r36.0.0" from "platform-tools_r36.0.0-linux.zip".
func (a Artifact) Version() string {
	name := strings.TrimSuffix(a.Filename, path.Ext(a.Filename))
	if i := strings.LastIndex(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	name, _, _ = strings.Cut(name, "-")
	return name
}

// resolveArtifact asks the stable latest-link where it currently points.
// The server must answer with a redirect; the response body is never
// read. Any failure surfaces as a NetworkError whose code is the HTTP
// status when one was received.
func resolveArtifact(ctx context.Context, f Fetcher, rawURL string) (Artifact, error) {
	status, header, err := f.Head(ctx, rawURL)
	if err != nil {
		return Artifact{}, &NetworkError{Op: "resolve", URL: rawURL, Code: 1, Err: err}
	}

	if status < 300 || status > 399 {
		return Artifact{}, &NetworkError{
			Op:   "resolve",
			URL:  rawURL,
			Code: status,
			Err:  fmt.Errorf("expected a redirect, got status %d", status),
		}
	}

	location := header.Get("Location")
	if location == "" {
		return Artifact{}, &NetworkError{
			Op:   "resolve",
			URL:  rawURL,
			Code: status,
			Err:  errors.New("redirect carries no Location header"),
		}
	}

	target, err := url.Parse(location)
	if err != nil {
		return Artifact{}, &NetworkError{
			Op:   "resolve",
			URL:  rawURL,
			Code: status,
			Err:  fmt.Errorf("invalid Location %q: %w", location, err),
		}
	}

	name := path.Base(target.Path)
	if name == "" || name == "." || name == "/" {
		return Artifact{}, &NetworkError{
			Op:   "resolve",
			URL:  rawURL,
			Code: status,
			Err:  fmt.Errorf("no filename in Location %q", location),
		}
	}

	// Relative Locations resolve against the link that was asked.
	base, err := url.Parse(rawURL)
	if err != nil {
		return Artifact{}, &NetworkError{Op: "resolve", URL: rawURL, Code: status, Err: err}
	}

	return Artifact{Filename: name, URL: base.ResolveReference(target).String()}, nil
}
