// ABOUTME: Package documentation for the embeddable update workflow
// ABOUTME: Covers the version model, capability seams, and exit codes

// Package updater implements the platform-tools update workflow: probe
// the environment, read the installed and published versions, and on
// confirmation download, extract, and merge the new bundle in place.
//
// The workflow is one constructible object:
//
//	w := updater.New(updater.Options{Dir: "/opt/platform-tools"})
//	result, err := w.Run(ctx)
//
// Check performs the read-only half (probe, version read, remote
// resolve, decision) and is what the status surfaces build on.
//
// Version model
//   - The published version is never fetched from a manifest; it is
//     carried by the filename the stable latest-link redirects to.
//   - Versions normalize to a single integer (major*10^12 + minor*10^6
//     + patch); release tags like "r36.0.0" and platform suffixes like
//     "-linux" are ignored, so "r36.0.0" and "36.0.0-windows" compare
//     equal.
//   - Only a strictly newer published version triggers an upgrade offer.
//
// Every stage the workflow depends on (Fetcher, Extractor, Copier,
// Runner) is an interface with a stdlib-backed default, so embedders can
// inject mirrors, alternative archive formats, or test doubles. Failures
// map to process exit codes through ExitCode: 127 for a missing
// capability, the failing sub-step's own code for network, extract, and
// install errors, and 1 otherwise.
package updater
