// ABOUTME: The update workflow: probe, compare, confirm, install
// ABOUTME: Options carry every seam so embedders can swap any part out
package updater

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
)

// Step names a workflow phase for progress reporting.
type Step string

const (
	StepResolve  Step = "resolve"
	StepDownload Step = "download"
	StepExtract  Step = "extract"
	StepInstall  Step = "install"
	StepCleanup  Step = "cleanup"
)

// Outcome is how a completed run ended.
type Outcome string

const (
	OutcomeUpToDate  Outcome = "up-to-date"
	OutcomeAborted   Outcome = "aborted"
	OutcomeInstalled Outcome = "installed"
)

// Status is the read-only result of comparing the installation against
// the published bundle.
type Status struct {
	LocalVersion string
	Artifact     Artifact
	Decision     Decision
}

// Result is the terminal state of a full run.
type Result struct {
	Status
	Outcome Outcome
}

// Options configure a Workflow. The zero value targets the current
// directory and the platform's latest-bundle link with the built-in
// capabilities.
type Options struct {
	Dir        string // toolset directory, default "."
	URL        string // latest-bundle link, default DefaultURL()
	Executable string // version oracle inside Dir, default DefaultExecutable()
	BundleDir  string // top-level directory inside the archive, default DefaultBundleDir
	TempRoot   string // parent for the scratch workspace, default os.TempDir()

	// AssumeYes skips confirmation. When Confirm is nil the workflow
	// behaves as if AssumeYes were set.
	AssumeYes bool
	Confirm   func(prompt string) (bool, error)

	// OnStep announces each phase as it starts; OnNotice carries
	// non-fatal warnings such as a failed workspace removal. OnProgress
	// receives download byte counts and is wired into the default
	// Fetcher only.
	OnStep     func(step Step, detail string)
	OnNotice   func(msg string)
	OnProgress func(written, total int64)

	Fetcher   Fetcher
	Extractor Extractor
	Copier    Copier
	Runner    Runner
}

// Workflow runs the update sequence against one toolset directory.
type Workflow struct {
	opts      Options
	fetcher   Fetcher
	extractor Extractor
	copier    Copier
	runner    Runner
}

// New fills in defaults and returns a ready Workflow.
func New(opts Options) *Workflow {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.URL == "" {
		opts.URL = DefaultURL()
	}
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable()
	}
	if opts.BundleDir == "" {
		opts.BundleDir = DefaultBundleDir
	}

	w := &Workflow{opts: opts}

	w.fetcher = opts.Fetcher
	if w.fetcher == nil {
		w.fetcher = NewHTTPFetcher(nil, opts.OnProgress)
	}
	w.extractor = opts.Extractor
	if w.extractor == nil {
		w.extractor = zipExtractor{}
	}
	w.copier = opts.Copier
	if w.copier == nil {
		w.copier = mergeCopier{}
	}
	w.runner = opts.Runner
	if w.runner == nil {
		w.runner = execRunner{}
	}

	return w
}

// Check probes the environment, reads both versions, and reports whether
// an upgrade is available. It never mutates anything.
func (w *Workflow) Check(ctx context.Context) (*Status, error) {
	if err := w.probe(); err != nil {
		return nil, err
	}

	local, err := readLocalVersion(ctx, w.runner, w.executablePath())
	if err != nil {
		return nil, err
	}

	w.step(StepResolve, w.opts.URL)
	artifact, err := resolveArtifact(ctx, w.fetcher, w.opts.URL)
	if err != nil {
		return nil, err
	}

	localN, err := Normalize(local)
	if err != nil {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("cannot parse local version %q", local),
			Err:    err,
		}
	}
	remoteN, err := Normalize(artifact.Version())
	if err != nil {
		return nil, &NetworkError{
			Op:   "resolve",
			URL:  w.opts.URL,
			Code: 1,
			Err:  fmt.Errorf("cannot parse remote version %q: %w", artifact.Version(), err),
		}
	}

	return &Status{
		LocalVersion: local,
		Artifact:     artifact,
		Decision:     Decide(localN, remoteN),
	}, nil
}

// Run performs the full sequence. An up-to-date installation or a
// declined confirmation ends the run successfully without touching
// anything. There is no rollback: a failed install leaves the partially
// merged state in place, and the next run repairs it.
func (w *Workflow) Run(ctx context.Context) (*Result, error) {
	status, err := w.Check(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Status: *status}

	if status.Decision == UpToDate {
		result.Outcome = OutcomeUpToDate
		return result, nil
	}

	ok, err := w.confirm(status)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		result.Outcome = OutcomeAborted
		return result, nil
	}

	if err := CheckWritable(w.opts.Dir); err != nil {
		return nil, err
	}

	ws, cleanup, err := newWorkspace(w.opts.TempRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		w.step(StepCleanup, ws)
		if rmErr := cleanup(); rmErr != nil {
			w.notice(fmt.Sprintf("failed to remove workspace %s: %v", ws, rmErr))
		}
	}()

	archive := filepath.Join(ws, status.Artifact.Filename)
	w.step(StepDownload, status.Artifact.Filename)
	if err := w.fetcher.Download(ctx, status.Artifact.URL, archive); err != nil {
		return nil, wrapDownload(status.Artifact.URL, err)
	}

	// The extractor is consulted again right before it is needed.
	if err := w.extractor.Available(); err != nil {
		return nil, capabilityErr("archive extractor", err)
	}
	w.step(StepExtract, status.Artifact.Filename)
	if err := w.extractor.Extract(archive, w.opts.BundleDir, ws); err != nil {
		return nil, wrapExtract(status.Artifact.Filename, err)
	}

	w.step(StepInstall, w.opts.Dir)
	if err := w.copier.Merge(filepath.Join(ws, w.opts.BundleDir), w.opts.Dir); err != nil {
		return nil, wrapInstall(err)
	}

	result.Outcome = OutcomeInstalled
	return result, nil
}

func (w *Workflow) confirm(status *Status) (bool, error) {
	if w.opts.AssumeYes || w.opts.Confirm == nil {
		return true, nil
	}
	prompt := fmt.Sprintf("Update %s → %s?", status.LocalVersion, status.Artifact.Version())
	return w.opts.Confirm(prompt)
}

func (w *Workflow) step(step Step, detail string) {
	if w.opts.OnStep != nil {
		w.opts.OnStep(step, detail)
	}
}

func (w *Workflow) notice(msg string) {
	if w.opts.OnNotice != nil {
		w.opts.OnNotice(msg)
	}
}

// DefaultURL returns the latest-bundle link for the current platform.
func DefaultURL() string {
	return defaultURLFor(runtime.GOOS)
}

func defaultURLFor(goos string) string {
	osName := "linux"
	switch goos {
	case "darwin":
		osName = "darwin"
	case "windows":
		osName = "windows"
	}
	return fmt.Sprintf("https://dl.google.com/android/repository/platform-tools-latest-%s.zip", osName)
}

// DefaultExecutable returns the name of the bundled version oracle.
func DefaultExecutable() string {
	if runtime.GOOS == "windows" {
		return "fastboot.exe"
	}
	return "fastboot"
}

// DefaultBundleDir is the top-level directory inside the bundle archive.
const DefaultBundleDir = "platform-tools"
