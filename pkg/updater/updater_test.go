// ABOUTME: Workflow scenario tests from probe through install and cleanup
// ABOUTME: Mixes real capabilities against a mock server with test doubles
package updater

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// seedToolset lays down an installed bundle with a stale fastboot.
func seedToolset(dir string) string {
	bin := filepath.Join(dir, "fastboot")
	Expect(os.WriteFile(bin, []byte("old-fastboot"), 0o755)).To(Succeed())
	old := time.Now().Add(-48 * time.Hour)
	Expect(os.Chtimes(bin, old, old)).To(Succeed())
	return bin
}

var _ = Describe("Workflow", func() {
	var dir, tempRoot string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		tempRoot = GinkgoT().TempDir()
		seedToolset(dir)
	})

	It("performs a full upgrade end to end", func() {
		const filename = "platform-tools_r36.0.0-linux.zip"
		payload := zipBytes([]zipEntry{
			{name: "platform-tools/fastboot", body: "new-fastboot", mode: 0o755, modified: time.Now()},
			{name: "platform-tools/lib64/libusb.so", body: "lib", mode: 0o644, modified: time.Now()},
			{name: "RELEASE_NOTES.txt", body: "outside the bundle"},
		})

		mux := http.NewServeMux()
		mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "/bundles/"+filename)
			w.WriteHeader(http.StatusFound)
		})
		mux.HandleFunc("/bundles/"+filename, func(w http.ResponseWriter, r *http.Request) {
			w.Write(payload)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		var prompt string
		var steps []Step
		w := New(Options{
			Dir:      dir,
			URL:      server.URL + "/latest",
			TempRoot: tempRoot,
			Runner:   versionRunner("34.0.1-8839506"),
			Confirm: func(p string) (bool, error) {
				prompt = p
				return true, nil
			},
			OnStep: func(step Step, detail string) {
				steps = append(steps, step)
			},
		})

		result, err := w.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeInstalled))
		Expect(result.Decision).To(Equal(UpgradeAvailable))
		Expect(result.LocalVersion).To(Equal("34.0.1-8839506"))
		Expect(result.Artifact.Filename).To(Equal(filename))

		Expect(prompt).To(ContainSubstring("34.0.1-8839506"))
		Expect(prompt).To(ContainSubstring("r36.0.0"))

		content, err := os.ReadFile(filepath.Join(dir, "fastboot"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("new-fastboot"))
		Expect(filepath.Join(dir, "lib64", "libusb.so")).To(BeARegularFile())
		Expect(filepath.Join(dir, "RELEASE_NOTES.txt")).NotTo(BeAnExistingFile())

		Expect(steps).To(Equal([]Step{StepResolve, StepDownload, StepExtract, StepInstall, StepCleanup}))

		entries, err := os.ReadDir(tempRoot)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty(), "workspace should be removed")
	})

	It("reports an up-to-date install without prompting", func() {
		fetcher := redirectingFetcher("platform-tools_r34.0.1-linux.zip")
		confirmCalls := 0

		w := New(Options{
			Dir:      dir,
			URL:      "https://example.com/latest",
			TempRoot: tempRoot,
			Fetcher:  fetcher,
			Runner:   versionRunner("34.0.1"),
			Confirm: func(string) (bool, error) {
				confirmCalls++
				return true, nil
			},
		})

		result, err := w.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeUpToDate))
		Expect(result.Decision).To(Equal(UpToDate))
		Expect(confirmCalls).To(Equal(0))
		Expect(fetcher.downloadCalls).To(Equal(0))
	})

	It("treats a newer local install as up to date", func() {
		fetcher := redirectingFetcher("platform-tools_r34.0.1-linux.zip")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    versionRunner("35.0.0"),
			AssumeYes: true,
		})

		result, err := w.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeUpToDate))
		Expect(fetcher.downloadCalls).To(Equal(0))
	})

	It("aborts cleanly when the user declines", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")

		w := New(Options{
			Dir:      dir,
			URL:      "https://example.com/latest",
			TempRoot: tempRoot,
			Fetcher:  fetcher,
			Runner:   versionRunner("34.0.1"),
			Confirm:  func(string) (bool, error) { return false, nil },
		})

		result, err := w.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeAborted))
		Expect(fetcher.downloadCalls).To(Equal(0))

		// A declined run leaves no trace: no probe file, no workspace.
		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Name()).To(Equal("fastboot"))

		entries, err = os.ReadDir(tempRoot)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("exits 127 before any traffic when the extractor is missing", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		runner := versionRunner("34.0.1")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Extractor: &fakeExtractor{availableQueue: []error{errors.New("no zip support")}},
			Runner:    runner,
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var capErr *CapabilityError
		Expect(errors.As(err, &capErr)).To(BeTrue())
		Expect(capErr.Capability).To(Equal("archive extractor"))
		Expect(ExitCode(err)).To(Equal(127))

		Expect(fetcher.headCalls).To(Equal(0))
		Expect(fetcher.downloadCalls).To(Equal(0))
		Expect(runner.calls).To(BeEmpty())
	})

	It("re-checks the extractor after the download", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		fetcher.payload = []byte("never unpacked")
		extractor := &fakeExtractor{availableQueue: []error{nil, errors.New("extractor vanished")}}

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Extractor: extractor,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(ExitCode(err)).To(Equal(127))

		Expect(fetcher.downloadCalls).To(Equal(1))
		Expect(extractor.extractCalls).To(Equal(0))

		entries, err := os.ReadDir(tempRoot)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty(), "workspace should be removed on failure too")
	})

	It("stops before downloading when the directory is not writable", func() {
		if runtime.GOOS == "windows" {
			Skip("directory write bits are not enforced on Windows")
		}
		if os.Geteuid() == 0 {
			Skip("root ignores directory permissions")
		}

		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		Expect(os.Chmod(dir, 0o555)).To(Succeed())
		defer os.Chmod(dir, 0o755)

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var preErr *PreconditionError
		Expect(errors.As(err, &preErr)).To(BeTrue())
		Expect(ExitCode(err)).To(Equal(1))

		Expect(fetcher.headCalls).To(Equal(1), "resolve precedes the decision")
		Expect(fetcher.downloadCalls).To(Equal(0))
	})

	It("surfaces a failed install with the OS code and still cleans up", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		fetcher.payload = []byte("never unpacked")
		copier := &fakeCopier{mergeErr: &fs.PathError{
			Op:   "open",
			Path: filepath.Join(dir, "fastboot"),
			Err:  syscall.EACCES,
		}}

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Extractor: &fakeExtractor{},
			Copier:    copier,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var installErr *InstallError
		Expect(errors.As(err, &installErr)).To(BeTrue())
		Expect(installErr.Code).To(Equal(13))
		Expect(ExitCode(err)).To(Equal(13))

		entries, err := os.ReadDir(tempRoot)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("passes the download status through as the code", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		fetcher.downloadErr = &NetworkError{
			Op:   "download",
			URL:  "https://dl.example.com/bundles/platform-tools_r36.0.0-linux.zip",
			Code: http.StatusServiceUnavailable,
			Err:  errors.New("unexpected status 503 Service Unavailable"),
		}

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(ExitCode(err)).To(Equal(http.StatusServiceUnavailable))
	})

	It("wraps plain download failures with code 1", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		fetcher.downloadErr = errors.New("connection reset")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var netErr *NetworkError
		Expect(errors.As(err, &netErr)).To(BeTrue())
		Expect(netErr.Op).To(Equal("download"))
		Expect(ExitCode(err)).To(Equal(1))
	})

	It("rejects an unparseable local version", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    &fakeRunner{output: []byte("fastboot version unknown\n")},
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var preErr *PreconditionError
		Expect(errors.As(err, &preErr)).To(BeTrue())
		Expect(ExitCode(err)).To(Equal(1))
	})

	It("rejects an artifact filename without a version", func() {
		fetcher := redirectingFetcher("platform-tools_.zip")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Runner:    versionRunner("34.0.1"),
			AssumeYes: true,
		})

		_, err := w.Run(context.Background())
		Expect(err).To(HaveOccurred())

		var netErr *NetworkError
		Expect(errors.As(err, &netErr)).To(BeTrue())
		Expect(netErr.Op).To(Equal("resolve"))
	})

	It("proceeds without prompting when Confirm is nil", func() {
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")
		fetcher.payload = []byte("never unpacked")

		w := New(Options{
			Dir:       dir,
			URL:       "https://example.com/latest",
			TempRoot:  tempRoot,
			Fetcher:   fetcher,
			Extractor: &fakeExtractor{},
			Copier:    &fakeCopier{},
			Runner:    versionRunner("34.0.1"),
		})

		result, err := w.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(OutcomeInstalled))
	})
})

var _ = Describe("Check", func() {
	It("reads both versions without mutating anything", func() {
		dir := GinkgoT().TempDir()
		seedToolset(dir)
		fetcher := redirectingFetcher("platform-tools_r36.0.0-linux.zip")

		w := New(Options{
			Dir:     dir,
			URL:     "https://example.com/latest",
			Fetcher: fetcher,
			Runner:  versionRunner("34.0.1-8839506"),
		})

		status, err := w.Check(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(status.LocalVersion).To(Equal("34.0.1-8839506"))
		Expect(status.Artifact.Version()).To(Equal("r36.0.0"))
		Expect(status.Decision).To(Equal(UpgradeAvailable))
		Expect(fetcher.downloadCalls).To(Equal(0))

		entries, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
	})
})

var _ = Describe("New", func() {
	It("fills in the platform defaults", func() {
		w := New(Options{})
		Expect(w.opts.Dir).To(Equal("."))
		Expect(w.opts.URL).To(Equal(DefaultURL()))
		Expect(w.opts.Executable).To(Equal(DefaultExecutable()))
		Expect(w.opts.BundleDir).To(Equal(DefaultBundleDir))
	})

	It("builds platform URLs from the OS name", func() {
		Expect(defaultURLFor("linux")).To(Equal("https://dl.google.com/android/repository/platform-tools-latest-linux.zip"))
		Expect(defaultURLFor("darwin")).To(Equal("https://dl.google.com/android/repository/platform-tools-latest-darwin.zip"))
		Expect(defaultURLFor("windows")).To(Equal("https://dl.google.com/android/repository/platform-tools-latest-windows.zip"))
		Expect(defaultURLFor("freebsd")).To(Equal("https://dl.google.com/android/repository/platform-tools-latest-linux.zip"))
	})
})
