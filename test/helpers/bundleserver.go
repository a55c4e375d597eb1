// ABOUTME: BundleServer publishes a fake platform-tools bundle over HTTP
// ABOUTME: Serves a once-redirecting latest link backed by an in-memory zip
package helpers

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	. "github.com/onsi/gomega"
)

// BundleServer mimics the download endpoint: a stable latest link that
// redirects once to a versioned bundle archive.
type BundleServer struct {
	Latest  string // the latest-bundle link to point the CLI at
	Version string // release tag carried by the redirect filename
	Script  string // fastboot body inside the served bundle

	archive []byte
	srv     *httptest.Server

	mu        sync.Mutex
	requests  int
	downloads int
}

// StartBundleServer publishes a bundle carrying the given version. The
// bundled fastboot is a runnable script that reports version plus a
// build suffix, like the real binary.
func StartBundleServer(version string) *BundleServer {
	s := &BundleServer{
		Version: version,
		Script:  FastbootScript(version + "-5943041"),
	}
	s.archive = bundleZip(s.Script)

	filename := fmt.Sprintf("platform-tools_r%s-linux.zip", version)

	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/bundles/"+filename, http.StatusFound)
	})
	mux.HandleFunc("/bundles/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.downloads++
		s.mu.Unlock()
		w.Header().Set("Content-Length", fmt.Sprint(len(s.archive)))
		w.Write(s.archive)
	})

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	s.Latest = s.srv.URL + "/latest"
	return s
}

// Requests reports how many requests of any kind the server has seen
func (s *BundleServer) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Downloads reports how many bundle fetches the server has seen
func (s *BundleServer) Downloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloads
}

// MissingURL returns a link the server answers with 404
func (s *BundleServer) MissingURL() string {
	return s.srv.URL + "/missing"
}

// Close shuts the server down
func (s *BundleServer) Close() {
	s.srv.Close()
}

// bundleZip builds an archive shaped like the published bundle: the
// platform-tools directory plus a stray top-level file that must never
// be installed. Members are stamped with the current time so they win
// the merge against a backdated installation.
func bundleZip(fastbootBody string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	now := time.Now()
	add := func(name, body string, mode os.FileMode) {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: now}
		hdr.SetMode(mode)
		w, err := zw.CreateHeader(hdr)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(body))
		Expect(err).NotTo(HaveOccurred())
	}

	add("platform-tools/fastboot", fastbootBody, 0755)
	add("platform-tools/lib64/libfastboot.txt", "bundled helper library\n", 0644)
	add("NOTICE.txt", "stray top-level file\n", 0644)

	Expect(zw.Close()).To(Succeed())
	return buf.Bytes()
}
