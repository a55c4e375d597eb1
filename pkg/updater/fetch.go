// ABOUTME: Default Fetcher backed by net/http
// ABOUTME: Header-only resolve client plus a redirect-following downloader
package updater

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	metadataTimeout = 10 * time.Second
	downloadTimeout = 5 * time.Minute
)

type httpFetcher struct {
	head     *http.Client
	download *http.Client
	progress func(written, total int64)
}

// NewHTTPFetcher returns the default Fetcher. A nil client selects the
// built-in defaults (10s metadata timeout, 5m download timeout).
// progress, when non-nil, is called during Download with the bytes
// written so far and the total the server reported (-1 when unknown).
func NewHTTPFetcher(client *http.Client, progress func(written, total int64)) Fetcher {
	f := &httpFetcher{progress: progress}
	if client != nil {
		head := *client
		head.CheckRedirect = noFollow
		f.head = &head
		f.download = client
	} else {
		f.head = &http.Client{Timeout: metadataTimeout, CheckRedirect: noFollow}
		f.download = &http.Client{Timeout: downloadTimeout}
	}
	return f
}

func noFollow(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func (f *httpFetcher) Available() error { return nil }

func (f *httpFetcher) Head(ctx context.Context, url string) (int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.head.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, resp.Header, nil
}

func (f *httpFetcher) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.download.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{
			Op:   "download",
			URL:  url,
			Code: resp.StatusCode,
			Err:  fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var w io.Writer = out
	if f.progress != nil {
		w = &progressWriter{w: out, total: resp.ContentLength, report: f.progress}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return out.Close()
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}
