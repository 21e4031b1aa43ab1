package csvsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher downloads the source file once and reuses the local copy on later runs.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher for url with the given request timeout.
func NewFetcher(url string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ensure makes sure dest exists, downloading it if needed. It reports whether
// a download happened. Partial downloads never replace dest.
func (f *Fetcher) Ensure(ctx context.Context, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		f.logger.Debug("source cached", "path", dest)
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", dest, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create source dir: %w", err)
	}

	start := time.Now()
	n, err := f.download(ctx, dest)
	if err != nil {
		return false, err
	}
	f.logger.Info("source downloaded", "url", f.url, "path", dest, "bytes", n, "duration", time.Since(start))
	return true, nil
}

func (f *Fetcher) download(ctx context.Context, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("fetch source: status %d: %s", resp.StatusCode, body)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write source: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("move source into place: %w", err)
	}
	return n, nil
}
