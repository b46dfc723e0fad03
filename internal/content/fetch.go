// Package content fetches raw course material: remote markdown and
// solution files from the content host, and local overview/static
// files shipped alongside the server.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound marks a missing file, remote or local.
var ErrNotFound = errors.New("content not found")

// Fetcher resolves relative paths against the raw content host and the
// local content directory.
type Fetcher struct {
	BaseURL    string
	Token      string
	ContentDir string
	Client     *http.Client
}

func NewFetcher(baseURL, token, contentDir string) *Fetcher {
	return &Fetcher{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		ContentDir: contentDir,
		Client:     http.DefaultClient,
	}
}

// RawURL builds the full URL for a repo-relative file path.
func (f *Fetcher) RawURL(path string) string {
	return f.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// FetchText retrieves plain text from a URL. 404 maps to ErrNotFound;
// other non-2xx statuses are plain errors.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "token "+f.Token)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// FetchPath retrieves a repo-relative path from the content host.
func (f *Fetcher) FetchPath(ctx context.Context, path string) (string, error) {
	return f.FetchText(ctx, f.RawURL(path))
}

// ReadLocal reads a file from the local content directory.
func (f *Fetcher) ReadLocal(filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.ContentDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return "", err
	}
	return string(data), nil
}
