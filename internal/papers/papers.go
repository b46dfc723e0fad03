// Package papers assembles the per-section reading lists offered as a
// ZIP download: arXiv PDFs plus local text copies of non-arXiv posts.
package papers

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
)

// Paper is one entry in a section's reading list. Exactly one of
// ArxivID or LocalFile is set.
type Paper struct {
	Title     string
	ArxivID   string
	LocalFile string
}

func (p Paper) key() string {
	if p.ArxivID != "" {
		return "arxiv:" + p.ArxivID
	}
	return "local:" + p.LocalFile
}

// Archiver fetches papers and bundles them into ZIP archives.
type Archiver struct {
	PapersDir string
	Client    *http.Client
	Logger    *log.Logger
}

func NewArchiver(papersDir string, logger *log.Logger) *Archiver {
	if logger == nil {
		logger = log.New(log.Writer(), "[PAPERS] ", log.LstdFlags)
	}
	return &Archiver{PapersDir: papersDir, Client: http.DefaultClient, Logger: logger}
}

// ForSections collects the unique papers across the given sections,
// preserving first-seen order.
func ForSections(sectionIDs []string) []Paper {
	seen := map[string]struct{}{}
	var out []Paper
	for _, id := range sectionIDs {
		for _, p := range sectionPapers[id] {
			if _, ok := seen[p.key()]; ok {
				continue
			}
			seen[p.key()] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func arxivPDFURL(arxivID string) string {
	return fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", arxivID)
}

func (a *Archiver) fetchArxivPDF(ctx context.Context, arxivID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivPDFURL(arxivID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv %s: status %d", arxivID, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*]`)

func safeTitle(title string) string {
	s := unsafeFilenameRe.ReplaceAllString(title, "")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// BuildZip fetches every paper and writes a ZIP archive in memory.
// Per-paper failures are logged and skipped; the archive is best
// effort like the rest of the download path.
func (a *Archiver) BuildZip(ctx context.Context, papersList []Paper) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range papersList {
		name, data, err := a.fetchOne(ctx, p)
		if err != nil {
			a.Logger.Printf("error fetching paper %s: %v", p.key(), err)
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Archiver) fetchOne(ctx context.Context, p Paper) (string, []byte, error) {
	title := p.Title
	if title == "" {
		title = "Unknown"
	}
	if p.ArxivID != "" {
		data, err := a.fetchArxivPDF(ctx, p.ArxivID)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s [%s].pdf", safeTitle(title), p.ArxivID), data, nil
	}
	data, err := os.ReadFile(filepath.Join(a.PapersDir, p.LocalFile))
	if err != nil {
		return "", nil, err
	}
	return safeTitle(title) + ".txt", data, nil
}
