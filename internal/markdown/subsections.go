package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// SubsectionDelimiter splits one markdown source file into in-page
// subsections.
const SubsectionDelimiter = "=== NEW CHAPTER ==="

// Header is a table-of-contents entry extracted from rendered HTML.
type Header struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Subsection is one rendered slice of a section's markdown file.
type Subsection struct {
	Index   int      `json:"index"`
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	HTML    string   `json:"html"`
	Headers []Header `json:"headers"`
}

var (
	h1Re        = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headerTagRe = regexp.MustCompile(`(?s)<h([1-4])[^>]*id="([^"]*)"[^>]*>(.+?)</h([1-4])>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]+>`)
	nonSlugRe   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	dashRe      = regexp.MustCompile(`[-\s]+`)
)

// ExtractTitle returns the first h1 title in markdown text.
func ExtractTitle(text string) string {
	if m := h1Re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return "Untitled"
}

// ExtractHeaders pulls h1-h4 headers with ids out of rendered HTML.
func ExtractHeaders(htmlContent string) []Header {
	headers := []Header{}
	for _, m := range headerTagRe.FindAllStringSubmatch(htmlContent, -1) {
		if m[1] != m[4] {
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		title := strings.TrimSpace(htmlTagRe.ReplaceAllString(m[3], ""))
		headers = append(headers, Header{
			Level: level,
			ID:    m[2],
			Title: html.UnescapeString(title),
		})
	}
	return headers
}

// Slugify creates a URL-safe slug from text.
func Slugify(text string) string {
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(text), "")
	slug = dashRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ParseSubsections renders a markdown file into its subsections. The
// first slice is always the introduction regardless of its own title.
func (r *Renderer) ParseSubsections(text string) ([]Subsection, error) {
	parts := strings.Split(text, SubsectionDelimiter)
	subsections := []Subsection{}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		title := ExtractTitle(part)
		rendered, err := r.Render(part)
		if err != nil {
			return nil, err
		}
		headers := ExtractHeaders(rendered)

		id := "intro"
		displayTitle := "Introduction"
		if i > 0 {
			id = Slugify(title)
			if id == "" {
				id = "section-" + strconv.Itoa(i)
			}
			displayTitle = title
		}

		subsections = append(subsections, Subsection{
			Index:   i,
			ID:      id,
			Title:   displayTitle,
			HTML:    rendered,
			Headers: headers,
		})
	}

	return subsections, nil
}
