// Package contextpack assembles the text bundle behind the side
// panel: a file tree plus concatenated file contents for a selected
// set of sections, cached per section and kind, with a debounced token
// rollup for the current selection.
package contextpack

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/cache"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
)

// Format selects what the bundle contains.
type Format string

const (
	FormatSourceCode           Format = "source-code"
	FormatNarrative            Format = "narrative"
	FormatNarrativeNoSolutions Format = "narrative-no-solutions"
	// FormatPapers is a binary download handled server side; it has no
	// token count.
	FormatPapers Format = "papers"
)

// Kind names a cached file variant for one section.
type Kind string

const (
	KindPython              Kind = "python"
	KindMarkdown            Kind = "markdown"
	KindMarkdownNoSolutions Kind = "markdown_no_solutions"
)

// EstimateLoading is shown while any selected section's token count is
// unresolved.
const EstimateLoading = "loading..."

type entryKey struct {
	SectionID string
	Kind      Kind
}

// fileEntry is populated incrementally: content first, tokens once the
// count resolves. A failed count leaves Tokens nil and the estimate
// stays on the loading indicator.
type fileEntry struct {
	Content *string
	Tokens  *int
}

// API is the slice of the HTTP client the assembler needs.
type API interface {
	FetchRaw(ctx context.Context, path string) (string, error)
	TokenCount(ctx context.Context, text string) (int, error)
}

// EstimateView receives the rendered token estimate. An empty string
// means "hide the estimate".
type EstimateView interface {
	ShowTokenEstimate(text string)
}

// Assembler builds context bundles and tracks the panel's selection.
type Assembler struct {
	chapter  *course.Chapter
	api      API
	view     EstimateView
	logger   *log.Logger
	debounce *task.Debouncer

	mu        sync.Mutex
	files     *cache.Store[entryKey, fileEntry]
	selection []string
	format    Format
}

func NewAssembler(chapter *course.Chapter, client API, view EstimateView, clock task.Clock, debounceWindow time.Duration, logger *log.Logger) *Assembler {
	return &Assembler{
		chapter:  chapter,
		api:      client,
		view:     view,
		logger:   logger,
		debounce: task.NewDebouncer(clock, debounceWindow),
		files:    cache.New[entryKey, fileEntry](),
		format:   FormatSourceCode,
	}
}

// SetSelection replaces the panel's checkbox selection and schedules a
// token rollup.
func (a *Assembler) SetSelection(sectionIDs []string) {
	a.mu.Lock()
	a.selection = append([]string(nil), sectionIDs...)
	a.mu.Unlock()
	a.ScheduleEstimate()
}

// SelectedSections returns the current selection in order.
func (a *Assembler) SelectedSections() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.selection...)
}

// SetFormat switches the bundle format and schedules a rollup.
func (a *Assembler) SetFormat(f Format) {
	a.mu.Lock()
	a.format = f
	a.mu.Unlock()
	a.ScheduleEstimate()
}

// Format returns the active bundle format.
func (a *Assembler) Format() Format {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.format
}

// SectionDisplayed resets the selection to the newly visited section,
// so the panel follows navigation until the user picks sections
// explicitly again.
func (a *Assembler) SectionDisplayed(sectionID string) {
	a.SetSelection([]string{sectionID})
}

// Assemble builds the bundle for the given sections and format. Group
// sections and sections without a matching file are skipped; fetch
// failures are logged and skipped. ok is false when no section yielded
// usable content.
func (a *Assembler) Assemble(ctx context.Context, sectionIDs []string, format Format) (text string, ok bool) {
	kind := kindFor(format)
	if kind == "" {
		return "", false
	}

	type file struct {
		path    string
		content string
	}
	var included []file
	for _, id := range sectionIDs {
		section := a.lookup(id)
		if section == nil || section.IsGroup {
			continue
		}
		path := pathFor(section, kind)
		if path == "" {
			continue
		}
		content, err := a.ensureContent(ctx, section, kind)
		if err != nil {
			a.logger.Printf("context fetch %s (%s) failed: %v", id, kind, err)
			continue
		}
		included = append(included, file{path: path, content: content})
	}
	if len(included) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("File tree:\n\n```\n")
	paths := make([]string, len(included))
	for i, f := range included {
		paths[i] = f.path
	}
	b.WriteString(renderFileTree(paths))
	b.WriteString("```\n")
	for _, f := range included {
		fmt.Fprintf(&b, "\nFile: %s\n\n```%s\n%s\n```\n", f.path, fenceLang(kind), strings.TrimRight(f.content, "\n"))
	}

	a.ScheduleEstimate()
	return b.String(), true
}

// ScheduleEstimate debounces a token rollup for the current selection
// and format.
func (a *Assembler) ScheduleEstimate() {
	a.debounce.Trigger(a.recomputeEstimate)
}

// recomputeEstimate renders the total token count for the selection,
// or the loading indicator while any selected section's count is
// unresolved. Papers bundles have no token count.
func (a *Assembler) recomputeEstimate() {
	a.mu.Lock()
	selection := append([]string(nil), a.selection...)
	format := a.format
	a.mu.Unlock()

	if format == FormatPapers {
		a.view.ShowTokenEstimate("")
		return
	}
	kind := kindFor(format)

	total := 0
	counted := false
	for _, id := range selection {
		section := a.lookup(id)
		if section == nil || section.IsGroup || pathFor(section, kind) == "" {
			continue
		}
		entry, ok := a.files.Get(entryKey{SectionID: id, Kind: kind})
		if !ok || entry.Tokens == nil {
			a.view.ShowTokenEstimate(EstimateLoading)
			return
		}
		total += *entry.Tokens
		counted = true
	}
	if !counted {
		a.view.ShowTokenEstimate("")
		return
	}
	a.view.ShowTokenEstimate(FormatCount(total))
}

// ensureContent returns the cached content for a section and kind,
// fetching and populating the cache on a miss. The no-solutions
// variant is derived from the narrative content rather than fetched.
func (a *Assembler) ensureContent(ctx context.Context, section *course.Section, kind Kind) (string, error) {
	key := entryKey{SectionID: section.ID, Kind: kind}
	if entry, ok := a.files.Get(key); ok && entry.Content != nil {
		return *entry.Content, nil
	}

	var content string
	if kind == KindMarkdownNoSolutions {
		narrative, err := a.ensureContent(ctx, section, KindMarkdown)
		if err != nil {
			return "", err
		}
		content = StripSolutions(narrative)
	} else {
		fetched, err := a.api.FetchRaw(ctx, pathFor(section, kind))
		if err != nil {
			return "", err
		}
		content = fetched
	}

	entry := fileEntry{Content: &content}
	a.files.Set(key, entry)

	// Count tokens for the new content. A failure is a soft fail: the
	// entry keeps a nil count and the estimate stays on loading.
	if n, err := a.api.TokenCount(ctx, content); err != nil {
		a.logger.Printf("token count for %s (%s) failed: %v", section.ID, kind, err)
	} else {
		entry.Tokens = &n
		a.files.Set(key, entry)
	}
	a.ScheduleEstimate()
	return content, nil
}

func (a *Assembler) lookup(sectionID string) *course.Section {
	for i := range a.chapter.Sections {
		if a.chapter.Sections[i].ID == sectionID {
			return &a.chapter.Sections[i]
		}
	}
	return nil
}

func kindFor(format Format) Kind {
	switch format {
	case FormatSourceCode:
		return KindPython
	case FormatNarrative:
		return KindMarkdown
	case FormatNarrativeNoSolutions:
		return KindMarkdownNoSolutions
	default:
		return ""
	}
}

func pathFor(section *course.Section, kind Kind) string {
	if kind == KindPython {
		return section.PythonPath
	}
	return section.Path
}

func fenceLang(kind Kind) string {
	if kind == KindPython {
		return "python"
	}
	return "markdown"
}

// FormatCount abbreviates a token count: 999 stays 999, thousands get
// a k suffix, millions an M suffix.
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

var (
	detailsRe = regexp.MustCompile(`(?is)<details[^>]*>.*?</details>\n?`)
	summaryRe = regexp.MustCompile(`(?is)<summary[^>]*>(.*?)</summary>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
)

// StripSolutions removes every disclosure block whose summary text
// contains "solution", case-insensitive. The match is structural
// (whole <details> elements), so surrounding content is untouched.
func StripSolutions(text string) string {
	return detailsRe.ReplaceAllStringFunc(text, func(block string) string {
		m := summaryRe.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		label := strings.ToLower(tagRe.ReplaceAllString(m[1], ""))
		if strings.Contains(label, "solution") {
			return ""
		}
		return block
	})
}

// renderFileTree draws the included paths as an indented directory
// tree, preserving first-seen order.
func renderFileTree(paths []string) string {
	type node struct {
		name     string
		children []*node
		isFile   bool
	}
	root := &node{}
	find := func(parent *node, name string) *node {
		for _, c := range parent.children {
			if c.name == name {
				return c
			}
		}
		c := &node{name: name}
		parent.children = append(parent.children, c)
		return c
	}
	for _, path := range paths {
		parent := root
		parts := strings.Split(path, "/")
		for i, part := range parts {
			parent = find(parent, part)
			if i == len(parts)-1 {
				parent.isFile = true
			}
		}
	}

	var b strings.Builder
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		for _, c := range n.children {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(c.name)
			if !c.isFile {
				b.WriteString("/")
			}
			b.WriteString("\n")
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return b.String()
}
