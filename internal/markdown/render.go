// Package markdown renders course material from markdown to HTML
// fragments: exercise-info blocks, LaTeX passthrough, syntax-highlighted
// code, and markdown inside <details> disclosure blocks.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// wrapCodehilite keeps the codehilite wrapper class the stylesheet
// targets around every highlighted block.
func wrapCodehilite(w util.BufWriter, _ highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="codehilite">`)
	} else {
		_, _ = w.WriteString(`</div>`)
	}
}

// Renderer converts markdown course pages to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("monokai"),
					highlighting.WithGuessLanguage(true),
					highlighting.WithFormatOptions(
						chromahtml.WithClasses(true),
					),
					highlighting.WithWrapperRenderer(wrapCodehilite),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts markdown text to an HTML fragment.
func (r *Renderer) Render(text string) (string, error) {
	text = preprocessExerciseBlocks(text)
	text, placeholders := protectLatex(text)

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	rendered := buf.String()

	rendered = restoreLatex(rendered, placeholders)
	rendered = r.processDetails(rendered)
	return rendered, nil
}

var exerciseBlockRe = regexp.MustCompile("(?m)>\\s*```yaml\\n((?:>.*\\n)*?)>\\s*```")

// preprocessExerciseBlocks turns blockquoted yaml metadata blocks
// (Difficulty / Importance / time estimate) into styled divs that pass
// straight through markdown rendering.
func preprocessExerciseBlocks(text string) string {
	return exerciseBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		m := exerciseBlockRe.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		var difficulty, importance string
		var descLines []string
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ">"))
			switch {
			case strings.HasPrefix(line, "Difficulty:"):
				difficulty = strings.TrimSpace(strings.TrimPrefix(line, "Difficulty:"))
			case strings.HasPrefix(line, "Importance:"):
				importance = strings.TrimSpace(strings.TrimPrefix(line, "Importance:"))
			case line != "":
				descLines = append(descLines, line)
			}
		}
		var b strings.Builder
		b.WriteString(`<div class="exercise-info">` + "\n")
		b.WriteString(`<div class="exercise-info-row">` + "\n")
		b.WriteString(`<span class="exercise-info-label">Difficulty:</span>` + "\n")
		b.WriteString(`<span class="exercise-info-value">` + difficulty + `</span>` + "\n")
		b.WriteString(`</div>` + "\n")
		b.WriteString(`<div class="exercise-info-row">` + "\n")
		b.WriteString(`<span class="exercise-info-label">Importance:</span>` + "\n")
		b.WriteString(`<span class="exercise-info-value">` + importance + `</span>` + "\n")
		b.WriteString(`</div>` + "\n")
		if len(descLines) > 0 {
			b.WriteString(`<div class="exercise-info-description">` + strings.Join(descLines, " ") + `</div>` + "\n")
		}
		b.WriteString(`</div>`)
		return b.String()
	})
}

var (
	displayMathRe = regexp.MustCompile(`\$\$([\s\S]*?)\$\$`)
	inlineMathRe  = regexp.MustCompile(`(^|[^$])\$([^$\n]+?)\$($|[^$])`)
)

// protectLatex replaces math blocks with opaque placeholders so the
// markdown renderer cannot mangle them. KaTeX picks the delimiters back
// up client-side.
func protectLatex(text string) (string, map[string]string) {
	placeholders := map[string]string{}

	text = displayMathRe.ReplaceAllStringFunc(text, func(block string) string {
		m := displayMathRe.FindStringSubmatch(block)
		ph := "LATEXDISPLAY" + strings.ReplaceAll(uuid.NewString(), "-", "") + "ENDLATEX"
		placeholders[ph] = `<div class="katex-display-wrapper">$$` + m[1] + `$$</div>`
		return ph
	})

	// Inline math: $...$ but not $$ (already handled) and not spanning lines.
	// The capture groups keep the non-$ neighbours intact.
	for {
		replaced := false
		text = inlineMathRe.ReplaceAllStringFunc(text, func(block string) string {
			m := inlineMathRe.FindStringSubmatch(block)
			ph := "LATEXINLINE" + strings.ReplaceAll(uuid.NewString(), "-", "") + "ENDLATEX"
			placeholders[ph] = "$" + m[2] + "$"
			replaced = true
			return m[1] + ph + m[3]
		})
		if !replaced {
			break
		}
	}

	return text, placeholders
}

func restoreLatex(htmlText string, placeholders map[string]string) string {
	for ph, latex := range placeholders {
		// Markdown may have wrapped a display placeholder in its own <p>.
		htmlText = strings.ReplaceAll(htmlText, "<p>"+ph+"</p>", latex)
		htmlText = strings.ReplaceAll(htmlText, ph, latex)
	}
	return htmlText
}

var (
	detailsRe = regexp.MustCompile(`(?s)<details>.*?</details>`)
	summaryRe = regexp.MustCompile(`(?s)<summary>(.*?)</summary>`)
)

// processDetails re-renders the body of <details> blocks as markdown.
// Raw HTML blocks pass through goldmark untouched, so the markdown
// inside a disclosure block would otherwise display as plain text.
func (r *Renderer) processDetails(htmlText string) string {
	return detailsRe.ReplaceAllStringFunc(htmlText, func(block string) string {
		summary := summaryRe.FindString(block)
		if summary == "" {
			return block
		}
		start := strings.Index(block, "</summary>")
		end := strings.LastIndex(block, "</details>")
		if start == -1 || end == -1 {
			return block
		}
		inner := strings.TrimSpace(block[start+len("</summary>") : end])

		var buf bytes.Buffer
		if err := r.md.Convert([]byte(inner), &buf); err != nil {
			return block
		}
		return "<details>\n" + summary + "\n" + strings.TrimSpace(buf.String()) + "\n</details>"
	})
}
