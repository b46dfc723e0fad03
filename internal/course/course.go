package course

import "regexp"

// Section is a single unit of course material within a chapter. Group
// sections (IsGroup) are overview pages backed by a local file; they
// carry no exercises and are excluded from file-based chat context.
type Section struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Path       string   `json:"path,omitempty"`
	PythonPath string   `json:"python_path,omitempty"`
	LocalPath  string   `json:"local_path,omitempty"`
	Number     string   `json:"number,omitempty"`
	Status     string   `json:"status,omitempty"`
	IsGroup    bool     `json:"is_group,omitempty"`
	Parent     string   `json:"parent,omitempty"`
	Children   []string `json:"children,omitempty"`
}

// Chapter groups an ordered list of sections with display metadata.
// Immutable for the process lifetime.
type Chapter struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ShortTitle   string    `json:"short_title"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	Sections     []Section `json:"sections"`
	SectionCount int       `json:"section_count"`
}

var sectionNumberRe = regexp.MustCompile(`\[([^\]]+)\]`)

// extractSectionNumber pulls the number from a path like
// "01_[0.1]_Ray_Tracing.md" -> "0.1".
func extractSectionNumber(path string) string {
	if m := sectionNumberRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return ""
}

// GetChapter returns a chapter by ID with derived section numbers and
// content-section count filled in, or nil if unknown.
func GetChapter(chapterID string) *Chapter {
	raw, ok := chapters[chapterID]
	if !ok {
		return nil
	}
	ch := raw // copy
	ch.ID = chapterID
	ch.Sections = make([]Section, len(raw.Sections))
	count := 0
	for i, s := range raw.Sections {
		if !s.IsGroup && s.Number == "" {
			s.Number = extractSectionNumber(s.Path)
		}
		if !s.IsGroup {
			count++
		}
		ch.Sections[i] = s
	}
	ch.SectionCount = count
	return &ch
}

// GetSection returns a section by chapter and section ID, or nil.
func GetSection(chapterID, sectionID string) *Section {
	ch := GetChapter(chapterID)
	if ch == nil {
		return nil
	}
	for i := range ch.Sections {
		if ch.Sections[i].ID == sectionID {
			return &ch.Sections[i]
		}
	}
	return nil
}

// AllChapters returns every chapter in declaration order.
func AllChapters() []Chapter {
	out := make([]Chapter, 0, len(chapterOrder))
	for _, id := range chapterOrder {
		if ch := GetChapter(id); ch != nil {
			out = append(out, *ch)
		}
	}
	return out
}

// CountSections counts content sections, excluding group headers.
func CountSections(chapterID string) int {
	ch := GetChapter(chapterID)
	if ch == nil {
		return 0
	}
	return ch.SectionCount
}
