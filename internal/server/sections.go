package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callummcdougall/arena-heroku/internal/content"
	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
)

// SectionPayload is the unit the navigation layer fetches and caches.
type SectionPayload struct {
	Section     *course.Section       `json:"section"`
	Subsections []markdown.Subsection `json:"subsections"`
}

// section serves rendered section content as JSON for in-page
// navigation.
func (h *Handlers) section(c echo.Context) error {
	chapterID := c.Param("chapter_id")
	sectionID := c.Param("section_id")

	if course.GetChapter(chapterID) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chapter not found")
	}
	section := course.GetSection(chapterID, sectionID)
	if section == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Section not found")
	}

	subsections := h.loadSubsections(c.Request().Context(), section)
	sectionFetches.WithLabelValues(chapterID).Inc()
	return c.JSON(http.StatusOK, SectionPayload{Section: section, Subsections: subsections})
}

// loadSubsections resolves a section's markdown source and renders its
// subsections. Missing or unreachable content degrades to a single
// placeholder subsection rather than failing the request, so a partly
// written course still navigates.
func (h *Handlers) loadSubsections(ctx context.Context, section *course.Section) []markdown.Subsection {
	text, err := h.sectionSource(ctx, section)
	if err == nil {
		subs, perr := h.Renderer.ParseSubsections(text)
		if perr == nil {
			return subs
		}
		err = perr
	}

	if errors.Is(err, content.ErrNotFound) {
		return []markdown.Subsection{{
			Index:   0,
			ID:      "intro",
			Title:   section.Title,
			HTML:    fmt.Sprintf("<p>Content for '%s' is not yet available.</p>", section.Title),
			Headers: []markdown.Header{},
		}}
	}
	h.Logger.Printf("section %s load failed: %v", section.ID, err)
	return []markdown.Subsection{{
		Index:   0,
		ID:      "error",
		Title:   "Error",
		HTML:    fmt.Sprintf("<p>Error loading content: %v</p>", err),
		Headers: []markdown.Header{},
	}}
}

func (h *Handlers) sectionSource(ctx context.Context, section *course.Section) (string, error) {
	if section.LocalPath != "" {
		return h.Fetcher.ReadLocal(section.LocalPath)
	}
	if section.Path == "" {
		return "", fmt.Errorf("%w: no path configured for section %s", content.ErrNotFound, section.ID)
	}
	return h.Fetcher.FetchPath(ctx, section.Path)
}
