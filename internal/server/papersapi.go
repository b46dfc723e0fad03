package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callummcdougall/arena-heroku/internal/papers"
)

// downloadPapers bundles the reading lists of the selected sections
// into a ZIP archive.
func (h *Handlers) downloadPapers(c echo.Context) error {
	var req struct {
		SectionIDs []string `json:"section_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	}
	if len(req.SectionIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No sections provided")
	}

	list := papers.ForSections(req.SectionIDs)
	if len(list) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "No papers found for selected sections")
	}

	data, err := h.Archiver.BuildZip(c.Request().Context(), list)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="arena_papers.zip"`)
	return c.Blob(http.StatusOK, "application/zip", data)
}
