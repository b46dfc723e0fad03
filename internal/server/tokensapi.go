package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// tokenCount counts tokens in arbitrary text for the side panel's
// context size estimate.
func (h *Handlers) tokenCount(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	}
	return c.JSON(http.StatusOK, map[string]int{"tokens": h.Counter.Count(req.Text)})
}
