package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/provider"
)

// chatSystemPrompt frames the assistant. The context section is filled
// from whatever the client assembled (selected sections or the static
// site document).
const chatSystemPrompt = `You are a teaching assistant for the ARENA (Alignment Research Engineer Accelerator) program.

Response style:
- Be extremely concise. Give the shortest answer that fully addresses the question.
- No preamble, no filler phrases like "Great question!" or "I'd be happy to help"
- No unnecessary caveats or hedging unless genuinely uncertain
- Use code snippets and bullet points over prose when possible
- If a one-sentence answer suffices, give a one-sentence answer
- Reference specific line numbers or function names from the context when relevant

%s`

type chatRequest struct {
	Messages []provider.Message `json:"messages"`
	Context  string             `json:"context"`
	Model    string             `json:"model"`
}

// chat proxies the conversation to the model backend and streams the
// reply as plain text, chunk by chunk, with no buffering.
func (h *Handlers) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	}
	if len(req.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No messages provided")
	}
	model := req.Model
	if model == "" {
		model = h.Model
	}

	contextSection := "No specific context has been provided."
	if req.Context != "" {
		contextSection = "The following context has been provided:\n\n" + req.Context
	}
	messages := make([]provider.Message, 0, len(req.Messages)+1)
	messages = append(messages, provider.Message{
		Role:    "system",
		Content: fmt.Sprintf(chatSystemPrompt, contextSection),
	})
	messages = append(messages, req.Messages...)

	chatSends.Inc()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)

	err := h.LLM.StreamChat(c.Request().Context(), model, messages, func(chunk string) error {
		if _, werr := resp.Write([]byte(chunk)); werr != nil {
			return werr
		}
		resp.Flush()
		return nil
	})
	if err != nil {
		// Headers are already out; surface the failure inside the
		// stream the way the rest of the page expects.
		chatErrors.Inc()
		h.Logger.Printf("chat stream failed: %v", err)
		_, _ = resp.Write([]byte(fmt.Sprintf("Error: %v", err)))
		resp.Flush()
	}
	return nil
}

// staticContext returns a single document describing the course for
// chat sessions started outside any chapter page.
func (h *Handlers) staticContext(c echo.Context) error {
	var parts []string

	chapters := course.AllChapters()
	if len(chapters) > 0 {
		var b strings.Builder
		b.WriteString("## ARENA Course Structure\n\n")
		b.WriteString("ARENA (Alignment Research Engineer Accelerator) is a comprehensive curriculum covering:\n\n")
		for _, ch := range chapters {
			fmt.Fprintf(&b, "### %s\n%s\n\n**Sections:**\n", ch.Title, ch.Description)
			for _, s := range ch.Sections {
				if s.IsGroup {
					continue
				}
				if s.Number != "" {
					fmt.Fprintf(&b, "- **%s %s**\n", s.Number, s.Title)
				} else {
					fmt.Fprintf(&b, "- **%s**\n", s.Title)
				}
			}
			b.WriteString("\n")
		}
		parts = append(parts, b.String())
	}

	for _, filename := range []string{"homepage_info.md", "setup_instructions.md", "faq.md"} {
		text, err := h.Fetcher.ReadLocal(filename)
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("## %s\n\n%s", filename, text))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"content": strings.Join(parts, "\n\n---\n\n"),
	})
}
