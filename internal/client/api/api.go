// Package api is the typed HTTP client the page logic talks through.
// It mirrors the server's JSON endpoints plus raw file fetches against
// the content host.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
)

// ChatMessage is one turn of the conversation as sent over the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SectionPayload is the unit of navigation: one section's metadata and
// its rendered subsections.
type SectionPayload struct {
	Section     *course.Section       `json:"section"`
	Subsections []markdown.Subsection `json:"subsections"`
}

// Client calls the section API and the content host.
type Client struct {
	// BaseURL is the site origin, e.g. "http://localhost:8000".
	BaseURL string
	// RawBaseURL is the content host prefix for raw file fetches.
	RawBaseURL string
	HTTPClient *http.Client
}

func New(baseURL, rawBaseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		RawBaseURL: strings.TrimRight(rawBaseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// Section fetches a rendered section.
func (c *Client) Section(ctx context.Context, chapterID, sectionID string) (*SectionPayload, error) {
	u := fmt.Sprintf("%s/api/%s/%s/", c.BaseURL, url.PathEscape(chapterID), url.PathEscape(sectionID))
	var payload SectionPayload
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TokenCount asks the server to count tokens in text.
func (c *Client) TokenCount(ctx context.Context, text string) (int, error) {
	var resp struct {
		Tokens int `json:"tokens"`
	}
	err := c.postJSON(ctx, c.BaseURL+"/api/token-count/", map[string]string{"text": text}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Tokens, nil
}

// StaticContext fetches the course-wide chat context document.
func (c *Client) StaticContext(ctx context.Context) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(ctx, c.BaseURL+"/api/static-context/", &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// StreamChat posts the conversation and streams the plain-text reply,
// handing each chunk to fn as it arrives. A non-nil error from fn
// aborts the read.
func (c *Client) StreamChat(ctx context.Context, messages []ChatMessage, contextDoc, model string, fn func(chunk string) error) error {
	body, err := json.Marshal(map[string]any{
		"messages": messages,
		"context":  contextDoc,
		"model":    model,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if ferr := fn(string(buf[:n])); ferr != nil {
				return ferr
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// DownloadPapers fetches the ZIP bundle of the selected sections'
// reading lists.
func (c *Client) DownloadPapers(ctx context.Context, sectionIDs []string) ([]byte, error) {
	body, err := json.Marshal(map[string][]string{"section_ids": sectionIDs})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/download-papers/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

// FetchRaw fetches a file from the content host by repository path.
func (c *Client) FetchRaw(ctx context.Context, path string) (string, error) {
	u := c.RawBaseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, u string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the server's {"error": ...} body when present.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return fmt.Errorf("%s %s: %s", resp.Request.Method, resp.Request.URL.Path, body.Error)
	}
	return fmt.Errorf("%s %s: status %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
}
