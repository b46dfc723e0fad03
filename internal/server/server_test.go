package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/callummcdougall/arena-heroku/internal/content"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
	"github.com/callummcdougall/arena-heroku/internal/papers"
	"github.com/callummcdougall/arena-heroku/provider"
)

type stubCounter struct{}

func (stubCounter) Count(text string) int { return len(strings.Fields(text)) }

type stubLLM struct {
	chunks      []string
	err         error
	gotModel    string
	gotMessages []provider.Message
}

func (s *stubLLM) StreamChat(_ context.Context, model string, messages []provider.Message, fn func(string) error) error {
	s.gotModel = model
	s.gotMessages = messages
	for _, ch := range s.chunks {
		if err := fn(ch); err != nil {
			return err
		}
	}
	return s.err
}

func newTestHandlers(t *testing.T, contentSrv *httptest.Server, llm provider.Provider) *Handlers {
	t.Helper()
	base := "http://127.0.0.1:0"
	if contentSrv != nil {
		base = contentSrv.URL
	}
	return &Handlers{
		Renderer: markdown.NewRenderer(),
		Fetcher:  content.NewFetcher(base, "", t.TempDir()),
		Counter:  stubCounter{},
		Archiver: papers.NewArchiver(t.TempDir(), log.New(io.Discard, "", 0)),
		LLM:      llm,
		Model:    "default-model",
		Logger:   log.New(io.Discard, "", 0),
	}
}

func TestSectionAPI(t *testing.T) {
	contentSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# Ray Tracing\n\nintro\n\n=== NEW CHAPTER ===\n\n# Rays\n\nbody"))
	}))
	defer contentSrv.Close()

	e := New(newTestHandlers(t, contentSrv, &stubLLM{}))

	req := httptest.NewRequest(http.MethodGet, "/api/chapter0_fundamentals/01_ray_tracing/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var payload SectionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Section == nil || payload.Section.ID != "01_ray_tracing" {
		t.Errorf("section = %+v", payload.Section)
	}
	if len(payload.Subsections) != 2 {
		t.Fatalf("subsections = %d", len(payload.Subsections))
	}
	if payload.Subsections[0].ID != "intro" || payload.Subsections[1].ID != "rays" {
		t.Errorf("ids = %s, %s", payload.Subsections[0].ID, payload.Subsections[1].ID)
	}
}

func TestSectionAPIUnknownSection(t *testing.T) {
	e := New(newTestHandlers(t, nil, &stubLLM{}))

	req := httptest.NewRequest(http.MethodGet, "/api/chapter0_fundamentals/nope/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Errorf("expected error body, got %s", rec.Body.String())
	}
}

func TestSectionAPIContentMissing(t *testing.T) {
	contentSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer contentSrv.Close()

	e := New(newTestHandlers(t, contentSrv, &stubLLM{}))

	req := httptest.NewRequest(http.MethodGet, "/api/chapter0_fundamentals/01_ray_tracing/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Missing content degrades to a placeholder subsection, not an error.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload SectionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Subsections) != 1 || payload.Subsections[0].ID != "intro" {
		t.Errorf("subsections = %+v", payload.Subsections)
	}
	if !strings.Contains(payload.Subsections[0].HTML, "not yet available") {
		t.Errorf("html = %s", payload.Subsections[0].HTML)
	}
}

func TestTokenCountAPI(t *testing.T) {
	e := New(newTestHandlers(t, nil, &stubLLM{}))

	req := httptest.NewRequest(http.MethodPost, "/api/token-count/", strings.NewReader(`{"text":"one two three"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]int
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["tokens"] != 3 {
		t.Errorf("tokens = %d", body["tokens"])
	}
}

func TestChatAPIStreams(t *testing.T) {
	llm := &stubLLM{chunks: []string{"Hello", " world"}}
	e := New(newTestHandlers(t, nil, llm))

	body := `{"messages":[{"role":"user","content":"hi"}],"context":"some context","model":"gpt-test"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "Hello world" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if llm.gotModel != "gpt-test" {
		t.Errorf("model = %q", llm.gotModel)
	}
	if len(llm.gotMessages) != 2 || llm.gotMessages[0].Role != "system" {
		t.Fatalf("messages = %+v", llm.gotMessages)
	}
	if !strings.Contains(llm.gotMessages[0].Content, "some context") {
		t.Errorf("system prompt missing context: %s", llm.gotMessages[0].Content)
	}
}

func TestChatAPIDefaultsModel(t *testing.T) {
	llm := &stubLLM{}
	e := New(newTestHandlers(t, nil, llm))

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if llm.gotModel != "default-model" {
		t.Errorf("model = %q", llm.gotModel)
	}
	if !strings.Contains(llm.gotMessages[0].Content, "No specific context") {
		t.Errorf("system prompt = %s", llm.gotMessages[0].Content)
	}
}

func TestChatAPIEmptyMessages(t *testing.T) {
	e := New(newTestHandlers(t, nil, &stubLLM{}))

	req := httptest.NewRequest(http.MethodPost, "/api/chat/", strings.NewReader(`{"messages":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestChatAPIStreamError(t *testing.T) {
	llm := &stubLLM{chunks: []string{"partial"}, err: errors.New("upstream died")}
	e := New(newTestHandlers(t, nil, llm))

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// The error arrives inside the stream; headers were already sent.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error: upstream died") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStaticContextAPI(t *testing.T) {
	e := New(newTestHandlers(t, nil, &stubLLM{}))

	req := httptest.NewRequest(http.MethodGet, "/api/static-context/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["content"], "ARENA Course Structure") {
		t.Errorf("content = %q", body["content"])
	}
}

func TestDownloadPapersAPIValidation(t *testing.T) {
	e := New(newTestHandlers(t, nil, &stubLLM{}))

	req := httptest.NewRequest(http.MethodPost, "/api/download-papers/", strings.NewReader(`{"section_ids":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty selection: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/download-papers/", strings.NewReader(`{"section_ids":["unknown"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown section: status = %d", rec.Code)
	}
}
