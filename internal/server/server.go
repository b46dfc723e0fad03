package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/callummcdougall/arena-heroku/config"
	"github.com/callummcdougall/arena-heroku/internal/content"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
	"github.com/callummcdougall/arena-heroku/internal/papers"
	"github.com/callummcdougall/arena-heroku/internal/tokens"
	"github.com/callummcdougall/arena-heroku/provider"
)

// TokenCounter abstracts the tiktoken counter for tests.
type TokenCounter interface {
	Count(text string) int
}

// Handlers carries the shared dependencies for every API endpoint.
type Handlers struct {
	Renderer *markdown.Renderer
	Fetcher  *content.Fetcher
	Counter  TokenCounter
	Archiver *papers.Archiver
	LLM      provider.Provider
	Model    string
	Logger   *log.Logger
}

// New builds the echo instance with middleware and all routes wired.
func New(h *Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/token-count/", h.tokenCount)
	api.POST("/chat/", h.chat)
	api.GET("/static-context/", h.staticContext)
	api.POST("/download-papers/", h.downloadPapers)
	// Section content route goes last so the fixed endpoints above win.
	api.GET("/:chapter_id/:section_id/", h.section)

	return e
}

// Run builds all dependencies from config and serves until failure.
func Run(cfg *appconfig.Config) error {
	counter, err := tokens.NewCounter()
	if err != nil {
		return err
	}
	llm, err := provider.NewProvider(provider.OpenAI, cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.Timeout)
	if err != nil {
		return err
	}

	h := &Handlers{
		Renderer: markdown.NewRenderer(),
		Fetcher:  content.NewFetcher(cfg.Content.RawBaseURL(), cfg.Content.GitHubToken, cfg.Content.ContentDir),
		Counter:  counter,
		Archiver: papers.NewArchiver(cfg.Content.PapersDir, nil),
		LLM:      llm,
		Model:    cfg.Providers.OpenAI.DefaultModel,
		Logger:   log.New(log.Writer(), "[API] ", log.LstdFlags),
	}

	e := New(h)

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8000"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
