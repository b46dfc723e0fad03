// Package session ties the client layer together. A Session is built
// once per page load and owns every piece of mutable page state: the
// navigation engine, the context assembler, the chat log and the
// preloader. Collaborators talk through the session rather than
// through package-level state, and cross-component notifications go
// through explicit observer registrations.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/api"
	"github.com/callummcdougall/arena-heroku/internal/client/chat"
	"github.com/callummcdougall/arena-heroku/internal/client/contextpack"
	"github.com/callummcdougall/arena-heroku/internal/client/nav"
	"github.com/callummcdougall/arena-heroku/internal/client/preload"
	"github.com/callummcdougall/arena-heroku/internal/client/storage"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
)

// API is everything the session needs from the HTTP layer.
// *api.Client satisfies it.
type API interface {
	Section(ctx context.Context, chapterID, sectionID string) (*api.SectionPayload, error)
	TokenCount(ctx context.Context, text string) (int, error)
	StaticContext(ctx context.Context) (string, error)
	StreamChat(ctx context.Context, messages []api.ChatMessage, contextDoc, model string, fn func(chunk string) error) error
	FetchRaw(ctx context.Context, path string) (string, error)
	DownloadPapers(ctx context.Context, sectionIDs []string) ([]byte, error)
}

// View is the whole page surface the session draws on.
type View interface {
	nav.View
	contextpack.EstimateView
	chat.View
}

// Options configure a page session. Chapter is nil on static pages,
// which only carry a chat session.
type Options struct {
	Chapter *course.Chapter
	Client  API
	Store   storage.Store
	View    View
	Clock   task.Clock
	Logger  *log.Logger

	Model          string
	RenderDelay    time.Duration
	PreloadStart   time.Duration
	PreloadGap     time.Duration
	DebounceWindow time.Duration

	// Initial carries the payload embedded in the page, if any, so the
	// first section needs no fetch.
	Initial           *api.SectionPayload
	InitialSubsection string
}

// Session owns the page's client state.
type Session struct {
	chapter   *course.Chapter
	client    API
	store     storage.Store
	logger    *log.Logger
	nav       *nav.Engine
	assembler *contextpack.Assembler
	chat      *chat.Session
	preloader *preload.Preloader
}

func New(opts Options) *Session {
	s := &Session{
		chapter: opts.Chapter,
		client:  opts.Client,
		store:   opts.Store,
		logger:  opts.Logger,
	}

	var source chat.ContextSource
	chapterID := ""
	if opts.Chapter != nil {
		chapterID = opts.Chapter.ID
		s.nav = nav.NewEngine(opts.Chapter, opts.Client, opts.View, opts.Clock, opts.RenderDelay, opts.Logger)
		s.assembler = contextpack.NewAssembler(opts.Chapter, opts.Client, opts.View, opts.Clock, opts.DebounceWindow, opts.Logger)
		s.nav.Subscribe(s.assembler)
		s.preloader = &preload.Preloader{
			Chapter:    opts.Chapter,
			Engine:     s.nav,
			Clock:      opts.Clock,
			Logger:     opts.Logger,
			StartDelay: opts.PreloadStart,
			Interval:   opts.PreloadGap,
		}
		source = &assembledContext{assembler: s.assembler}
	} else {
		source = &staticContext{client: opts.Client}
	}
	s.chat = chat.NewSession(opts.Store, chapterID, opts.Client, source, opts.View, opts.Model, opts.Logger)

	if opts.Initial != nil && s.nav != nil {
		s.nav.Seed(opts.Initial, opts.InitialSubsection)
		s.assembler.SectionDisplayed(opts.Initial.Section.ID)
	}
	return s
}

// Start restores persisted state and launches the preloader. The
// preloader stops when ctx is cancelled; nothing depends on it
// finishing.
func (s *Session) Start(ctx context.Context) {
	s.chat.Load(ctx)
	if s.preloader != nil {
		go s.preloader.Run(ctx)
	}
}

// Nav exposes the navigation engine. Nil on static pages.
func (s *Session) Nav() *nav.Engine { return s.nav }

// Assembler exposes the context assembler. Nil on static pages.
func (s *Session) Assembler() *contextpack.Assembler { return s.assembler }

// Chat exposes the chat session.
func (s *Session) Chat() *chat.Session { return s.chat }

// Back replays the previous history entry. history.ErrFullReload means
// the page must be reloaded at the returned entry's URL.
func (s *Session) Back(ctx context.Context) error {
	if s.nav == nil {
		return nil
	}
	return s.nav.HandlePop(ctx, s.nav.Stack().Back())
}

// Forward replays the next history entry.
func (s *Session) Forward(ctx context.Context) error {
	if s.nav == nil {
		return nil
	}
	return s.nav.HandlePop(ctx, s.nav.Stack().Forward())
}

// DownloadPapers bundles the selected sections' reading lists.
func (s *Session) DownloadPapers(ctx context.Context) ([]byte, error) {
	if s.assembler == nil {
		return nil, errors.New("no chapter active")
	}
	return s.client.DownloadPapers(ctx, s.assembler.SelectedSections())
}

// Preference reads a durable user preference. Missing keys and store
// failures both come back as empty.
func (s *Session) Preference(ctx context.Context, key string) string {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Printf("preference %s load failed: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return val
}

// SavePreference stores a durable user preference. Failures are logged
// and the page keeps its in-memory value.
func (s *Session) SavePreference(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.logger.Printf("preference %s save failed: %v", key, err)
	}
}

// assembledContext feeds the chat from the panel's current selection.
type assembledContext struct {
	assembler *contextpack.Assembler
}

func (c *assembledContext) ChatContext(ctx context.Context) (string, error) {
	format := c.assembler.Format()
	if format == contextpack.FormatPapers {
		format = contextpack.FormatNarrative
	}
	text, ok := c.assembler.Assemble(ctx, c.assembler.SelectedSections(), format)
	if !ok {
		return "", nil
	}
	return text, nil
}

// staticContext feeds the chat from the server's course-wide document.
type staticContext struct {
	client API
}

func (c *staticContext) ChatContext(ctx context.Context) (string, error) {
	return c.client.StaticContext(ctx)
}
