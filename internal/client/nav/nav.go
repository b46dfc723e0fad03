// Package nav is the navigation engine: it orchestrates section and
// subsection transitions, consults the payload cache, falls back to the
// section API, keeps the history stack in sync and drives the view.
//
// Mutations go through a single mutex. Fetches happen outside the lock;
// every navigation takes a fresh generation number and a response is
// committed only if its generation is still the latest, so a late
// response from an earlier navigation is discarded rather than
// clobbering a newer one.
package nav

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/api"
	"github.com/callummcdougall/arena-heroku/internal/client/cache"
	"github.com/callummcdougall/arena-heroku/internal/client/history"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
)

// Phase is the engine's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Displaying
	Errored
)

// minTOCHeaders is the visibility threshold for the table of contents.
// A one-entry TOC is noise, so it is hidden entirely.
const minTOCHeaders = 2

// SectionAPI is the slice of the HTTP client the engine needs.
type SectionAPI interface {
	Section(ctx context.Context, chapterID, sectionID string) (*api.SectionPayload, error)
}

// View is everything the engine tells the page to draw. Implementations
// must tolerate being called from the goroutine that navigated and from
// clock callbacks.
type View interface {
	ShowLoading(sectionID string)
	ShowError(sectionID string, err error)
	// ShowSection draws the section chrome: status banner and the
	// subsection list. listVisible is false when the section has no
	// subsections worth listing.
	ShowSection(section *course.Section, subs []markdown.Subsection, activeID string, listVisible bool)
	// ShowSubsection swaps the content body. Called after the render
	// delay so the page can fade.
	ShowSubsection(sub markdown.Subsection)
	ShowTOC(headers []markdown.Header, visible bool)
	ScrollToTop()
	ScrollToAnchor(anchorID string)
}

// Observer is notified after a section is successfully displayed. The
// context side panel subscribes so its selection follows navigation.
type Observer interface {
	SectionDisplayed(sectionID string)
}

// Engine drives in-page navigation for one chapter.
type Engine struct {
	chapter *course.Chapter
	api     SectionAPI
	view    View
	clock   task.Clock
	logger  *log.Logger

	renderDelay time.Duration

	mu        sync.Mutex
	phase     Phase
	state     history.State
	sections  *cache.Store[string, *api.SectionPayload]
	stack     *history.Stack
	inflight  map[string]chan struct{}
	navGen    uint64
	renderGen uint64
	observers []Observer
}

func NewEngine(chapter *course.Chapter, client SectionAPI, view View, clock task.Clock, renderDelay time.Duration, logger *log.Logger) *Engine {
	return &Engine{
		chapter:     chapter,
		api:         client,
		view:        view,
		clock:       clock,
		logger:      logger,
		renderDelay: renderDelay,
		state:       history.State{ChapterID: chapter.ID},
		sections:    cache.New[string, *api.SectionPayload](),
		stack:       history.NewStack(),
		inflight:    make(map[string]chan struct{}),
	}
}

// Subscribe registers an observer for section-displayed events.
func (e *Engine) Subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// State returns the current navigation state.
func (e *Engine) State() history.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Phase returns the engine's lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Stack exposes the history stack for pop handling.
func (e *Engine) Stack() *history.Stack { return e.stack }

// Cached reports whether a section payload is already in the store.
func (e *Engine) Cached(sectionID string) bool {
	return e.sections.Has(sectionID)
}

// Seed installs a payload delivered with the initial page load, skipping
// the redundant first fetch, and records the starting history entry.
func (e *Engine) Seed(payload *api.SectionPayload, subsectionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sections.Set(payload.Section.ID, payload)
	e.state.SectionID = payload.Section.ID
	e.state.SubsectionID = resolveSubsection(payload, subsectionID)
	e.phase = Displaying
	e.stack.Replace(e.state)
}

// EnsureSection returns the payload for a section, fetching it at most
// once: concurrent callers for the same id wait on the first fetch
// instead of issuing their own.
func (e *Engine) EnsureSection(ctx context.Context, sectionID string) (*api.SectionPayload, error) {
	for {
		e.mu.Lock()
		if p, ok := e.sections.Get(sectionID); ok {
			e.mu.Unlock()
			return p, nil
		}
		ch, waiting := e.inflight[sectionID]
		if !waiting {
			ch = make(chan struct{})
			e.inflight[sectionID] = ch
		}
		e.mu.Unlock()

		if waiting {
			select {
			case <-ch:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			// The winner either cached the payload or failed; loop to
			// pick up the result or take over the fetch.
			continue
		}

		payload, err := e.api.Section(ctx, e.chapter.ID, sectionID)
		e.mu.Lock()
		delete(e.inflight, sectionID)
		close(ch)
		if err == nil {
			e.sections.Set(sectionID, payload)
		}
		e.mu.Unlock()
		return payload, err
	}
}

// NavigateToSection loads and displays a section. A failed fetch shows
// a retryable error and leaves the navigation state untouched. When
// several navigations race, the most recent one wins and earlier
// responses are dropped.
func (e *Engine) NavigateToSection(ctx context.Context, sectionID string) error {
	e.mu.Lock()
	if sectionID == e.state.SectionID && e.phase == Displaying {
		e.mu.Unlock()
		return nil
	}
	e.navGen++
	gen := e.navGen
	e.phase = Loading
	e.mu.Unlock()

	e.view.ShowLoading(sectionID)

	payload, err := e.EnsureSection(ctx, sectionID)

	e.mu.Lock()
	if gen != e.navGen {
		// A newer navigation superseded this one.
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.phase = Errored
		e.mu.Unlock()
		e.logger.Printf("section %s load failed: %v", sectionID, err)
		e.view.ShowError(sectionID, err)
		return err
	}

	e.state.SectionID = sectionID
	e.state.SubsectionID = resolveSubsection(payload, "")
	e.phase = Displaying
	e.stack.Push(e.state)
	sub, _ := findSubsection(payload, e.state.SubsectionID)
	observers := append([]Observer(nil), e.observers...)
	e.mu.Unlock()

	e.view.ShowSection(payload.Section, payload.Subsections, sub.ID, len(payload.Subsections) > 0)
	e.scheduleRender(sub)
	for _, o := range observers {
		o.SectionDisplayed(sectionID)
	}
	return nil
}

// NavigateToSubsection switches subsections within the current section.
// Subsections are only reachable once their parent is loaded, so there
// is no network fallback: an uncached section or unknown id is a no-op.
func (e *Engine) NavigateToSubsection(subsectionID string) {
	e.mu.Lock()
	payload, ok := e.sections.Get(e.state.SectionID)
	if !ok {
		e.mu.Unlock()
		return
	}
	sub, ok := findSubsection(payload, subsectionID)
	if !ok {
		e.mu.Unlock()
		return
	}
	e.state.SubsectionID = subsectionID
	e.stack.Push(e.state)
	e.mu.Unlock()

	e.scheduleRender(sub)
	e.view.ScrollToTop()
}

// NavigateToTocAnchor scrolls to an in-content header. Pure presentation:
// no state change, no history entry, no cache interaction.
func (e *Engine) NavigateToTocAnchor(anchorID string) {
	e.view.ScrollToAnchor(anchorID)
}

// HandlePop replays a history entry after back/forward. Section
// mismatches reuse the fetch-or-cache path without pushing a new entry;
// subsection-only mismatches re-render from cache and fail silently
// when the payload is gone. history.ErrFullReload propagates to the
// caller, which must reload the page.
func (e *Engine) HandlePop(ctx context.Context, entry *history.Entry) error {
	if entry == nil {
		return nil
	}
	target, err := entry.Resolve(e.chapter.ID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	current := e.state
	e.mu.Unlock()

	if target.SectionID != current.SectionID {
		e.mu.Lock()
		e.navGen++
		gen := e.navGen
		e.phase = Loading
		e.mu.Unlock()

		e.view.ShowLoading(target.SectionID)
		payload, err := e.EnsureSection(ctx, target.SectionID)

		e.mu.Lock()
		if gen != e.navGen {
			e.mu.Unlock()
			return nil
		}
		if err != nil {
			e.phase = Errored
			e.mu.Unlock()
			e.logger.Printf("history replay of %s failed: %v", target.SectionID, err)
			e.view.ShowError(target.SectionID, err)
			return err
		}
		e.state.SectionID = target.SectionID
		e.state.SubsectionID = resolveSubsection(payload, target.SubsectionID)
		e.phase = Displaying
		sub, _ := findSubsection(payload, e.state.SubsectionID)
		observers := append([]Observer(nil), e.observers...)
		e.mu.Unlock()

		e.view.ShowSection(payload.Section, payload.Subsections, sub.ID, len(payload.Subsections) > 0)
		e.scheduleRender(sub)
		for _, o := range observers {
			o.SectionDisplayed(target.SectionID)
		}
		return nil
	}

	if target.SubsectionID != current.SubsectionID {
		e.mu.Lock()
		payload, ok := e.sections.Get(current.SectionID)
		if !ok {
			e.mu.Unlock()
			return nil
		}
		sub, ok := findSubsection(payload, target.SubsectionID)
		if !ok {
			e.mu.Unlock()
			return nil
		}
		e.state.SubsectionID = sub.ID
		e.mu.Unlock()
		e.scheduleRender(sub)
	}
	return nil
}

// scheduleRender swaps the subsection body after the cosmetic fade
// delay. The delay never blocks logical navigation: each schedule
// bumps the render generation, so only the latest pending swap draws.
func (e *Engine) scheduleRender(sub markdown.Subsection) {
	e.mu.Lock()
	e.renderGen++
	gen := e.renderGen
	e.mu.Unlock()

	e.clock.AfterFunc(e.renderDelay, func() {
		e.mu.Lock()
		stale := gen != e.renderGen
		e.mu.Unlock()
		if stale {
			return
		}
		e.view.ShowSubsection(sub)
		e.view.ShowTOC(sub.Headers, len(sub.Headers) >= minTOCHeaders)
	})
}

func resolveSubsection(payload *api.SectionPayload, preferred string) string {
	if preferred != "" {
		if _, ok := findSubsection(payload, preferred); ok {
			return preferred
		}
	}
	if len(payload.Subsections) > 0 {
		return payload.Subsections[0].ID
	}
	return ""
}

func findSubsection(payload *api.SectionPayload, id string) (markdown.Subsection, bool) {
	for _, sub := range payload.Subsections {
		if sub.ID == id {
			return sub, true
		}
	}
	return markdown.Subsection{}, false
}
