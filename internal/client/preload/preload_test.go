package preload

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/api"
	"github.com/callummcdougall/arena-heroku/internal/client/nav"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
)

type stubAPI struct {
	payloads map[string]*api.SectionPayload
	errs     map[string]error
	order    []string
}

func (s *stubAPI) Section(_ context.Context, _, sectionID string) (*api.SectionPayload, error) {
	s.order = append(s.order, sectionID)
	if err := s.errs[sectionID]; err != nil {
		return nil, err
	}
	return s.payloads[sectionID], nil
}

type nullView struct{}

func (nullView) ShowLoading(string)                                               {}
func (nullView) ShowError(string, error)                                          {}
func (nullView) ShowSection(*course.Section, []markdown.Subsection, string, bool) {}
func (nullView) ShowSubsection(markdown.Subsection)                               {}
func (nullView) ShowTOC([]markdown.Header, bool)                                  {}
func (nullView) ScrollToTop()                                                     {}
func (nullView) ScrollToAnchor(string)                                            {}

func payload(id string) *api.SectionPayload {
	return &api.SectionPayload{
		Section:     &course.Section{ID: id, Title: id},
		Subsections: []markdown.Subsection{{ID: "intro", Title: "Introduction"}},
	}
}

func newFixture(t *testing.T, sections ...course.Section) (*Preloader, *stubAPI, *nav.Engine) {
	t.Helper()
	chapter := &course.Chapter{ID: "ch", Title: "Chapter", Sections: sections}
	stub := &stubAPI{payloads: make(map[string]*api.SectionPayload), errs: make(map[string]error)}
	for _, s := range sections {
		stub.payloads[s.ID] = payload(s.ID)
	}
	logger := log.New(io.Discard, "", 0)
	engine := nav.NewEngine(chapter, stub, nullView{}, task.NewFakeClock(), 0, logger)
	p := &Preloader{
		Chapter: chapter,
		Engine:  engine,
		Clock:   task.RealClock{},
		Logger:  logger,
	}
	return p, stub, engine
}

func TestRunWarmsUncachedSectionsInOrder(t *testing.T) {
	p, stub, engine := newFixture(t,
		course.Section{ID: "a"},
		course.Section{ID: "b"},
		course.Section{ID: "c"},
	)

	// The active section and anything already cached are skipped.
	if err := engine.NavigateToSection(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	stub.order = nil

	p.Run(context.Background())

	if got := strings.Join(stub.order, ","); got != "a,c" {
		t.Errorf("fetch order = %q", got)
	}
	if !engine.Cached("a") || !engine.Cached("c") {
		t.Error("sections not cached after preload")
	}
}

func TestRunSkipsGroupSections(t *testing.T) {
	p, stub, _ := newFixture(t,
		course.Section{ID: "part1", IsGroup: true},
		course.Section{ID: "a"},
	)
	p.Run(context.Background())
	if got := strings.Join(stub.order, ","); got != "a" {
		t.Errorf("fetch order = %q", got)
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	var logged strings.Builder
	p, stub, engine := newFixture(t,
		course.Section{ID: "a"},
		course.Section{ID: "b"},
	)
	p.Logger = log.New(&logged, "", 0)
	stub.errs["a"] = errors.New("boom")

	p.Run(context.Background())

	if !engine.Cached("b") {
		t.Error("failure on a should not stop preload of b")
	}
	if !strings.Contains(logged.String(), "preload a failed") {
		t.Errorf("log = %q", logged.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	p, stub, _ := newFixture(t, course.Section{ID: "a"}, course.Section{ID: "b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)
	if len(stub.order) != 0 {
		t.Errorf("fetched %v after cancel", stub.order)
	}
}

func TestRunHonorsStartDelay(t *testing.T) {
	p, stub, _ := newFixture(t, course.Section{ID: "a"})
	p.StartDelay = 5 * time.Millisecond
	p.Interval = time.Millisecond
	p.Run(context.Background())
	if len(stub.order) != 1 {
		t.Errorf("fetched %v", stub.order)
	}
}
