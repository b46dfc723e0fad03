package nav

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/api"
	"github.com/callummcdougall/arena-heroku/internal/client/history"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
	"github.com/callummcdougall/arena-heroku/internal/markdown"
)

// stubAPI serves canned payloads. A gate channel, when present for a
// section, blocks that fetch until the test releases it.
type stubAPI struct {
	mu       sync.Mutex
	payloads map[string]*api.SectionPayload
	errs     map[string]error
	gates    map[string]chan struct{}
	started  map[string]chan struct{}
	calls    map[string]int
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		payloads: make(map[string]*api.SectionPayload),
		errs:     make(map[string]error),
		gates:    make(map[string]chan struct{}),
		started:  make(map[string]chan struct{}),
		calls:    make(map[string]int),
	}
}

func (s *stubAPI) Section(_ context.Context, _, sectionID string) (*api.SectionPayload, error) {
	s.mu.Lock()
	s.calls[sectionID]++
	gate := s.gates[sectionID]
	if ch, ok := s.started[sectionID]; ok {
		close(ch)
		delete(s.started, sectionID)
	}
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs[sectionID]; err != nil {
		return nil, err
	}
	return s.payloads[sectionID], nil
}

func (s *stubAPI) callCount(sectionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[sectionID]
}

// recordingView records everything the engine draws.
type recordingView struct {
	mu          sync.Mutex
	loading     []string
	errored     []string
	sections    []string
	subsections []string
	tocVisible  []bool
	listVisible []bool
	scrolls     int
	anchors     []string
}

func (v *recordingView) ShowLoading(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, id)
}

func (v *recordingView) ShowError(id string, _ error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errored = append(v.errored, id)
}

func (v *recordingView) ShowSection(section *course.Section, _ []markdown.Subsection, _ string, listVisible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sections = append(v.sections, section.ID)
	v.listVisible = append(v.listVisible, listVisible)
}

func (v *recordingView) ShowSubsection(sub markdown.Subsection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subsections = append(v.subsections, sub.ID)
}

func (v *recordingView) ShowTOC(_ []markdown.Header, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tocVisible = append(v.tocVisible, visible)
}

func (v *recordingView) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *recordingView) ScrollToAnchor(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.anchors = append(v.anchors, id)
}

func (v *recordingView) lastSubsection() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.subsections) == 0 {
		return ""
	}
	return v.subsections[len(v.subsections)-1]
}

type recordingObserver struct {
	mu  sync.Mutex
	ids []string
}

func (o *recordingObserver) SectionDisplayed(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ids = append(o.ids, id)
}

func payload(sectionID string, subs ...markdown.Subsection) *api.SectionPayload {
	return &api.SectionPayload{
		Section:     &course.Section{ID: sectionID, Title: sectionID},
		Subsections: subs,
	}
}

func sub(id string, headers ...markdown.Header) markdown.Subsection {
	return markdown.Subsection{ID: id, Title: id, HTML: "<p>" + id + "</p>", Headers: headers}
}

const renderDelay = 150 * time.Millisecond

func newTestEngine(t *testing.T) (*Engine, *stubAPI, *recordingView, *task.FakeClock) {
	t.Helper()
	chapter := &course.Chapter{ID: "ch", Title: "Chapter"}
	stub := newStubAPI()
	view := &recordingView{}
	clock := task.NewFakeClock()
	logger := log.New(io.Discard, "", 0)
	return NewEngine(chapter, stub, view, clock, renderDelay, logger), stub, view, clock
}

func TestNavigateToSection(t *testing.T) {
	e, stub, view, clock := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"), sub("rays"))

	obs := &recordingObserver{}
	e.Subscribe(obs)

	if err := e.NavigateToSection(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	st := e.State()
	if st.SectionID != "a" || st.SubsectionID != "intro" {
		t.Errorf("state = %+v", st)
	}
	if e.Phase() != Displaying {
		t.Errorf("phase = %v", e.Phase())
	}
	if len(view.sections) != 1 || view.sections[0] != "a" {
		t.Errorf("sections drawn: %v", view.sections)
	}
	if len(obs.ids) != 1 || obs.ids[0] != "a" {
		t.Errorf("observer got %v", obs.ids)
	}

	// Body swap waits for the fade delay.
	if view.lastSubsection() != "" {
		t.Error("subsection drawn before render delay")
	}
	clock.Advance(renderDelay)
	if view.lastSubsection() != "intro" {
		t.Errorf("drawn subsection = %q", view.lastSubsection())
	}

	// History records the visit.
	if cur := e.Stack().Current(); cur == nil || cur.State.SectionID != "a" {
		t.Errorf("history current = %+v", cur)
	}
}

func TestNavigateToSectionIsNoOpWhenCurrent(t *testing.T) {
	e, stub, _, _ := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"))

	_ = e.NavigateToSection(context.Background(), "a")
	_ = e.NavigateToSection(context.Background(), "a")
	if got := stub.callCount("a"); got != 1 {
		t.Errorf("fetches = %d", got)
	}
	if e.Stack().Len() != 1 {
		t.Errorf("history len = %d", e.Stack().Len())
	}
}

func TestSectionFetchedAtMostOnce(t *testing.T) {
	e, stub, _, _ := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"))
	stub.payloads["b"] = payload("b", sub("intro"))

	ctx := context.Background()
	_ = e.NavigateToSection(ctx, "a")
	_ = e.NavigateToSection(ctx, "b")
	_ = e.NavigateToSection(ctx, "a")
	_ = e.NavigateToSection(ctx, "b")

	if stub.callCount("a") != 1 || stub.callCount("b") != 1 {
		t.Errorf("fetches a=%d b=%d", stub.callCount("a"), stub.callCount("b"))
	}
}

func TestConcurrentEnsureSharesOneFetch(t *testing.T) {
	e, stub, _, _ := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"))
	gate := make(chan struct{})
	started := make(chan struct{})
	stub.gates["a"] = gate
	stub.started["a"] = started

	ctx := context.Background()
	results := make(chan error, 2)
	go func() {
		_, err := e.EnsureSection(ctx, "a")
		results <- err
	}()
	<-started
	go func() {
		_, err := e.EnsureSection(ctx, "a")
		results <- err
	}()

	close(gate)
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			t.Fatal(err)
		}
	}
	if got := stub.callCount("a"); got != 1 {
		t.Errorf("fetches = %d", got)
	}
}

func TestRapidFireLastNavigationWins(t *testing.T) {
	e, stub, view, _ := newTestEngine(t)
	stub.payloads["b"] = payload("b", sub("intro"))
	stub.payloads["c"] = payload("c", sub("intro"))
	gateB := make(chan struct{})
	startedB := make(chan struct{})
	stub.gates["b"] = gateB
	stub.started["b"] = startedB

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		_ = e.NavigateToSection(ctx, "b")
		close(done)
	}()
	<-startedB

	// C resolves while B is still in flight.
	if err := e.NavigateToSection(ctx, "c"); err != nil {
		t.Fatal(err)
	}
	close(gateB)
	<-done

	if st := e.State(); st.SectionID != "c" {
		t.Errorf("final section = %q", st.SectionID)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	for _, id := range view.sections {
		if id == "b" {
			t.Error("stale response for b was rendered")
		}
	}
}

func TestNavigateToSectionFetchFailure(t *testing.T) {
	e, stub, view, _ := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"))
	stub.errs["b"] = errors.New("boom")

	ctx := context.Background()
	_ = e.NavigateToSection(ctx, "a")
	before := e.State()

	if err := e.NavigateToSection(ctx, "b"); err == nil {
		t.Fatal("expected error")
	}
	if e.Phase() != Errored {
		t.Errorf("phase = %v", e.Phase())
	}
	if st := e.State(); st != before {
		t.Errorf("state mutated on failure: %+v", st)
	}
	if len(view.errored) != 1 || view.errored[0] != "b" {
		t.Errorf("errors drawn: %v", view.errored)
	}

	// Retry succeeds once the backend recovers.
	stub.mu.Lock()
	delete(stub.errs, "b")
	stub.payloads["b"] = payload("b", sub("intro"))
	stub.mu.Unlock()
	if err := e.NavigateToSection(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if st := e.State(); st.SectionID != "b" {
		t.Errorf("state after retry = %+v", st)
	}
}

func TestNavigateToSubsection(t *testing.T) {
	e, stub, view, clock := newTestEngine(t)
	h := []markdown.Header{{Level: 2, ID: "one", Title: "One"}, {Level: 2, ID: "two", Title: "Two"}}
	stub.payloads["a"] = payload("a", sub("s1", h...), sub("s2"))

	_ = e.NavigateToSection(context.Background(), "a")
	e.NavigateToSubsection("s2")

	// Logical state commits immediately even though the body swap is
	// still pending.
	if st := e.State(); st.SubsectionID != "s2" {
		t.Errorf("state = %+v", st)
	}
	clock.Advance(renderDelay)
	if view.lastSubsection() != "s2" {
		t.Errorf("drawn = %q", view.lastSubsection())
	}
	if view.scrolls != 1 {
		t.Errorf("scrolls = %d", view.scrolls)
	}

	// Unknown subsection id is ignored.
	e.NavigateToSubsection("nope")
	if st := e.State(); st.SubsectionID != "s2" {
		t.Errorf("state after unknown id = %+v", st)
	}
}

func TestRenderDelayLastWins(t *testing.T) {
	e, stub, view, clock := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("s1"), sub("s2"))

	_ = e.NavigateToSection(context.Background(), "a")
	e.NavigateToSubsection("s2")
	// Two renders pending; only the latest should draw.
	clock.Advance(renderDelay)
	if got := len(view.subsections); got != 1 {
		t.Fatalf("drawn %d subsections: %v", got, view.subsections)
	}
	if view.lastSubsection() != "s2" {
		t.Errorf("drawn = %q", view.lastSubsection())
	}
}

func TestTOCVisibilityThreshold(t *testing.T) {
	e, stub, view, clock := newTestEngine(t)
	one := []markdown.Header{{Level: 2, ID: "only", Title: "Only"}}
	two := []markdown.Header{{Level: 2, ID: "a", Title: "A"}, {Level: 3, ID: "b", Title: "B"}}
	stub.payloads["x"] = payload("x", sub("s1", one...), sub("s2", two...))

	_ = e.NavigateToSection(context.Background(), "x")
	clock.Advance(renderDelay)
	if view.tocVisible[0] {
		t.Error("single-header TOC should be hidden")
	}
	e.NavigateToSubsection("s2")
	clock.Advance(renderDelay)
	if !view.tocVisible[1] {
		t.Error("two-header TOC should be visible")
	}
}

func TestTocAnchorTouchesNothing(t *testing.T) {
	e, stub, view, _ := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"))
	_ = e.NavigateToSection(context.Background(), "a")
	before := e.State()
	stackLen := e.Stack().Len()

	e.NavigateToTocAnchor("some-header")

	if e.State() != before || e.Stack().Len() != stackLen {
		t.Error("anchor navigation mutated state or history")
	}
	if len(view.anchors) != 1 || view.anchors[0] != "some-header" {
		t.Errorf("anchors = %v", view.anchors)
	}
}

func TestHandlePopRoundTripWithoutNetwork(t *testing.T) {
	e, stub, _, clock := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"), sub("deep"))
	stub.payloads["b"] = payload("b", sub("intro"))

	ctx := context.Background()
	_ = e.NavigateToSection(ctx, "a")
	e.NavigateToSubsection("deep")
	_ = e.NavigateToSection(ctx, "b")
	fetches := stub.callCount("a") + stub.callCount("b")

	entry := e.Stack().Back()
	if err := e.HandlePop(ctx, entry); err != nil {
		t.Fatal(err)
	}
	clock.Advance(renderDelay)
	if st := e.State(); st.SectionID != "a" || st.SubsectionID != "deep" {
		t.Errorf("state after pop = %+v", st)
	}
	if got := stub.callCount("a") + stub.callCount("b"); got != fetches {
		t.Errorf("pop issued %d extra fetches", got-fetches)
	}
	// Replay does not grow the stack.
	if e.Stack().Len() != 3 {
		t.Errorf("stack len = %d", e.Stack().Len())
	}
}

func TestHandlePopChapterMismatch(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	entry := &history.Entry{State: history.State{ChapterID: "other", SectionID: "x"}, HasState: true}
	if err := e.HandlePop(context.Background(), entry); !errors.Is(err, history.ErrFullReload) {
		t.Errorf("err = %v", err)
	}
}

func TestHandlePopURLOnlyEntry(t *testing.T) {
	e, stub, _, clock := newTestEngine(t)
	stub.payloads["a"] = payload("a", sub("intro"), sub("deep"))
	stub.payloads["b"] = payload("b", sub("intro"))

	ctx := context.Background()
	_ = e.NavigateToSection(ctx, "b")

	entry := &history.Entry{URL: "/ch/a/deep/"}
	if err := e.HandlePop(ctx, entry); err != nil {
		t.Fatal(err)
	}
	clock.Advance(renderDelay)
	if st := e.State(); st.SectionID != "a" || st.SubsectionID != "deep" {
		t.Errorf("state = %+v", st)
	}
}

func TestSeedSkipsFirstFetch(t *testing.T) {
	e, stub, _, _ := newTestEngine(t)
	p := payload("a", sub("intro"), sub("rays"))
	stub.payloads["a"] = p

	e.Seed(p, "rays")
	if st := e.State(); st.SectionID != "a" || st.SubsectionID != "rays" {
		t.Errorf("state = %+v", st)
	}
	_ = e.NavigateToSection(context.Background(), "a")
	if got := stub.callCount("a"); got != 0 {
		t.Errorf("seeded section fetched %d times", got)
	}
}
