// Package history models the browser history for in-page navigation:
// an explicit entry stack with push/replace and back/forward traversal.
// Entries created by this code carry their navigation state; entries
// that predate the page (a pasted URL, a reload) only have a path and
// are re-parsed on demand.
package history

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFullReload signals that a history entry cannot be resolved within
// the current page and the caller must do a full page load instead.
var ErrFullReload = errors.New("history entry requires a full page reload")

// State identifies a position in the course.
type State struct {
	ChapterID    string `json:"chapter_id"`
	SectionID    string `json:"section_id"`
	SubsectionID string `json:"subsection_id"`
}

// Entry is one history slot. HasState distinguishes entries written by
// this page from URL-only entries inherited from the browser.
type Entry struct {
	State    State
	URL      string
	HasState bool
}

// Path renders the canonical URL for a state.
func (s State) Path() string {
	if s.SubsectionID != "" {
		return fmt.Sprintf("/%s/%s/%s/", s.ChapterID, s.SectionID, s.SubsectionID)
	}
	return fmt.Sprintf("/%s/%s/", s.ChapterID, s.SectionID)
}

// ParsePath recovers navigation state from a URL path of the form
// /{chapter}/{section}/ or /{chapter}/{section}/{subsection}/.
func ParsePath(path string) (State, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch len(parts) {
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return State{}, fmt.Errorf("not a section path: %q", path)
		}
		return State{ChapterID: parts[0], SectionID: parts[1]}, nil
	case 3:
		return State{ChapterID: parts[0], SectionID: parts[1], SubsectionID: parts[2]}, nil
	default:
		return State{}, fmt.Errorf("not a section path: %q", path)
	}
}

// Resolve yields the state a popped entry navigates to. URL-only
// entries are parsed; any entry pointing at a different chapter (or at
// a non-section page) cannot be handled in-page and returns
// ErrFullReload.
func (e *Entry) Resolve(currentChapterID string) (State, error) {
	state := e.State
	if !e.HasState {
		parsed, err := ParsePath(e.URL)
		if err != nil {
			return State{}, ErrFullReload
		}
		state = parsed
	}
	if state.ChapterID != currentChapterID {
		return State{}, ErrFullReload
	}
	return state, nil
}

// Stack is the history. Position -1 means empty.
type Stack struct {
	entries []Entry
	pos     int
}

func NewStack() *Stack {
	return &Stack{pos: -1}
}

// Push appends a new entry, truncating any forward entries the way a
// browser does after back-then-navigate.
func (st *Stack) Push(state State) {
	st.entries = append(st.entries[:st.pos+1], Entry{State: state, URL: state.Path(), HasState: true})
	st.pos++
}

// PushURL appends a URL-only entry, as the browser does for the
// initial page load.
func (st *Stack) PushURL(url string) {
	st.entries = append(st.entries[:st.pos+1], Entry{URL: url})
	st.pos++
}

// Replace overwrites the current entry without growing the stack.
// On an empty stack it behaves like Push.
func (st *Stack) Replace(state State) {
	if st.pos < 0 {
		st.Push(state)
		return
	}
	st.entries[st.pos] = Entry{State: state, URL: state.Path(), HasState: true}
}

// Current returns the active entry, or nil when empty.
func (st *Stack) Current() *Entry {
	if st.pos < 0 {
		return nil
	}
	return &st.entries[st.pos]
}

// Back moves to the previous entry. Returns nil at the start of the
// stack.
func (st *Stack) Back() *Entry {
	if st.pos <= 0 {
		return nil
	}
	st.pos--
	return &st.entries[st.pos]
}

// Forward moves to the next entry. Returns nil at the end.
func (st *Stack) Forward() *Entry {
	if st.pos < 0 || st.pos >= len(st.entries)-1 {
		return nil
	}
	st.pos++
	return &st.entries[st.pos]
}

// Len reports the number of entries.
func (st *Stack) Len() int { return len(st.entries) }
