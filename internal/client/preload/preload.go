// Package preload warms the section cache in the background so that
// most in-chapter navigation hits memory instead of the network.
package preload

import (
	"context"
	"log"
	"time"

	"github.com/callummcdougall/arena-heroku/internal/client/nav"
	"github.com/callummcdougall/arena-heroku/internal/client/task"
	"github.com/callummcdougall/arena-heroku/internal/course"
)

// Preloader walks a chapter's sections in declaration order and loads
// whatever is not cached yet. Strictly best-effort: failures are logged
// and skipped, and correctness never depends on it finishing.
type Preloader struct {
	Chapter    *course.Chapter
	Engine     *nav.Engine
	Clock      task.Clock
	Logger     *log.Logger
	StartDelay time.Duration
	Interval   time.Duration
}

// Run blocks until the chapter is walked or ctx is cancelled. Callers
// start it on its own goroutine after the initial render.
func (p *Preloader) Run(ctx context.Context) {
	if !p.sleep(ctx, p.StartDelay) {
		return
	}

	for _, section := range p.Chapter.Sections {
		if ctx.Err() != nil {
			return
		}
		if section.IsGroup {
			continue
		}
		if section.ID == p.Engine.State().SectionID || p.Engine.Cached(section.ID) {
			continue
		}
		if _, err := p.Engine.EnsureSection(ctx, section.ID); err != nil {
			if ctx.Err() != nil {
				return
			}
			p.Logger.Printf("preload %s failed: %v", section.ID, err)
		}
		if !p.sleep(ctx, p.Interval) {
			return
		}
	}
}

func (p *Preloader) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	done := make(chan struct{})
	t := p.Clock.AfterFunc(d, func() { close(done) })
	select {
	case <-done:
		return true
	case <-ctx.Done():
		t.Stop()
		return false
	}
}
