package widgets

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/lessonlab/internal/lessons"
)

// Animator is the start/stop button of an animated session.
type Animator struct {
	session  *Session
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAnimator(s *Session) (*Animator, error) {
	a, ok := s.Lesson().(lessons.Animated)
	if !ok {
		return nil, ErrNotAnimated
	}
	return &Animator{session: s, interval: a.Interval()}, nil
}

// Start steps the session every interval until Stop or ctx is done.
// Starting a running animator does nothing.
func (a *Animator) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runningLocked() {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.session.Step(); err != nil {
					a.session.logger.Warn("animation step failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop blocks until the animation goroutine has exited.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle starts a stopped animator or stops a running one, and reports
// whether it is now running.
func (a *Animator) Toggle(ctx context.Context) bool {
	if a.Running() {
		a.Stop()
		return false
	}
	a.Start(ctx)
	return true
}

func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runningLocked()
}

func (a *Animator) runningLocked() bool {
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}
