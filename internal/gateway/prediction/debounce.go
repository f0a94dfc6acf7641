// internal/gateway/prediction/debounce.go
package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/anmolairi03/diabetes/internal/models"
)

// Live debounces rapid successive prediction requests for interactive
// callers. Only the last request inside the delay window fires, and each
// scheduling call issues a new generation token: a response is delivered
// only while its token is still the newest. Superseding never aborts an
// in-flight upstream call; a stale response is simply dropped.
type Live struct {
	client *Client
	delay  time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	closed     bool
}

func NewLive(client *Client, delay time.Duration) *Live {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Live{
		client: client,
		delay:  delay,
	}
}

// Request schedules a prediction look-up for input, superseding any pending
// one. deliver runs on the debounce goroutine and is only invoked when the
// request is still the newest by the time its result arrives.
func (l *Live) Request(input models.RiskInput, deliver func(Result)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.generation++
	token := l.generation

	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, func() {
		l.fire(token, input, deliver)
	})
}

func (l *Live) fire(token uint64, input models.RiskInput, deliver func(Result)) {
	l.mu.Lock()
	if l.closed || token != l.generation {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), l.client.requestBudget())
	defer cancel()
	result := l.client.Predict(ctx, input)

	// Re-check after the round-trip: a newer request may have won the race
	// while this one was in flight.
	l.mu.Lock()
	stale := l.closed || token != l.generation
	l.mu.Unlock()
	if stale {
		return
	}

	deliver(result)
}

// Close cancels the pending timer, if any. In-flight requests finish but
// their results are discarded.
func (l *Live) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
}
