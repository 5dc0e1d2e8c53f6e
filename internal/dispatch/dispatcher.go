package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultFallbackDelay is how long the web link waits behind the app link.
const DefaultFallbackDelay = 500 * time.Millisecond

// Opener launches a link on the client.
type Opener interface {
	// Open launches link. confirmed is true when the opener knows the link
	// was handled, in which case no fallback is needed.
	Open(ctx context.Context, link string) (confirmed bool, err error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, link string) (bool, error)

func (f OpenerFunc) Open(ctx context.Context, link string) (bool, error) {
	return f(ctx, link)
}

// Plan is the sequence of links to open for one order.
type Plan struct {
	Primary string

	// Fallback is opened Delay after Primary unless the launch is confirmed.
	// Empty when there is no fallback.
	Fallback string
	Delay    time.Duration
}

// NewPlan picks the links for the client: the app link first with the web
// link as delayed fallback on mobile, the web link alone otherwise.
func NewPlan(links Links, mobile bool, delay time.Duration) Plan {
	if !mobile {
		return Plan{Primary: links.Web}
	}
	return Plan{Primary: links.App, Fallback: links.Web, Delay: delay}
}

// Dispatcher executes plans against an Opener.
type Dispatcher struct {
	opener Opener
}

// NewDispatcher creates a dispatcher that opens links with opener.
func NewDispatcher(opener Opener) *Dispatcher {
	return &Dispatcher{opener: opener}
}

// Dispatch opens the primary link and schedules the fallback. It does not
// wait for the fallback; the returned Pending can cancel it.
//
// When the opener confirms the primary launch the fallback is never
// scheduled. Otherwise it fires after the delay, even if the primary launch
// in fact succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, plan Plan) (*Pending, error) {
	p := &Pending{done: make(chan struct{})}

	confirmed, err := d.opener.Open(ctx, plan.Primary)
	if err != nil {
		slog.Warn("Primary link failed to open", "error", err)
	}

	if plan.Fallback == "" || confirmed {
		if plan.Fallback == "" && err != nil {
			close(p.done)
			return p, fmt.Errorf("failed to open order link: %w", err)
		}
		p.cancelled = confirmed
		close(p.done)
		return p, nil
	}

	fallbackCtx := context.WithoutCancel(ctx)
	p.timer = time.AfterFunc(plan.Delay, func() {
		p.mu.Lock()
		if p.cancelled {
			p.mu.Unlock()
			return
		}
		p.fired = true
		p.mu.Unlock()
		defer close(p.done)

		if _, err := d.opener.Open(fallbackCtx, plan.Fallback); err != nil {
			slog.Warn("Fallback link failed to open", "error", err)
		}
	})
	return p, nil
}

// Pending tracks the fallback of one dispatch.
type Pending struct {
	mu        sync.Mutex
	timer     *time.Timer
	fired     bool
	cancelled bool
	done      chan struct{}
}

// Confirm records that the primary launch succeeded and cancels the fallback
// if it has not fired yet. It reports whether the fallback was cancelled.
func (p *Pending) Confirm() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer == nil || p.fired || p.cancelled {
		return false
	}
	p.cancelled = true
	p.timer.Stop()
	close(p.done)
	return true
}

// Wait blocks until the fallback has been opened or cancelled.
func (p *Pending) Wait() {
	<-p.done
}

// Fired reports whether the fallback link was opened.
func (p *Pending) Fired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fired
}
