package overlay

import (
	"context"
	"sync"
)

// EventKind discriminates pointer events.
type EventKind string

const (
	// EventActivate shows the overlay named by Target.
	EventActivate EventKind = "activate"
	// EventDeactivate hides the active overlay (a click not aimed at any
	// diagram element).
	EventDeactivate EventKind = "deactivate"
)

// Event is one pointer interaction delivered to a diagram.
type Event struct {
	Kind   EventKind
	Target string
}

// State is the register value after an event has been applied. Visible
// distinguishes an activated overlay from a deactivated one the register
// still remembers.
type State struct {
	Active  string
	Visible bool
	Err     error
}

type request struct {
	ev    *Event
	fn    func()
	reply chan State
}

// Dispatcher serializes all document mutations through a single owning
// goroutine. Pointer events may arrive from any number of connections, but
// the at-most-one-visible invariant only holds if hide and show never
// interleave, so every event is applied run-to-completion in order.
type Dispatcher struct {
	ctrl      *Controller
	requests  chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher starts a dispatcher over ctrl. The dispatcher runs until
// ctx is cancelled or Close is called.
func NewDispatcher(ctx context.Context, ctrl *Controller) *Dispatcher {
	d := &Dispatcher{
		ctrl:     ctrl,
		requests: make(chan request, 16),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go d.run(ctx)
	return d
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.quit:
			return
		case req := <-d.requests:
			st := State{}
			if req.ev != nil {
				switch req.ev.Kind {
				case EventActivate:
					st.Err = d.ctrl.Activate(req.ev.Target)
				case EventDeactivate:
					d.ctrl.Deactivate()
				}
			}
			if req.fn != nil {
				req.fn()
			}
			st.Active = d.ctrl.Active()
			st.Visible = d.ctrl.Showing()
			if req.reply != nil {
				req.reply <- st
			}
		}
	}
}

// Apply submits an event and waits for it to be processed, returning the
// resulting register state. Returns ctx's error if the dispatcher has shut
// down or the context expires first.
func (d *Dispatcher) Apply(ctx context.Context, ev Event) (State, error) {
	return d.submit(ctx, request{ev: &ev})
}

// Sync runs fn on the dispatcher's owning goroutine, between events. Used
// for consistent reads of the document while no mutation is in flight.
func (d *Dispatcher) Sync(ctx context.Context, fn func()) (State, error) {
	return d.submit(ctx, request{fn: fn})
}

func (d *Dispatcher) submit(ctx context.Context, req request) (State, error) {
	req.reply = make(chan State, 1)
	select {
	case d.requests <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-d.done:
		return State{}, context.Canceled
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-d.done:
		return State{}, context.Canceled
	}
}

// Close stops the dispatcher and waits for the owning goroutine to exit.
// Pending events submitted before Close may or may not be applied.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.quit) })
	<-d.done
}
