package overlay

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestDispatcherAppliesEventsInOrder(t *testing.T) {
	doc, c := newTestController(t)
	d := NewDispatcher(context.Background(), c)
	defer d.Close()

	ctx := context.Background()

	st, err := d.Apply(ctx, Event{Kind: EventActivate, Target: "ov_5"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Active != "ov_5" || !st.Visible {
		t.Errorf("state: got {%s %v}, want {ov_5 true}", st.Active, st.Visible)
	}

	st, err = d.Apply(ctx, Event{Kind: EventDeactivate})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Active != "ov_5" || st.Visible {
		t.Errorf("state after deactivate: got {%s %v}, want {ov_5 false}", st.Active, st.Visible)
	}

	if got := visibleOverlays(t, doc); len(got) != 0 {
		t.Errorf("visible overlays: got %v, want none", got)
	}
}

func TestDispatcherReportsUnknownTarget(t *testing.T) {
	_, c := newTestController(t)
	d := NewDispatcher(context.Background(), c)
	defer d.Close()

	st, err := d.Apply(context.Background(), Event{Kind: EventActivate, Target: "ov_404"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !errors.Is(st.Err, ErrOverlayNotFound) {
		t.Errorf("expected ErrOverlayNotFound in state, got %v", st.Err)
	}
}

func TestDispatcherSerializesConcurrentEvents(t *testing.T) {
	doc, c := newTestController(t)
	d := NewDispatcher(context.Background(), c)
	defer d.Close()

	ctx := context.Background()
	ids := []string{"ov_5", "ov_9", "ov_12"}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				d.Apply(ctx, Event{Kind: EventDeactivate})
				return
			}
			d.Apply(ctx, Event{Kind: EventActivate, Target: ids[i%len(ids)]})
		}(i)
	}
	wg.Wait()

	// After any interleaving, at most one overlay is visible.
	var final []string
	if _, err := d.Sync(ctx, func() { final = visibleOverlays(t, doc) }); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(final) > 1 {
		t.Errorf("invariant violated: %v visible", final)
	}
}

func TestDispatcherSyncReads(t *testing.T) {
	_, c := newTestController(t)
	d := NewDispatcher(context.Background(), c)
	defer d.Close()

	ctx := context.Background()
	if _, err := d.Apply(ctx, Event{Kind: EventActivate, Target: "ov_9"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	st, err := d.Sync(ctx, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if st.Active != "ov_9" || !st.Visible {
		t.Errorf("state: got {%s %v}, want {ov_9 true}", st.Active, st.Visible)
	}
}

func TestDispatcherClosedApply(t *testing.T) {
	_, c := newTestController(t)
	d := NewDispatcher(context.Background(), c)
	d.Close()

	if _, err := d.Apply(context.Background(), Event{Kind: EventDeactivate}); err == nil {
		t.Error("expected error applying to closed dispatcher")
	}
}
