package diagram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/genomeviz/exonview/internal/labelbox"
	"github.com/genomeviz/exonview/internal/overlay"
)

func newTestManager(t *testing.T) (*Store, *Manager, string) {
	t.Helper()
	store := newTestStore(t)

	d := &Diagram{
		Name:     "brca2",
		SVG:      fixtureSVG,
		LabelIDs: []string{"Mouseover1", "Mouseover2"},
		HolderID: "activeOverlay",
	}
	if err := store.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	m := NewManager(store, testMeasurer(t), labelbox.DefaultOptions())
	t.Cleanup(m.Close)
	return store, m, d.ID
}

func TestManagerOpensFinalizedSession(t *testing.T) {
	_, m, id := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	svg, err := sess.Render(ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(svg, "<rect") {
		t.Error("session document not finalized: no background rects")
	}

	// Second open returns the same live session.
	again, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if again != sess {
		t.Error("expected cached session on second Open")
	}
}

func TestManagerOpenMissing(t *testing.T) {
	_, m, _ := newTestManager(t)
	if _, err := m.Open(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionApplyAndAudit(t *testing.T) {
	store, m, id := newTestManager(t)
	ctx := context.Background()

	sess, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	st, err := sess.Apply(ctx, overlay.Event{Kind: overlay.EventActivate, Target: "ov_1"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Active != "ov_1" || !st.Visible {
		t.Errorf("state: got {%s %v}, want {ov_1 true}", st.Active, st.Visible)
	}

	st, err = sess.Apply(ctx, overlay.Event{Kind: overlay.EventDeactivate})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if st.Visible {
		t.Error("overlay still visible after deactivate")
	}

	events, err := store.ListEvents(ctx, id)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d audit events, want 2", len(events))
	}
}

func TestSessionBroadcast(t *testing.T) {
	_, m, id := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	states := sess.Watch(ctx)

	if _, err := sess.Apply(ctx, overlay.Event{Kind: overlay.EventActivate, Target: "ov_1"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	select {
	case st := <-states:
		if st.Active != "ov_1" || !st.Visible {
			t.Errorf("broadcast state: got {%s %v}, want {ov_1 true}", st.Active, st.Visible)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast state")
	}
}

func TestManagerOpenConcurrent(t *testing.T) {
	_, m, id := newTestManager(t)
	ctx := context.Background()

	sessions := make([]*Session, 8)
	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = m.Open(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := range sessions {
		if errs[i] != nil {
			t.Fatalf("Open #%d: %v", i, errs[i])
		}
		if sessions[i] != sessions[0] {
			t.Fatalf("Open #%d returned a different session", i)
		}
	}
}

func TestManagerFailedOpenRetries(t *testing.T) {
	store, m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Open(ctx, "late"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The failed load must not be cached: once the diagram exists, the
	// same id opens fine.
	d := &Diagram{
		ID:       "late",
		Name:     "late",
		SVG:      fixtureSVG,
		LabelIDs: []string{"Mouseover1"},
		HolderID: "activeOverlay",
	}
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Open(ctx, "late"); err != nil {
		t.Fatalf("Open after create: %v", err)
	}
}

func TestManagerEvict(t *testing.T) {
	_, m, id := newTestManager(t)
	ctx := context.Background()

	first, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m.Evict(id)

	second, err := m.Open(ctx, id)
	if err != nil {
		t.Fatalf("Open after evict: %v", err)
	}
	if first == second {
		t.Error("expected a fresh session after Evict")
	}
}
