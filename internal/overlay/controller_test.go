package overlay

import (
	"errors"
	"testing"

	"github.com/genomeviz/exonview/internal/svgdom"
)

const diagramSVG = `<svg xmlns="http://www.w3.org/2000/svg">
  <g id="ov_5" visibility="hidden"><text>frame preserved</text></g>
  <g id="ov_9" visibility="hidden"><text>frame shifted</text></g>
  <g id="ov_12" visibility="hidden"><text>deleted exon</text></g>
  <text id="activeOverlay" visibility="hidden">none</text>
</svg>`

func newTestController(t *testing.T) (*svgdom.Document, *Controller) {
	t.Helper()
	doc, err := svgdom.ParseString(diagramSVG)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc, NewController(doc, "activeOverlay")
}

// visibleOverlays returns the overlay ids currently visible.
func visibleOverlays(t *testing.T, doc *svgdom.Document) []string {
	t.Helper()
	var out []string
	for _, id := range []string{"ov_5", "ov_9", "ov_12"} {
		el, err := doc.ByID(id)
		if err != nil {
			t.Fatalf("ByID(%s): %v", id, err)
		}
		if el.Visibility() == svgdom.Visible {
			out = append(out, id)
		}
	}
	return out
}

func TestActivateSwitchesOverlays(t *testing.T) {
	doc, c := newTestController(t)

	if c.Active() != None {
		t.Fatalf("initial register: got %q, want none", c.Active())
	}

	if err := c.Activate("ov_5"); err != nil {
		t.Fatalf("Activate(ov_5): %v", err)
	}
	if c.Active() != "ov_5" {
		t.Errorf("register: got %q, want ov_5", c.Active())
	}
	if got := visibleOverlays(t, doc); len(got) != 1 || got[0] != "ov_5" {
		t.Errorf("visible overlays: got %v, want [ov_5]", got)
	}

	if err := c.Activate("ov_9"); err != nil {
		t.Fatalf("Activate(ov_9): %v", err)
	}
	if c.Active() != "ov_9" {
		t.Errorf("register: got %q, want ov_9", c.Active())
	}
	if got := visibleOverlays(t, doc); len(got) != 1 || got[0] != "ov_9" {
		t.Errorf("visible overlays: got %v, want [ov_9]", got)
	}
}

func TestAtMostOneVisibleOverAnySequence(t *testing.T) {
	doc, c := newTestController(t)

	sequence := []string{"ov_5", "ov_9", "ov_9", "ov_12", "ov_5", "ov_12", "ov_12"}
	for _, id := range sequence {
		if err := c.Activate(id); err != nil {
			t.Fatalf("Activate(%s): %v", id, err)
		}
		got := visibleOverlays(t, doc)
		if len(got) != 1 {
			t.Fatalf("after Activate(%s): %d overlays visible, want 1 (%v)", id, len(got), got)
		}
		if got[0] != id {
			t.Fatalf("after Activate(%s): %s visible instead", id, got[0])
		}
	}
}

func TestActivateSameIDTwice(t *testing.T) {
	doc, c := newTestController(t)

	for i := 0; i < 2; i++ {
		if err := c.Activate("ov_9"); err != nil {
			t.Fatalf("Activate #%d: %v", i+1, err)
		}
	}
	if got := visibleOverlays(t, doc); len(got) != 1 || got[0] != "ov_9" {
		t.Errorf("visible overlays: got %v, want [ov_9]", got)
	}
	if c.Active() != "ov_9" {
		t.Errorf("register: got %q, want ov_9", c.Active())
	}
}

func TestDeactivateHidesButKeepsRegister(t *testing.T) {
	doc, c := newTestController(t)

	if err := c.Activate("ov_5"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	c.Deactivate()

	if got := visibleOverlays(t, doc); len(got) != 0 {
		t.Errorf("visible overlays after Deactivate: got %v, want none", got)
	}
	// The register deliberately remembers the last-shown overlay.
	if c.Active() != "ov_5" {
		t.Errorf("register after Deactivate: got %q, want ov_5", c.Active())
	}
	if c.Showing() {
		t.Error("Showing() should be false after Deactivate")
	}
}

func TestActivateAfterDeactivateWithStaleRegister(t *testing.T) {
	doc, c := newTestController(t)

	if err := c.Activate("ov_5"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	c.Deactivate()

	// The stale register points at the hidden ov_5; activating another
	// overlay must still end with exactly one visible.
	if err := c.Activate("ov_9"); err != nil {
		t.Fatalf("Activate after stale register: %v", err)
	}
	if got := visibleOverlays(t, doc); len(got) != 1 || got[0] != "ov_9" {
		t.Errorf("visible overlays: got %v, want [ov_9]", got)
	}
}

func TestDeactivateOnEmptyRegister(t *testing.T) {
	doc, c := newTestController(t)
	c.Deactivate() // no-op
	if got := visibleOverlays(t, doc); len(got) != 0 {
		t.Errorf("visible overlays: got %v, want none", got)
	}
	if c.Active() != None {
		t.Errorf("register: got %q, want none", c.Active())
	}
}

func TestActivateUnknownID(t *testing.T) {
	doc, c := newTestController(t)

	if err := c.Activate("ov_5"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	err := c.Activate("ov_404")
	if !errors.Is(err, ErrOverlayNotFound) {
		t.Fatalf("expected ErrOverlayNotFound, got %v", err)
	}

	// No mutation: ov_5 stays visible and the register is untouched.
	if got := visibleOverlays(t, doc); len(got) != 1 || got[0] != "ov_5" {
		t.Errorf("visible overlays: got %v, want [ov_5]", got)
	}
	if c.Active() != "ov_5" {
		t.Errorf("register: got %q, want ov_5", c.Active())
	}
}

func TestStaleRegisterPointingAtMissingElement(t *testing.T) {
	// A holder carrying an id absent from the document is treated like an
	// empty register: the hide step is skipped, not an error.
	svg := `<svg xmlns="http://www.w3.org/2000/svg">
  <g id="ov_5" visibility="hidden"><text>x</text></g>
  <text id="activeOverlay">ov_gone</text>
</svg>`
	doc, err := svgdom.ParseString(svg)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	c := NewController(doc, "activeOverlay")

	if c.Active() != "ov_gone" {
		t.Fatalf("seeded register: got %q, want ov_gone", c.Active())
	}
	if err := c.Activate("ov_5"); err != nil {
		t.Fatalf("Activate with stale register: %v", err)
	}
	if c.Active() != "ov_5" {
		t.Errorf("register: got %q, want ov_5", c.Active())
	}
}

func TestHolderMirrorsRegister(t *testing.T) {
	doc, c := newTestController(t)

	if err := c.Activate("ov_12"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	holder, _ := doc.ByID("activeOverlay")
	if holder.Text != "ov_12" {
		t.Errorf("holder text: got %q, want ov_12", holder.Text)
	}
}

func TestControllerWithoutHolder(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">
  <g id="ov_1" visibility="hidden"><text>x</text></g>
</svg>`
	doc, err := svgdom.ParseString(svg)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	c := NewController(doc, "")
	if err := c.Activate("ov_1"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if c.Active() != "ov_1" {
		t.Errorf("register: got %q, want ov_1", c.Active())
	}
}
