// Package overlay enforces single-active-overlay semantics on a diagram
// document. At most one overlay element is visible at any moment; which one
// is recorded in a single active-id register owned by the Controller.
package overlay

import (
	"errors"
	"fmt"

	"github.com/genomeviz/exonview/internal/svgdom"
)

// None is the register sentinel meaning no overlay has been activated yet.
const None = "none"

// ErrOverlayNotFound is returned by Activate when the target id does not
// exist in the document. The call makes no mutation in that case.
var ErrOverlayNotFound = errors.New("overlay: element not found")

// Controller owns the active-id register for one document. It is not safe
// for concurrent use; route calls through a Dispatcher when events arrive
// from more than one goroutine.
type Controller struct {
	doc      *svgdom.Document
	active   string
	holderID string
}

// NewController creates a controller over doc with the register initialized
// to None. holderID names the document element whose text content mirrors
// the register (the generator contract initializes it to "none"); pass ""
// when the document has no holder. If the holder exists and carries a
// non-empty value, that value seeds the register, so a serialized snapshot
// can be reloaded without losing interaction state.
func NewController(doc *svgdom.Document, holderID string) *Controller {
	c := &Controller{doc: doc, active: None, holderID: holderID}
	if holderID != "" {
		if holder, err := doc.ByID(holderID); err == nil && holder.Text != "" {
			c.active = holder.Text
		}
	}
	return c
}

// Active returns the register's current value: None, or the id of the
// overlay last activated. Note that after Deactivate the register still
// holds the last-activated id even though its element is hidden.
func (c *Controller) Active() string { return c.active }

// Showing reports whether the register's element is currently visible.
// False when the register is None, when Deactivate has hidden the element
// the register still points at, or when the element has been removed.
func (c *Controller) Showing() bool {
	if c.active == None {
		return false
	}
	el, err := c.doc.ByID(c.active)
	if err != nil {
		return false
	}
	return el.Visibility() == svgdom.Visible
}

// Activate hides the previously-active overlay, if any, shows the overlay
// with the given id, and stores the id in the register. If the register
// points at an element no longer present in the document the hide step is
// skipped silently. If targetID itself is absent, Activate mutates nothing
// and returns ErrOverlayNotFound.
func (c *Controller) Activate(targetID string) error {
	target, err := c.doc.ByID(targetID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrOverlayNotFound, targetID)
	}

	if c.active != None {
		if prev, err := c.doc.ByID(c.active); err == nil {
			prev.SetVisibility(svgdom.Hidden)
		}
	}

	target.SetVisibility(svgdom.Visible)
	c.active = targetID
	c.syncHolder()
	return nil
}

// Deactivate hides the currently-active overlay, if any. The register is
// deliberately left pointing at the hidden overlay's id: this matches the
// long-observed behavior of the rendered diagrams, and Activate tolerates
// the stale value by treating the redundant hide as a no-op.
func (c *Controller) Deactivate() {
	if c.active == None {
		return
	}
	if el, err := c.doc.ByID(c.active); err == nil {
		el.SetVisibility(svgdom.Hidden)
	}
}

// syncHolder writes the register value into the holder element's text
// content so the serialized document reflects live state.
func (c *Controller) syncHolder() {
	if c.holderID == "" {
		return
	}
	if holder, err := c.doc.ByID(c.holderID); err == nil {
		holder.Text = c.active
	}
}
