// Package labelbox gives diagram labels an opaque backing rectangle sized
// to their rendered extent, so overlaid text stays legible against whatever
// the diagram draws underneath. The pass runs once per document, after the
// document is fully parsed and font metrics are available: measuring before
// then would yield a zero-sized extent.
package labelbox

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/genomeviz/exonview/internal/svgdom"
	"github.com/genomeviz/exonview/internal/textmetrics"
)

// ErrAlreadySynthesized is returned when Run is invoked a second time on
// the same Synthesizer. Re-running would insert a second backing rectangle
// under every label, so the pass carries an explicit exactly-once guard.
var ErrAlreadySynthesized = errors.New("labelbox: synthesis already run")

// PaddingX is the horizontal padding added on each side of a label's
// measured extent. Vertical padding is zero: the measured height already
// spans ascenders to descenders.
const PaddingX = 2.0

// Options controls box styling and measurement fallbacks. All fields are
// pass-through presentation parameters with no effect on geometry beyond
// FontSize, which is used when a label does not declare its own.
type Options struct {
	Fill        string  // box fill, e.g. "white"
	Stroke      string  // box border color
	StrokeWidth float64 // box border width
	FontSize    float64 // fallback label font size in user units
}

// DefaultOptions are the box styles the diagram generator has historically
// used: an opaque white chip with a thin black border.
func DefaultOptions() Options {
	return Options{Fill: "white", Stroke: "black", StrokeWidth: 1, FontSize: 12}
}

// ConventionIDs returns the legacy label id list Mouseover1..MouseoverN for
// documents produced by generators that follow the fixed naming convention.
func ConventionIDs(n int) []string {
	ids := make([]string, 0, n)
	for k := 1; k <= n; k++ {
		ids = append(ids, fmt.Sprintf("Mouseover%d", k))
	}
	return ids
}

// Measurer supplies rendered text extents. *textmetrics.Measurer satisfies
// it; tests may substitute fixed-width metrics.
type Measurer interface {
	Measure(text string, size float64) (textmetrics.Extent, error)
}

// Synthesizer performs the one-shot label background pass over a document.
type Synthesizer struct {
	doc      *svgdom.Document
	measurer Measurer
	opts     Options
	done     bool
}

// New creates a Synthesizer for doc using measurer for text extents.
func New(doc *svgdom.Document, measurer Measurer, opts Options) *Synthesizer {
	return &Synthesizer{doc: doc, measurer: measurer, opts: opts}
}

// Run executes the pass for every id in labelIDs, in order. A label id not
// present in the document is skipped with a log line so a miscounted list
// never aborts the remaining labels. A second call returns
// ErrAlreadySynthesized without touching the document.
func (s *Synthesizer) Run(labelIDs []string) error {
	if s.done {
		return ErrAlreadySynthesized
	}
	s.done = true

	for _, id := range labelIDs {
		label, err := s.doc.ByID(id)
		if err != nil {
			log.Printf("labelbox: skipping %q: not in document", id)
			continue
		}
		if err := s.boxLabel(label); err != nil {
			log.Printf("labelbox: skipping %q: %v", id, err)
		}
	}
	return nil
}

// boxLabel measures one label, synthesizes its backing rectangle as the
// label's first child, and raises the label to the top of the paint order.
func (s *Synthesizer) boxLabel(label *svgdom.Element) error {
	ext, x, y, err := s.measureLabel(label)
	if err != nil {
		return err
	}

	rect := svgdom.NewElement("rect")
	rect.SetAttr("x", formatUnit(x-PaddingX))
	rect.SetAttr("y", formatUnit(y))
	rect.SetAttr("width", formatUnit(ext.Width+2*PaddingX))
	rect.SetAttr("height", formatUnit(ext.Height))
	rect.SetAttr("fill", s.opts.Fill)
	rect.SetAttr("stroke", s.opts.Stroke)
	rect.SetAttr("stroke-width", formatUnit(s.opts.StrokeWidth))

	s.doc.InsertFirst(label, rect)
	s.doc.RaiseToTop(label)
	return nil
}

// measureLabel computes the label's rendered bounding rectangle in its
// local coordinate space. The label is either a <text> element or a
// container holding one; a <text>'s y attribute is its baseline, so the
// box top sits one ascent above it.
func (s *Synthesizer) measureLabel(label *svgdom.Element) (textmetrics.Extent, float64, float64, error) {
	text := label.FirstByTag("text")
	if text == nil {
		return textmetrics.Extent{}, 0, 0, fmt.Errorf("no text content")
	}

	size := s.opts.FontSize
	if v := text.Attr("font-size"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			size = parsed
		}
	}

	ext, err := s.measurer.Measure(text.Text, size)
	if err != nil {
		return textmetrics.Extent{}, 0, 0, err
	}

	x := parseUnit(text.Attr("x"))
	baseline := parseUnit(text.Attr("y"))

	switch text.Attr("text-anchor") {
	case "middle":
		x -= ext.Width / 2
	case "end":
		x -= ext.Width
	}

	return ext, x, baseline - ext.Ascent, nil
}

func parseUnit(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// formatUnit renders a coordinate the way the generator does: no exponent,
// no trailing zeros.
func formatUnit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
