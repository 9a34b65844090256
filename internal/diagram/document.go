package diagram

import (
	"fmt"

	"github.com/genomeviz/exonview/internal/labelbox"
	"github.com/genomeviz/exonview/internal/overlay"
	"github.com/genomeviz/exonview/internal/svgdom"
)

// DocumentOptions configures how a stored diagram is opened.
type DocumentOptions struct {
	LabelIDs []string
	HolderID string
	Box      labelbox.Options
	Measurer labelbox.Measurer
}

// Document is a live, interactive diagram: the parsed element tree, the
// visibility controller over its overlays, and the one-shot label
// background pass. Finalize must run once, after Open, before the document
// is served; it is the "after initial layout" point at which label extents
// become measurable.
type Document struct {
	doc       *svgdom.Document
	ctrl      *overlay.Controller
	synth     *labelbox.Synthesizer
	labelIDs  []string
	finalized bool
}

// Open parses svg and prepares its interactive layer. The document is not
// yet finalized: labels have no backing boxes until Finalize runs.
func Open(svg string, opts DocumentOptions) (*Document, error) {
	doc, err := svgdom.ParseString(svg)
	if err != nil {
		return nil, fmt.Errorf("opening diagram: %w", err)
	}

	return &Document{
		doc:      doc,
		ctrl:     overlay.NewController(doc, opts.HolderID),
		synth:    labelbox.New(doc, opts.Measurer, opts.Box),
		labelIDs: opts.LabelIDs,
	}, nil
}

// Finalize runs the label background synthesis pass exactly once. A second
// call is a guarded no-op returning the synthesis error, so re-entrant
// hosts cannot double-box labels.
func (d *Document) Finalize() error {
	if d.finalized {
		return labelbox.ErrAlreadySynthesized
	}
	d.finalized = true
	return d.synth.Run(d.labelIDs)
}

// Controller returns the document's visibility controller. All calls must
// be routed through a single goroutine; Session wraps the controller in a
// dispatcher for concurrent hosts.
func (d *Document) Controller() *overlay.Controller { return d.ctrl }

// DOM exposes the underlying element tree.
func (d *Document) DOM() *svgdom.Document { return d.doc }

// Render serializes the document's current state as SVG.
func (d *Document) Render() string {
	return d.doc.String()
}

// DetectLabels scans svg for elements following the legacy Mouseover<k>
// naming convention and returns their ids in k order. Used at import time
// to record the label list explicitly instead of trusting a count.
func DetectLabels(svg string) ([]string, error) {
	doc, err := svgdom.ParseString(svg)
	if err != nil {
		return nil, err
	}

	var ids []string
	for k := 1; ; k++ {
		id := fmt.Sprintf("Mouseover%d", k)
		if !doc.Has(id) {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DetectHolder reports whether svg contains a register holder element with
// the given id, i.e. the generator emitted the active-id register contract.
func DetectHolder(svg string, holderID string) bool {
	doc, err := svgdom.ParseString(svg)
	if err != nil {
		return false
	}
	return doc.Has(holderID)
}
