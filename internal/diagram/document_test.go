package diagram

import (
	"errors"
	"strings"
	"testing"

	"github.com/genomeviz/exonview/internal/labelbox"
	"github.com/genomeviz/exonview/internal/textmetrics"
)

const fixtureSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="400" height="200">
  <rect id="exon_1" x="10" y="80" width="60" height="30" data-overlay="ov_1"/>
  <g id="ov_1" visibility="hidden"><text x="15" y="70">intact</text></g>
  <g id="Mouseover1"><text x="20" y="40" font-size="12">exon 1</text></g>
  <g id="Mouseover2"><text x="120" y="40" font-size="12">exon 2</text></g>
  <text id="activeOverlay" visibility="hidden">none</text>
</svg>`

func testMeasurer(t *testing.T) *textmetrics.Measurer {
	t.Helper()
	m, err := textmetrics.New()
	if err != nil {
		t.Fatalf("textmetrics.New: %v", err)
	}
	return m
}

func testOptions(t *testing.T) DocumentOptions {
	t.Helper()
	return DocumentOptions{
		LabelIDs: []string{"Mouseover1", "Mouseover2"},
		HolderID: "activeOverlay",
		Box:      labelbox.DefaultOptions(),
		Measurer: testMeasurer(t),
	}
}

func TestOpenFinalizeRender(t *testing.T) {
	doc, err := Open(fixtureSVG, testOptions(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	out := doc.Render()
	if !strings.Contains(out, "<rect") {
		t.Error("rendered output missing background rects")
	}
	// Both labels got boxed and raised above the holder element.
	label1, err := doc.DOM().ByID("Mouseover1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(label1.Children) == 0 || label1.Children[0].Tag != "rect" {
		t.Error("Mouseover1 missing background rect as first child")
	}
}

func TestDoubleFinalize(t *testing.T) {
	doc, err := Open(fixtureSVG, testOptions(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if err := doc.Finalize(); !errors.Is(err, labelbox.ErrAlreadySynthesized) {
		t.Fatalf("second Finalize: got %v, want ErrAlreadySynthesized", err)
	}
}

func TestControllerDrivesRenderedState(t *testing.T) {
	doc, err := Open(fixtureSVG, testOptions(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := doc.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if err := doc.Controller().Activate("ov_1"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	out := doc.Render()
	if !strings.Contains(out, `visibility="visible"`) {
		t.Error("rendered output missing visible overlay")
	}
	if !strings.Contains(out, ">ov_1</text>") {
		t.Error("holder element not updated in rendered output")
	}
}

func TestOpenInvalidSVG(t *testing.T) {
	if _, err := Open("", testOptions(t)); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestDetectLabels(t *testing.T) {
	ids, err := DetectLabels(fixtureSVG)
	if err != nil {
		t.Fatalf("DetectLabels: %v", err)
	}
	if len(ids) != 2 || ids[0] != "Mouseover1" || ids[1] != "Mouseover2" {
		t.Errorf("got %v, want [Mouseover1 Mouseover2]", ids)
	}
}

func TestDetectLabelsNone(t *testing.T) {
	ids, err := DetectLabels(`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`)
	if err != nil {
		t.Fatalf("DetectLabels: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %v, want empty", ids)
	}
}

func TestDetectHolder(t *testing.T) {
	if !DetectHolder(fixtureSVG, "activeOverlay") {
		t.Error("expected holder to be detected")
	}
	if DetectHolder(fixtureSVG, "otherHolder") {
		t.Error("unexpected holder detection")
	}
}
