package textmetrics

import "testing"

func TestMeasureBasics(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ext, err := m.Measure("exon 12", 12)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if ext.Width <= 0 {
		t.Errorf("width: got %g, want > 0", ext.Width)
	}
	if ext.Ascent <= 0 || ext.Descent <= 0 {
		t.Errorf("metrics: ascent %g, descent %g, want both > 0", ext.Ascent, ext.Descent)
	}
	if ext.Height != ext.Ascent+ext.Descent {
		t.Errorf("height %g != ascent %g + descent %g", ext.Height, ext.Ascent, ext.Descent)
	}
}

func TestLongerTextIsWider(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	short, err := m.Measure("exon", 12)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	long, err := m.Measure("exon with frameshift", 12)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if long.Width <= short.Width {
		t.Errorf("longer text not wider: %g <= %g", long.Width, short.Width)
	}
}

func TestLargerSizeIsWider(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	small, err := m.Measure("exon 1", 10)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	big, err := m.Measure("exon 1", 20)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if big.Width <= small.Width {
		t.Errorf("larger size not wider: %g <= %g", big.Width, small.Width)
	}
	if big.Height <= small.Height {
		t.Errorf("larger size not taller: %g <= %g", big.Height, small.Height)
	}
}

func TestEmptyString(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ext, err := m.Measure("", 12)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if ext.Width != 0 {
		t.Errorf("empty string width: got %g, want 0", ext.Width)
	}
}

func TestMissingFontFile(t *testing.T) {
	if _, err := NewFromFile("/does/not/exist.ttf"); err == nil {
		t.Error("expected error for missing font file")
	}
}
