// Package textmetrics measures rendered text extents without a display.
// Label background boxes must match what the text actually occupies on
// screen, and that is only knowable from real font metrics, so the package
// shapes strings against a parsed OpenType face at the label's font size.
package textmetrics

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Extent is the measured bounding extent of a string: Width is the total
// advance, Ascent and Descent are the face metrics at the measured size.
// Height is Ascent+Descent, the vertical span a renderer reserves for the
// line.
type Extent struct {
	Width   float64
	Height  float64
	Ascent  float64
	Descent float64
}

// Measurer measures strings against a single font, caching one face per
// requested size. Safe for concurrent use.
type Measurer struct {
	fnt *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// New returns a Measurer over the embedded Go Regular font.
func New() (*Measurer, error) {
	return fromBytes(goregular.TTF)
}

// NewFromFile returns a Measurer over a TTF/OTF file, for deployments where
// the external generator emits labels in a specific font.
func NewFromFile(path string) (*Measurer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %s: %w", path, err)
	}
	return fromBytes(data)
}

func fromBytes(data []byte) (*Measurer, error) {
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return &Measurer{fnt: fnt, faces: make(map[float64]font.Face)}, nil
}

// face returns a cached face at the given point size, creating it on first
// use. Caller must hold m.mu; faces are not safe for concurrent shaping.
func (m *Measurer) face(size float64) (font.Face, error) {
	if f, ok := m.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face at %gpt: %w", size, err)
	}
	m.faces[size] = f
	return f, nil
}

// Measure returns the extent of text at the given point size. At 72 DPI one
// point equals one SVG user unit, so the result is directly usable as
// document geometry.
func (m *Measurer) Measure(text string, size float64) (Extent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.face(size)
	if err != nil {
		return Extent{}, err
	}

	width := float64(font.MeasureString(f, text)) / 64.0
	metrics := f.Metrics()
	ascent := float64(metrics.Ascent) / 64.0
	descent := float64(metrics.Descent) / 64.0

	return Extent{
		Width:   width,
		Height:  ascent + descent,
		Ascent:  ascent,
		Descent: descent,
	}, nil
}
