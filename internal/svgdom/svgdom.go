// Package svgdom provides a small mutable element tree over parsed SVG.
// It models only what the interactive layer needs: id lookup, attribute
// access, child insertion, and paint-order manipulation. The document is
// parsed once and mutated in place; Serialize writes the current state
// back out as SVG.
package svgdom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrNotFound is returned when an element id does not exist in the document.
var ErrNotFound = errors.New("svgdom: element not found")

// Visibility attribute values recognized by the interactive layer.
const (
	Visible = "visible"
	Hidden  = "hidden"
)

// Attr is a single name/value attribute pair. Order is preserved from the
// source document so serialization round-trips cleanly.
type Attr struct {
	Name  string
	Value string
}

// Element is one node in the document tree. Text holds character data that
// appeared directly inside the element, concatenated and trimmed.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string

	parent *Element
}

// Document is a parsed SVG document. The root element is the outermost
// <svg> element; byID indexes every element carrying an id attribute.
type Document struct {
	Root *Element

	byID map[string]*Element
}

// Parse reads an SVG document from r. The decoder is lenient, matching how
// hand-written and tool-generated SVG tends to look in the wild: non-strict,
// HTML entities allowed, charset detection on the underlying reader.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{byID: make(map[string]*Element)}
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local}
			for _, a := range t.Attr {
				name := a.Name.Local
				if a.Name.Space != "" && a.Name.Space != "xmlns" {
					name = nsPrefix(a.Name.Space) + ":" + a.Name.Local
				} else if a.Name.Space == "xmlns" {
					name = "xmlns:" + a.Name.Local
				}
				el.Attrs = append(el.Attrs, Attr{Name: name, Value: a.Value})
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("parsing svg: multiple root elements")
				}
				doc.Root = el
			} else {
				parent := stack[len(stack)-1]
				el.parent = parent
				parent.Children = append(parent.Children, el)
			}
			if id := el.Attr("id"); id != "" {
				doc.byID[id] = el
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing svg: unbalanced end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				if s := strings.TrimSpace(string(t)); s != "" {
					cur := stack[len(stack)-1]
					cur.Text += s
				}
			}
		}
	}

	if doc.Root == nil {
		return nil, fmt.Errorf("parsing svg: no root element")
	}
	return doc, nil
}

// ParseString parses an SVG document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// nsPrefix maps a resolved namespace URI back to its conventional prefix.
// encoding/xml expands prefixes to URIs; only xlink matters for the SVG the
// external generator emits.
func nsPrefix(space string) string {
	if strings.Contains(space, "xlink") {
		return "xlink"
	}
	return space
}

// ByID returns the element with the given id, or ErrNotFound.
func (d *Document) ByID(id string) (*Element, error) {
	if el, ok := d.byID[id]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Has reports whether an element with the given id exists.
func (d *Document) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// IDs returns all indexed ids in sorted order.
func (d *Document) IDs() []string {
	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// register adds el (and any id-carrying descendants) to the id index.
func (d *Document) register(el *Element) {
	if id := el.Attr("id"); id != "" {
		d.byID[id] = el
	}
	for _, c := range el.Children {
		d.register(c)
	}
}

// Attr returns the value of the named attribute, or "" if absent.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// SetAttr sets the named attribute, replacing any existing value.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Visibility returns the element's visibility attribute, defaulting to
// visible when the attribute is absent (SVG's initial value).
func (e *Element) Visibility() string {
	if v := e.Attr("visibility"); v != "" {
		return v
	}
	return Visible
}

// SetVisibility sets the visibility attribute.
func (e *Element) SetVisibility(v string) {
	e.SetAttr("visibility", v)
}

// Parent returns the element's parent, or nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// FirstByTag returns the first descendant (depth-first, or e itself) with
// the given tag, or nil.
func (e *Element) FirstByTag(tag string) *Element {
	if e.Tag == tag {
		return e
	}
	for _, c := range e.Children {
		if found := c.FirstByTag(tag); found != nil {
			return found
		}
	}
	return nil
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// InsertFirst inserts child at the front of e's child list, so it paints
// behind every existing child.
func (d *Document) InsertFirst(e, child *Element) {
	child.detach()
	child.parent = e
	e.Children = append([]*Element{child}, e.Children...)
	d.register(child)
}

// Append appends child to the end of e's child list, so it paints above
// every existing child.
func (d *Document) Append(e, child *Element) {
	child.detach()
	child.parent = e
	e.Children = append(e.Children, child)
	d.register(child)
}

// RaiseToTop re-appends e to the root's child list. In SVG paint order the
// last child of the root renders above all of its siblings.
func (d *Document) RaiseToTop(e *Element) {
	if e == d.Root || e.parent == nil {
		return
	}
	d.Append(d.Root, e)
}

// detach removes e from its current parent's child list, if any.
func (e *Element) detach() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == e {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// WriteTo serializes the document as SVG with an XML declaration.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	writeElement(&sb, d.Root, 0)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String serializes the document as SVG.
func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	writeElement(&sb, d.Root, 0)
	return sb.String()
}

func writeElement(sb *strings.Builder, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	for _, a := range e.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		xml.EscapeText(sb, []byte(a.Value))
		sb.WriteByte('"')
	}

	if len(e.Children) == 0 && e.Text == "" {
		sb.WriteString("/>\n")
		return
	}

	sb.WriteByte('>')
	if e.Text != "" {
		xml.EscapeText(sb, []byte(e.Text))
	}
	if len(e.Children) > 0 {
		sb.WriteByte('\n')
		for _, c := range e.Children {
			writeElement(sb, c, depth+1)
		}
		sb.WriteString(indent)
	}
	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteString(">\n")
}
